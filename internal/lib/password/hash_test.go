package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGetHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "regular password", password: "Harvest2024!"},
		{name: "password with special chars", password: "p@ssw0rd!$%*?&"},
		{name: "short password", password: "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := GetHash(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, gotHash)

			cost, err := bcrypt.Cost([]byte(gotHash))
			require.NoError(t, err)
			assert.Equal(t, DefaultCost, cost)

			ok, err := Verify(gotHash, tt.password)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestHash_SaltedTwice(t *testing.T) {
	h := Hasher{Cost: bcrypt.MinCost}

	first, err := h.Hash("Tomato#42")
	require.NoError(t, err)
	second, err := h.Hash("Tomato#42")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	for _, hash := range []string{first, second} {
		ok, err := Verify(hash, "Tomato#42")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestVerify(t *testing.T) {
	h := Hasher{Cost: bcrypt.MinCost}
	correctHash, err := h.Hash("correct_password")
	require.NoError(t, err)
	anotherHash, err := h.Hash("another_password")
	require.NoError(t, err)

	tests := []struct {
		name      string
		hash      string
		password  string
		wantMatch bool
		wantErr   bool
	}{
		{name: "matching password", hash: correctHash, password: "correct_password", wantMatch: true},
		{name: "wrong password", hash: correctHash, password: "wrong_password"},
		{name: "different hash same password", hash: anotherHash, password: "correct_password"},
		{name: "empty password", hash: correctHash, password: ""},
		{name: "malformed stored hash", hash: "not-a-bcrypt-hash", password: "correct_password", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := Verify(tt.hash, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMatch, ok)
		})
	}
}

func TestCompareHash_WrapsMismatch(t *testing.T) {
	hash, err := Hasher{Cost: bcrypt.MinCost}.Hash("Secret1!")
	require.NoError(t, err)

	err = CompareHash(hash, "Secret2!")
	require.Error(t, err)
	assert.ErrorIs(t, err, bcrypt.ErrMismatchedHashAndPassword)
	assert.Contains(t, err.Error(), "password.CompareHash")
}
