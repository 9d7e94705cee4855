package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

// setupTestStorage открывает отдельную in-memory базу для теста с применёнными миграциями.
func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := New("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// testDataFactory содержит методы для заполнения таблиц, у которых нет операций создания.
type testDataFactory struct {
	storage *Storage
}

func (f *testDataFactory) createCrop(t *testing.T, name, variety, project string) {
	t.Helper()
	_, err := f.storage.DB.Exec(`INSERT INTO crops (name, variety, planting_date, harvest_date, project)
		VALUES (?, ?, '2024-03-01', '2024-08-01', ?)`, name, variety, project)
	require.NoError(t, err)
}

func (f *testDataFactory) createInventory(t *testing.T, item string, quantity float64, unit string) {
	t.Helper()
	_, err := f.storage.DB.Exec(`INSERT INTO inventory (item, quantity, unit, category, location)
		VALUES (?, ?, ?, 'supplies', 'barn')`, item, quantity, unit)
	require.NoError(t, err)
}

func (f *testDataFactory) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.storage.DB.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}
