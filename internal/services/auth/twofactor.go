package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/magabrotheeeer/farm-manager/internal/storage"
)

// TwoFactorIssuer — издатель, отображаемый в приложении-аутентификаторе.
const TwoFactorIssuer = "FarmApp"

const qrSize = 200

// TwoFactorSetup — данные для подключения приложения-аутентификатора.
type TwoFactorSetup struct {
	OTPAuthURL string `json:"otpauth_url"`
	QR         string `json:"qr"`
	Secret     string `json:"secret"`
}

// SetupTwoFactor создаёт и сохраняет новый секрет TOTP пользователя.
// Повторный вызов заменяет прежний секрет.
func (s *AuthService) SetupTwoFactor(ctx context.Context, username string) (*TwoFactorSetup, error) {
	const op = "services.auth.SetupTwoFactor"

	if _, err := s.users.GetUserByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: username,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	qr, err := qrDataURL(key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = s.users.SetTwoFactorSecret(ctx, username, key.Secret()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &TwoFactorSetup{
		OTPAuthURL: key.URL(),
		QR:         qr,
		Secret:     key.Secret(),
	}, nil
}

// VerifyTwoFactor проверяет одноразовый код пользователя.
// Допускается отклонение на один 30-секундный шаг. Для неизвестного
// пользователя, как и для пользователя без секрета, возвращается ErrTwoFactorNotSetup.
func (s *AuthService) VerifyTwoFactor(ctx context.Context, username, code string) (bool, error) {
	const op = "services.auth.VerifyTwoFactor"

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrUserNotFound) {
		return false, fmt.Errorf("%s: %w", op, ErrTwoFactorNotSetup)
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !user.HasTwoFA() {
		return false, fmt.Errorf("%s: %w", op, ErrTwoFactorNotSetup)
	}

	ok, err := totp.ValidateCustom(code, user.TwoFASecret, s.now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		// Код неверной длины или формата считается неверным.
		return false, nil
	}
	return ok, nil
}

func qrDataURL(key *otp.Key) (string, error) {
	img, err := key.Image(qrSize, qrSize)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err = png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
