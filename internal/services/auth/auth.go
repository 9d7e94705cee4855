// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией:
// регистрацию, вход, двухфакторную аутентификацию и сброс учётных данных.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/farm-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/farm-manager/internal/lib/password"
	"github.com/magabrotheeeer/farm-manager/internal/models"
	"github.com/magabrotheeeer/farm-manager/internal/storage"
)

var (
	// ErrInvalidCredentials возвращается при неизвестном пользователе или неверном пароле.
	// Причины намеренно не различаются.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrTwoFactorNotSetup возвращается при проверке кода, если у пользователя нет секрета TOTP.
	ErrTwoFactorNotSetup = errors.New("2FA not setup")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// GetUserByUsername возвращает пользователя или storage.ErrUserNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// CreateUser сохраняет пользователя и возвращает его ID или storage.ErrUserExists.
	CreateUser(ctx context.Context, user models.User) (int64, error)
	SetTwoFactorSecret(ctx context.Context, username, secret string) error
	CountUsers(ctx context.Context) (int, error)
	// ResetAll атомарно очищает данные и создаёт пользователей seed.
	ResetAll(ctx context.Context, seed []models.User) error
}

// ActivityRecorder принимает исходы попыток входа.
type ActivityRecorder interface {
	Record(username, outcome string)
}

// LoginCounter учитывает попытки входа в метриках.
type LoginCounter interface {
	LoginAttempt(outcome string)
}

// DefaultAccount — учётная запись, создаваемая при сбросе и на пустой базе.
type DefaultAccount struct {
	Username string
	Password string
	Role     string
}

// DefaultAccounts возвращает стандартный набор учётных записей.
func DefaultAccounts() []DefaultAccount {
	return []DefaultAccount{
		{Username: "admin", Password: "adminpass", Role: models.RoleAdmin},
		{Username: "user1", Password: "user1pass", Role: models.RoleUser},
		{Username: "user2", Password: "user2pass", Role: models.RoleUser},
	}
}

// SignupInput — данные регистрации после валидации.
type SignupInput struct {
	Username    string
	Password    string
	Email       string
	DisplayName string
}

// LoginResult — результат успешного входа.
type LoginResult struct {
	User  *models.User
	TwoFA bool
	Token string
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	activity ActivityRecorder
	counter  LoginCounter
	hasher   password.Hasher
	issuer   string
	now      func() time.Time
}

// Option настраивает AuthService.
type Option func(*AuthService)

// WithHasher задаёт стоимость bcrypt. Используется в тестах.
func WithHasher(h password.Hasher) Option {
	return func(s *AuthService) { s.hasher = h }
}

// WithClock задаёт источник времени для проверки кодов TOTP.
func WithClock(now func() time.Time) Option {
	return func(s *AuthService) { s.now = now }
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, activity ActivityRecorder, counter LoginCounter, opts ...Option) *AuthService {
	s := &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		activity: activity,
		counter:  counter,
		issuer:   TwoFactorIssuer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register создает пользователя с ролью "user" и выпускает для него токен.
// Отображаемое имя по умолчанию совпадает с именем пользователя.
func (s *AuthService) Register(ctx context.Context, in SignupInput) (*models.User, string, error) {
	const op = "services.auth.Register"

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	displayName := in.DisplayName
	if displayName == "" {
		displayName = in.Username
	}
	user := models.User{
		Username:     in.Username,
		PasswordHash: hashed,
		Role:         models.RoleUser,
		Email:        in.Email,
		DisplayName:  displayName,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	user.ID = id

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return &user, token, nil
}

// Login проверяет пароль пользователя и выпускает JWT.
// Каждая попытка, дошедшая до проверки пароля, попадает в журнал входов.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*LoginResult, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrUserNotFound) {
		s.record(username, models.LoginFail)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ok, err := password.Verify(user.PasswordHash, rawPassword)
	if err != nil {
		s.record(username, models.LoginFail)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		s.record(username, models.LoginFail)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.record(username, models.LoginSuccess)

	return &LoginResult{
		User:  user,
		TwoFA: user.HasTwoFA(),
		Token: token,
	}, nil
}

func (s *AuthService) record(username, outcome string) {
	if s.activity != nil {
		s.activity.Record(username, outcome)
	}
	if s.counter != nil {
		s.counter.LoginAttempt(outcome)
	}
}

// ValidateToken проверяет JWT и возвращает его утверждения.
func (s *AuthService) ValidateToken(token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}

// Reset заново хеширует стандартные учётные записи и атомарно сбрасывает базу.
func (s *AuthService) Reset(ctx context.Context) error {
	const op = "services.auth.Reset"

	seed, err := s.defaultUsers()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = s.users.ResetAll(ctx, seed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// EnsureDefaultUsers создаёт стандартные учётные записи, если пользователей ещё нет.
// Возвращает true, если учётные записи были созданы.
func (s *AuthService) EnsureDefaultUsers(ctx context.Context) (bool, error) {
	const op = "services.auth.EnsureDefaultUsers"

	n, err := s.users.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		return false, nil
	}

	seed, err := s.defaultUsers()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range seed {
		if _, err = s.users.CreateUser(ctx, u); err != nil && !errors.Is(err, storage.ErrUserExists) {
			return false, fmt.Errorf("%s: %w", op, err)
		}
	}
	return true, nil
}

func (s *AuthService) defaultUsers() ([]models.User, error) {
	accounts := DefaultAccounts()
	seed := make([]models.User, 0, len(accounts))
	for _, a := range accounts {
		hashed, err := s.hasher.Hash(a.Password)
		if err != nil {
			return nil, err
		}
		seed = append(seed, models.User{
			Username:     a.Username,
			PasswordHash: hashed,
			Role:         a.Role,
			DisplayName:  a.Username,
		})
	}
	return seed, nil
}
