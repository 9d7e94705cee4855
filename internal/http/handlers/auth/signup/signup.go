// Package signup реализует HTTP-обработчик регистрации пользователя.
package signup

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/farm-manager/internal/http/request"
	"github.com/magabrotheeeer/farm-manager/internal/http/response"
	"github.com/magabrotheeeer/farm-manager/internal/lib/sl"
	"github.com/magabrotheeeer/farm-manager/internal/lib/validate"
	"github.com/magabrotheeeer/farm-manager/internal/models"
	authservice "github.com/magabrotheeeer/farm-manager/internal/services/auth"
	"github.com/magabrotheeeer/farm-manager/internal/storage"
)

// MsgUsernameTaken — ответ на попытку занять существующее имя.
const MsgUsernameTaken = "Username already exists"

// Request — структура входных данных для регистрации.
//
// Пароль: не короче 8 символов, строчная и заглавная буквы, цифра и спецсимвол.
// Сложность проверяется на уровне структуры, см. validate.RegisterPasswordRules.
type Request struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Password    string `json:"password" validate:"required,min=8"`
	Email       string `json:"email" validate:"omitempty,email"`
	DisplayName string `json:"displayName" validate:"max=100"`
}

// PasswordValue реализует validate.PasswordHolder.
func (r Request) PasswordValue() string {
	return r.Password
}

// Response — данные созданного пользователя и его токен.
type Response struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

// Service описывает интерфейс регистрации.
type Service interface {
	Register(ctx context.Context, in authservice.SignupInput) (*models.User, string, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	v := validate.New()
	validate.RegisterPasswordRules(v, Request{})
	return &Handler{
		log:      log,
		service:  service,
		validate: v,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := request.DecodeJSON(r, &req); err != nil {
		log.Warn("failed to decode request body", slog.String("ip", request.ClientIP(r)), sl.Err(err))
		status, msg := request.Describe(err)
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}
	req.Username = request.Sanitize(req.Username)
	req.Email = request.Sanitize(req.Email)
	req.DisplayName = request.Sanitize(req.DisplayName)

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err))
		return
	}

	user, token, err := h.service.Register(r.Context(), authservice.SignupInput{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		DisplayName: req.DisplayName,
	})
	if errors.Is(err, storage.ErrUserExists) {
		log.Info("username already exists", slog.String("username", req.Username))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error(MsgUsernameTaken))
		return
	}
	if err != nil {
		log.Error("signup error", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	log.Info("user registered", slog.String("username", user.Username), slog.Int64("id", user.ID))
	render.JSON(w, r, Response{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
	})
}
