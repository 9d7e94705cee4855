// Package login реализует HTTP-обработчик входа пользователя.
//
// Обработчик разбирает и валидирует тело запроса, делегирует проверку
// учётных данных сервису и возвращает данные пользователя вместе с JWT.
// Неизвестный пользователь и неверный пароль дают одинаковый ответ 401.
package login

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
	authservice "github.com/magabrotheeeer/farm-manager/internal/services/auth"
)

// MsgInvalidCredentials — единый ответ на неверное имя или пароль.
const MsgInvalidCredentials = "Invalid username or password"

// Request — структура входных данных для авторизации.
type Request struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Response — данные успешного входа.
type Response struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	TwoFA    bool   `json:"twoFA"`
	Token    string `json:"token"`
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, username, password string) (*authservice.LoginResult, error)
}

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис аутентификации
	validate *validator.Validate // Валидатор для проверки входных данных
}

// New создает новый экземпляр Handler с указанными логгером и сервисом аутентификации.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

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

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err))
		return
	}

	res, err := h.service.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, authservice.ErrInvalidCredentials) {
		log.Info("login failed", slog.String("username", req.Username))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(MsgInvalidCredentials))
		return
	}
	if err != nil {
		log.Error("login error", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	log.Info("user logged in", slog.String("username", res.User.Username), slog.Int64("id", res.User.ID))
	render.JSON(w, r, Response{
		ID:       res.User.ID,
		Username: res.User.Username,
		Role:     res.User.Role,
		TwoFA:    res.TwoFA,
		Token:    res.Token,
	})
}
