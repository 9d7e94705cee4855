// Package twofa реализует HTTP-обработчики подключения и проверки TOTP.
package twofa

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
	"github.com/magabrotheeeer/farm-manager/internal/storage"
)

// Сообщения об ошибках.
const (
	MsgUserNotFound = "User not found"
	MsgNotSetup     = "2FA not setup"
)

// SetupRequest — запрос на создание секрета.
type SetupRequest struct {
	Username string `json:"username" validate:"required"`
}

// VerifyRequest — запрос на проверку одноразового кода.
type VerifyRequest struct {
	Username string `json:"username" validate:"required"`
	Token    string `json:"token" validate:"required"`
}

// VerifyResponse — результат проверки кода.
type VerifyResponse struct {
	Verified bool `json:"verified"`
}

// Service описывает операции двухфакторной аутентификации.
type Service interface {
	SetupTwoFactor(ctx context.Context, username string) (*authservice.TwoFactorSetup, error)
	VerifyTwoFactor(ctx context.Context, username, code string) (bool, error)
}

// Handler обслуживает /2fa/setup и /2fa/verify.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

// Setup создаёт секрет TOTP и возвращает ссылку otpauth, QR-код и сам секрет.
func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.twofa.setup"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req SetupRequest
	if !h.bind(w, r, log, &req) {
		return
	}
	req.Username = request.Sanitize(req.Username)

	setup, err := h.service.SetupTwoFactor(r.Context(), req.Username)
	if errors.Is(err, storage.ErrUserNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(MsgUserNotFound))
		return
	}
	if err != nil {
		log.Error("2FA setup error", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	log.Info("2FA secret created", slog.String("username", req.Username))
	render.JSON(w, r, setup)
}

// Verify проверяет одноразовый код пользователя.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.twofa.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req VerifyRequest
	if !h.bind(w, r, log, &req) {
		return
	}
	req.Username = request.Sanitize(req.Username)

	verified, err := h.service.VerifyTwoFactor(r.Context(), req.Username, req.Token)
	if errors.Is(err, authservice.ErrTwoFactorNotSetup) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(MsgNotSetup))
		return
	}
	if err != nil {
		log.Error("2FA verify error", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, VerifyResponse{Verified: verified})
}

func (h *Handler) bind(w http.ResponseWriter, r *http.Request, log *slog.Logger, dst any) bool {
	if err := request.DecodeJSON(r, dst); err != nil {
		log.Warn("failed to decode request body", sl.Err(err))
		status, msg := request.Describe(err)
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err))
		return false
	}
	return true
}
