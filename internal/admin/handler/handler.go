package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"regdesk/internal/admin/service"
	"regdesk/internal/platform/device"
	"regdesk/internal/platform/middleware"
	respond "regdesk/internal/transport/http/json"
	"regdesk/internal/transport/http/shared"
	dErrors "regdesk/pkg/domain-errors"
)

// Service is the admin authentication interface consumed by the handler.
type Service interface {
	Login(ctx context.Context, username, password, device string) (*service.LoginResult, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: svc,
		logger:  logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/login", h.HandleLogin)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"` // seconds
}

// HandleLogin implements POST /admin/login.
// Input: { "username": "...", "password": "..." }
// Output: 200 { "success": true, "token": "...", "expiresIn": 43200 }
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, 4*1024)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON in request body"))
		return
	}

	clientDevice := device.ParseUserAgent(r.UserAgent())
	result, err := h.service.Login(ctx, req.Username, req.Password, clientDevice)
	if err != nil {
		h.logger.WarnContext(ctx, "admin login rejected",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, &loginResponse{
		Success:   true,
		Token:     result.Token,
		ExpiresIn: int64(result.ExpiresIn.Seconds()),
	})
}
