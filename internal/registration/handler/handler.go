package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"regdesk/internal/platform/middleware"
	"regdesk/internal/registration/models"
	"regdesk/internal/transport/http/json"
	"regdesk/internal/transport/http/shared"
	dErrors "regdesk/pkg/domain-errors"
)

// Service is the registration operations interface consumed by the handler.
type Service interface {
	Create(ctx context.Context, form *models.SubmissionForm) (*models.Registration, error)
	Update(ctx context.Context, id int64, form *models.SubmissionForm) (*models.Registration, error)
	Get(ctx context.Context, id int64) (*models.Registration, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.Filter, page models.Page) ([]*models.Registration, models.Pagination, error)
	FilterOptions(ctx context.Context, state string) (states, cities []string, err error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterPublic mounts the unauthenticated submission endpoints.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/register", h.HandleSubmit)
	r.Put("/register", h.HandleUpdate)
}

// RegisterDashboard mounts the admin dashboard endpoints. The caller is
// expected to wrap these with the auth middleware.
func (h *Handler) RegisterDashboard(r chi.Router) {
	r.Get("/dashboard", h.HandleDashboard)
	r.Delete("/dashboard", h.HandleDelete)
	r.Get("/dashboard/filters", h.HandleFilterOptions)
}

// HandleSubmit implements POST /register.
// Input: multipart form with the registration fields plus "photo" and "video"
// file parts.
// Output: 201 { "success": true, "registration": {...} }
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, cleanup, err := parseSubmission(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to parse registration submission",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	defer cleanup()

	reg, err := h.service.Create(ctx, form)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create registration",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusCreated, &models.RegistrationResponse{
		Success:      true,
		Registration: reg,
	})
}

// HandleUpdate implements PUT /register?id=<id>.
// Attachments are optional; an omitted slot keeps its stored URL.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := requireID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	form, cleanup, err := parseSubmission(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to parse registration update",
			"error", err,
			"registration_id", id,
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	defer cleanup()

	reg, err := h.service.Update(ctx, id, form)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update registration",
			"error", err,
			"registration_id", id,
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, &models.RegistrationResponse{
		Success:      true,
		Registration: reg,
	})
}

// HandleDashboard implements GET /dashboard.
// With ?id= it returns a single record; otherwise one page of the filtered
// listing with pagination metadata.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("id") {
		h.handleGetOne(w, r)
		return
	}
	h.handleList(w, r)
}

func (h *Handler) handleGetOne(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := requireID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	reg, err := h.service.Get(ctx, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, &models.RegistrationResponse{
		Success:      true,
		Registration: reg,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := models.Filter{
		Search: q.Get("search"),
		State:  q.Get("state"),
		City:   q.Get("city"),
		Gender: q.Get("gender"),
	}
	page := models.Page{
		Number: intQuery(q.Get("page"), 1),
		Size:   intQuery(q.Get("limit"), models.DefaultPageSize),
	}

	regs, pagination, err := h.service.List(ctx, filter, page)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list registrations",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, &models.PageResponse{
		Success:    true,
		Data:       regs,
		Pagination: pagination,
	})
}

// HandleDelete implements DELETE /dashboard?id=<id>.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := requireID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete registration",
			"error", err,
			"registration_id", id,
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, &models.MessageResponse{
		Success: true,
		Message: "registration deleted",
	})
}

// HandleFilterOptions implements GET /dashboard/filters.
// Optional ?state= restricts the city list to that state.
func (h *Handler) HandleFilterOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	states, cities, err := h.service.FilterOptions(ctx, r.URL.Query().Get("state"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, &models.FilterOptionsResponse{
		Success: true,
		States:  states,
		Cities:  cities,
	})
}

func requireID(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		return 0, dErrors.New(dErrors.CodeBadRequest, "id query parameter is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "id must be a positive integer")
	}
	return id, nil
}

func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
