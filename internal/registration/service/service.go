package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"regdesk/internal/audit"
	"regdesk/internal/media"
	"regdesk/internal/platform/metrics"
	"regdesk/internal/platform/middleware"
	"regdesk/internal/registration/models"
	"regdesk/internal/registration/tracer"
	dErrors "regdesk/pkg/domain-errors"
	"regdesk/pkg/platform/sentinel"
)

// Service implements the registration intake and dashboard operations.
// Validation always runs before any side effect: a submission that fails
// validation or upload leaves no stored record behind.
type Service struct {
	records        RecordStore
	media          MediaStore
	auditPublisher AuditPublisher
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         tracer.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(records RecordStore, mediaStore MediaStore, opts ...Option) (*Service, error) {
	if records == nil {
		return nil, fmt.Errorf("record store is required")
	}
	if mediaStore == nil {
		return nil, fmt.Errorf("media store is required")
	}

	svc := &Service{
		records: records,
		media:   mediaStore,
		tracer:  tracer.NewNoop(),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Create validates a submission, uploads its attachments, and persists the
// record. Both attachments are required on create; uploads run before the
// store write so a failed upload never leaves an orphaned record.
func (s *Service) Create(ctx context.Context, form *models.SubmissionForm) (reg *models.Registration, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanCreate)
	defer func() { span.End(err) }()

	if err = s.validateForm(form, "create"); err != nil {
		return nil, err
	}
	if form.Photo == nil {
		s.metrics.IncValidationFailure("create")
		return nil, dErrors.New(dErrors.CodeValidation, "photo is required")
	}
	if form.Video == nil {
		s.metrics.IncValidationFailure("create")
		return nil, dErrors.New(dErrors.CodeValidation, "video is required")
	}

	imageURL, err := s.upload(ctx, media.KindPhoto, form.Photo)
	if err != nil {
		return nil, err
	}
	videoURL, err := s.upload(ctx, media.KindVideo, form.Video)
	if err != nil {
		return nil, err
	}

	reg = &models.Registration{
		ImageURL: &imageURL,
		VideoURL: &videoURL,
	}
	form.Apply(reg)

	if err = s.records.Create(ctx, reg); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save registration")
	}
	span.SetAttributes(tracer.Int64(tracer.AttrRegistrationID, reg.ID))

	s.metrics.IncCreated()
	s.logAudit(ctx, audit.Event{
		Actor:          audit.ActorPublic,
		Action:         audit.ActionSubmissionReceived,
		RegistrationID: reg.ID,
	})

	return reg, nil
}

// Update replaces the field values of an existing record. Attachments are
// optional: a slot with no new upload keeps its previously stored URL.
func (s *Service) Update(ctx context.Context, id int64, form *models.SubmissionForm) (reg *models.Registration, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanUpdate,
		tracer.Int64(tracer.AttrRegistrationID, id))
	defer func() { span.End(err) }()

	reg, err = s.findRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = s.validateForm(form, "update"); err != nil {
		return nil, err
	}

	if form.Photo != nil {
		imageURL, uerr := s.upload(ctx, media.KindPhoto, form.Photo)
		if uerr != nil {
			return nil, uerr
		}
		reg.ImageURL = &imageURL
	}
	if form.Video != nil {
		videoURL, uerr := s.upload(ctx, media.KindVideo, form.Video)
		if uerr != nil {
			return nil, uerr
		}
		reg.VideoURL = &videoURL
	}

	form.Apply(reg)

	if err = s.records.Update(ctx, reg); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update registration")
	}

	s.metrics.IncUpdated()
	s.logAudit(ctx, audit.Event{
		Actor:          s.actor(ctx),
		Action:         audit.ActionRegistrationUpdated,
		RegistrationID: reg.ID,
	})

	return reg, nil
}

// Get returns a single record by ID.
func (s *Service) Get(ctx context.Context, id int64) (reg *models.Registration, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanGet,
		tracer.Int64(tracer.AttrRegistrationID, id))
	defer func() { span.End(err) }()

	return s.findRecord(ctx, id)
}

// Delete removes a record. Deleting an absent ID is reported as not found and
// leaves the store unchanged.
func (s *Service) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanDelete,
		tracer.Int64(tracer.AttrRegistrationID, id))
	defer func() { span.End(err) }()

	if err = s.records.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete registration")
	}

	s.metrics.IncDeleted()
	s.logAudit(ctx, audit.Event{
		Actor:          s.actor(ctx),
		Action:         audit.ActionRegistrationDeleted,
		RegistrationID: id,
	})

	return nil
}

// List returns one page of the filtered listing plus pagination metadata.
// The total always reflects the filter, not the page.
func (s *Service) List(ctx context.Context, filter models.Filter, page models.Page) (regs []*models.Registration, pagination models.Pagination, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanList,
		tracer.Int64(tracer.AttrPageNumber, int64(page.Number)))
	defer func() { span.End(err) }()

	filter.Normalize()
	page.Normalize()

	start := time.Now()
	regs, total, err := s.records.List(ctx, filter, page)
	s.metrics.ObserveQueryLatency(time.Since(start).Seconds())
	if err != nil {
		return nil, models.Pagination{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list registrations")
	}
	span.SetAttributes(tracer.Int64(tracer.AttrResultTotal, total))

	return regs, models.NewPagination(total, page.Number, page.Size), nil
}

// FilterOptions returns the distinct states and cities present in the store.
// When state is non-empty the city list is restricted to that state.
func (s *Service) FilterOptions(ctx context.Context, state string) (states, cities []string, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var gerr error
		states, gerr = s.records.DistinctStates(gctx)
		return gerr
	})
	g.Go(func() error {
		var gerr error
		cities, gerr = s.records.DistinctCities(gctx, state)
		return gerr
	})
	if err = g.Wait(); err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load filter options")
	}

	if states == nil {
		states = []string{}
	}
	if cities == nil {
		cities = []string{}
	}
	return states, cities, nil
}

func (s *Service) validateForm(form *models.SubmissionForm, operation string) error {
	if form == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	form.Normalize()
	if err := form.Validate(); err != nil {
		s.metrics.IncValidationFailure(operation)
		return err
	}
	return nil
}

// upload persists one attachment. Failures count against the media metric and
// abort the submission before anything is written.
func (s *Service) upload(ctx context.Context, kind media.Kind, file *models.FileUpload) (url string, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanMediaUpload,
		tracer.String(tracer.AttrMediaKind, string(kind)),
		tracer.Int64(tracer.AttrMediaBytes, file.Size),
	)
	defer func() { span.End(err) }()

	url, err = s.media.Save(ctx, kind, &media.File{
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Size:        file.Size,
		Content:     file.Content,
	})
	if err != nil {
		s.metrics.IncMediaUpload(string(kind), "failure")
		return "", dErrors.Wrap(err, dErrors.CodeUploadFailed, fmt.Sprintf("failed to upload %s", kind))
	}
	s.metrics.IncMediaUpload(string(kind), "success")
	return url, nil
}

func (s *Service) findRecord(ctx context.Context, id int64) (*models.Registration, error) {
	reg, err := s.records.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	return reg, nil
}

func (s *Service) actor(ctx context.Context) string {
	if subject := middleware.GetAdminSubject(ctx); subject != "" {
		return subject
	}
	return audit.ActorPublic
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if s.logger != nil {
		args := []any{
			"event", event.Action,
			"actor", event.Actor,
			"registration_id", event.RegistrationID,
			"log_type", "audit",
		}
		if requestID := middleware.GetRequestID(ctx); requestID != "" {
			args = append(args, "request_id", requestID)
		}
		s.logger.InfoContext(ctx, event.Action, args...)
	}
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.Warn("failed to emit audit event", "action", event.Action, "error", err)
	}
}
