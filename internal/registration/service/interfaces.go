package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"regdesk/internal/audit"
	"regdesk/internal/media"
	"regdesk/internal/registration/models"
)

// RecordStore is the persistence interface the service depends on.
// All methods return sentinel.ErrNotFound (wrapped) when the record is absent.
type RecordStore interface {
	Create(ctx context.Context, reg *models.Registration) error
	FindByID(ctx context.Context, id int64) (*models.Registration, error)
	Update(ctx context.Context, reg *models.Registration) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.Filter, page models.Page) ([]*models.Registration, int64, error)
	DistinctStates(ctx context.Context) ([]string, error)
	DistinctCities(ctx context.Context, state string) ([]string, error)
}

// MediaStore durably persists uploaded attachments and returns their URLs.
type MediaStore interface {
	Save(ctx context.Context, kind media.Kind, file *media.File) (string, error)
}

// AuditPublisher records audit events for registration activity.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
