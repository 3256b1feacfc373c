package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"regdesk/internal/registration/models"
	"regdesk/pkg/platform/sentinel"
)

// PostgresStore persists registration records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed registration store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const registrationColumns = `id, name, date_of_birth, gender, mobile, email, aadhaar, pan, address, state, city, pincode, image_url, video_url, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, reg *models.Registration) error {
	if reg == nil {
		return fmt.Errorf("registration is required")
	}
	query := `
		INSERT INTO registrations (name, date_of_birth, gender, mobile, email, aadhaar, pan, address, state, city, pincode, image_url, video_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, query,
		reg.Name,
		reg.DateOfBirth,
		string(reg.Gender),
		reg.Mobile,
		reg.Email,
		reg.Aadhaar,
		reg.PAN,
		reg.Address,
		reg.State,
		reg.City,
		reg.Pincode,
		reg.ImageURL,
		reg.VideoURL,
	).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*models.Registration, error) {
	query := fmt.Sprintf(`SELECT %s FROM registrations WHERE id = $1`, registrationColumns)
	reg, err := scanRegistration(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("registration %d: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find registration by id: %w", err)
	}
	return reg, nil
}

func (s *PostgresStore) Update(ctx context.Context, reg *models.Registration) error {
	if reg == nil {
		return fmt.Errorf("registration is required")
	}
	query := `
		UPDATE registrations
		SET name = $1, date_of_birth = $2, gender = $3, mobile = $4, email = $5,
		    aadhaar = $6, pan = $7, address = $8, state = $9, city = $10,
		    pincode = $11, image_url = $12, video_url = $13, updated_at = now()
		WHERE id = $14
		RETURNING created_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, query,
		reg.Name,
		reg.DateOfBirth,
		string(reg.Gender),
		reg.Mobile,
		reg.Email,
		reg.Aadhaar,
		reg.PAN,
		reg.Address,
		reg.State,
		reg.City,
		reg.Pincode,
		reg.ImageURL,
		reg.VideoURL,
		reg.ID,
	).Scan(&reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("registration %d: %w", reg.ID, sentinel.ErrNotFound)
		}
		return fmt.Errorf("update registration: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete registration rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("registration %d: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

// List runs the page query and the total count concurrently; both share the
// same WHERE clause so the pagination metadata always matches the filter.
func (s *PostgresStore) List(ctx context.Context, filter models.Filter, page models.Page) ([]*models.Registration, int64, error) {
	where, args := buildWhere(filter)

	listQuery := fmt.Sprintf(
		`SELECT %s FROM registrations %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		registrationColumns, where, len(args)+1, len(args)+2,
	)
	listArgs := append(append([]any{}, args...), page.Size, page.Offset())

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM registrations %s`, where)

	var (
		records []*models.Registration
		total   int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.db.QueryContext(gctx, listQuery, listArgs...)
		if err != nil {
			return fmt.Errorf("list registrations: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			reg, err := scanRegistration(rows)
			if err != nil {
				return fmt.Errorf("scan registration: %w", err)
			}
			records = append(records, reg)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate registrations: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.db.QueryRowContext(gctx, countQuery, args...).Scan(&total); err != nil {
			return fmt.Errorf("count registrations: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if records == nil {
		records = []*models.Registration{}
	}
	return records, total, nil
}

func (s *PostgresStore) DistinctStates(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT state FROM registrations ORDER BY state`)
	if err != nil {
		return nil, fmt.Errorf("distinct states: %w", err)
	}
	defer rows.Close()
	return collectStrings(rows)
}

func (s *PostgresStore) DistinctCities(ctx context.Context, state string) ([]string, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if state != "" {
		rows, err = s.db.QueryContext(ctx, `SELECT DISTINCT city FROM registrations WHERE state = $1 ORDER BY city`, state)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT DISTINCT city FROM registrations ORDER BY city`)
	}
	if err != nil {
		return nil, fmt.Errorf("distinct cities: %w", err)
	}
	defer rows.Close()
	return collectStrings(rows)
}

// buildWhere lowers the filter specification to a conjunctive WHERE clause.
// The search term matches OR-wise across name, mobile, and aadhaar.
func buildWhere(filter models.Filter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions,
			fmt.Sprintf("(name ILIKE $%d OR mobile ILIKE $%d OR aadhaar ILIKE $%d)", n, n, n))
	}
	if filter.State != "" {
		args = append(args, filter.State)
		conditions = append(conditions, fmt.Sprintf("state = $%d", len(args)))
	}
	if filter.City != "" {
		args = append(args, filter.City)
		conditions = append(conditions, fmt.Sprintf("city = $%d", len(args)))
	}
	if filter.Gender != "" {
		args = append(args, filter.Gender)
		conditions = append(conditions, fmt.Sprintf("gender = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row rowScanner) (*models.Registration, error) {
	var reg models.Registration
	var gender string
	err := row.Scan(
		&reg.ID,
		&reg.Name,
		&reg.DateOfBirth,
		&gender,
		&reg.Mobile,
		&reg.Email,
		&reg.Aadhaar,
		&reg.PAN,
		&reg.Address,
		&reg.State,
		&reg.City,
		&reg.Pincode,
		&reg.ImageURL,
		&reg.VideoURL,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	reg.Gender = models.Gender(gender)
	return &reg, nil
}

func collectStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate values: %w", err)
	}
	return out, nil
}
