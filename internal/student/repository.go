package student

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"student-directory/internal/metrics"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

type Repository interface {
	GetAll(ctx context.Context) ([]Student, error)
	GetByNaturalKey(ctx context.Context, rollNo int, class string) (*Student, error)
	Create(ctx context.Context, student *Student) (*Student, error)
	DeleteByNaturalKey(ctx context.Context, rollNo int, class string) error
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

func (r *repository) GetAll(ctx context.Context) ([]Student, error) {
	start := time.Now()
	students := make([]Student, 0)
	err := r.db.NewSelect().Model(&students).Scan(ctx)

	r.metrics.RecordQuery(ctx, "select", "students", time.Since(start), err)

	if err != nil {
		return nil, ErrStoreUnavailable
	}
	return students, nil
}

func (r *repository) GetByNaturalKey(ctx context.Context, rollNo int, class string) (*Student, error) {
	start := time.Now()
	student := new(Student)
	err := r.db.NewSelect().
		Model(student).
		Where("roll_no = ?", rollNo).
		Where("class = ?", class).
		Scan(ctx)

	r.metrics.RecordQuery(ctx, "select", "students", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func (r *repository) Create(ctx context.Context, student *Student) (*Student, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(student).Returning("*").Exec(ctx)

	r.metrics.RecordQuery(ctx, "insert", "students", time.Since(start), err)

	if err != nil {
		// The composite unique index on (roll_no, class) rejects a racing
		// insert that slipped past the service-level pre-check.
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return nil, ErrDuplicateStudent
		}
		return nil, err
	}
	return student, nil
}

func (r *repository) DeleteByNaturalKey(ctx context.Context, rollNo int, class string) error {
	start := time.Now()
	result, err := r.db.NewDelete().
		Model((*Student)(nil)).
		Where("roll_no = ?", rollNo).
		Where("class = ?", class).
		Exec(ctx)

	r.metrics.RecordQuery(ctx, "delete", "students", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}
