package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"student-directory/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	CreateIfAbsent(ctx context.Context, user *User) error
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

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	start := time.Now()
	user := new(User)
	err := r.db.NewSelect().
		Model(user).
		Where("email = ?", email).
		Scan(ctx)

	r.metrics.RecordQuery(ctx, "select", "users", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateIfAbsent inserts a user unless the email is already taken. The
// unique email makes repeated and concurrent invocations idempotent.
func (r *repository) CreateIfAbsent(ctx context.Context, user *User) error {
	start := time.Now()
	_, err := r.db.NewInsert().
		Model(user).
		On("CONFLICT (email) DO NOTHING").
		Exec(ctx)

	r.metrics.RecordQuery(ctx, "insert", "users", time.Since(start), err)

	return err
}
