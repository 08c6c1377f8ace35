package teacher

import (
	"context"
	"database/sql"
	"errors"

	"school-service/internal/pagination"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, teacher *Teacher) (*Teacher, error)
	List(ctx context.Context, page pagination.Page) ([]Teacher, int, error)
	Exists(ctx context.Context, id int) (bool, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, teacher *Teacher) (*Teacher, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(teacher).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return teacher, nil
}

func (r *repository) List(ctx context.Context, page pagination.Page) ([]Teacher, int, error) {
	teachers := make([]Teacher, 0, page.Limit())
	total, err := r.db.NewSelect().
		Model(&teachers).
		Order("t.id ASC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		ScanAndCount(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, 0, err
	}
	return teachers, total, nil
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	return r.db.NewSelect().Model((*Teacher)(nil)).Where("t.id = ?", id).Exists(ctx)
}

func (r *repository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*Teacher)(nil)).Count(ctx)
}
