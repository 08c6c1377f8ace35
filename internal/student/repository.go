package student

import (
	"context"
	"database/sql"
	"errors"

	"school-service/internal/pagination"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, student *Student) (*Student, error)
	List(ctx context.Context, page pagination.Page) ([]Student, int, error)
	GetByID(ctx context.Context, id int) (*Student, error)
	Update(ctx context.Context, id int, apply func(*Student)) (*Student, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, student *Student) (*Student, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(student).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return student, nil
}

func (r *repository) List(ctx context.Context, page pagination.Page) ([]Student, int, error) {
	students := make([]Student, 0, page.Limit())
	total, err := r.db.NewSelect().
		Model(&students).
		Order("s.id ASC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		ScanAndCount(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, 0, err
	}
	return students, total, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Student, error) {
	student := new(Student)
	err := r.db.NewSelect().Model(student).Where("s.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// Update locks the row, lets apply change it and writes every column back in
// the same transaction. updated_at is always refreshed.
func (r *repository) Update(ctx context.Context, id int, apply func(*Student)) (*Student, error) {
	student := new(Student)
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().Model(student).Where("s.id = ?", id).For("UPDATE").Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrStudentNotFound
			}
			return err
		}

		apply(student)

		_, err = tx.NewUpdate().
			Model(student).
			Value("updated_at", "current_timestamp").
			WherePK().
			Returning("*").
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return student, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewDelete().Model((*Student)(nil)).Where("id = ?", id).Exec(ctx)
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
	})
}

func (r *repository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*Student)(nil)).Count(ctx)
}
