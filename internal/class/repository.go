package class

import (
	"context"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, class *Class) (*Class, error)
	List(ctx context.Context) ([]Class, error)
	Exists(ctx context.Context, id int) (bool, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, class *Class) (*Class, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(class).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return class, nil
}

// List returns every class ordered by id, each with the number of students
// currently assigned to it.
func (r *repository) List(ctx context.Context) ([]Class, error) {
	var classes []Class
	err := r.db.NewSelect().
		Model(&classes).
		ColumnExpr("c.*").
		ColumnExpr("(SELECT COUNT(*) FROM students AS s WHERE s.class_id = c.id) AS student_count").
		Order("c.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	return r.db.NewSelect().Model((*Class)(nil)).Where("c.id = ?", id).Exists(ctx)
}

func (r *repository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*Class)(nil)).Count(ctx)
}
