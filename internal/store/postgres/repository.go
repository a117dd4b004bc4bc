package postgres

import (
	"context"
	"fmt"

	"github.com/logistics-id/signalhub/internal/common"
	"github.com/uptrace/bun"
)

// BaseRepository is the generic CRUD surface shared by the signaling
// store's adapters, trimmed from the teacher's ds/postgres.BaseRepository
// to Insert and FindByID (the TokenAuthority adapter uses FindByID).
type BaseRepository[T any] struct {
	DB      bun.IDB
	Context context.Context
	table   string
}

func NewBaseRepository[T any](db *bun.DB, table string) *BaseRepository[T] {
	return &BaseRepository[T]{DB: db, table: table}
}

func (r *BaseRepository[T]) WithContext(ctx context.Context) common.BaseRepositoryInterface[T] {
	return &BaseRepository[T]{DB: r.DB, Context: ctx, table: r.table}
}

func (r *BaseRepository[T]) Insert(entity *T) error {
	_, err := r.DB.NewInsert().Model(entity).Exec(r.Context)
	return err
}

func (r *BaseRepository[T]) FindByID(id any) (*T, error) {
	entity := new(T)
	err := r.DB.NewSelect().
		Model(entity).
		Where(fmt.Sprintf("%s.id = ?", r.table), id).
		Scan(r.Context)
	if err != nil {
		return nil, err
	}
	return entity, nil
}
