package common

import "context"

// BaseRepositoryInterface defines common repository behaviors shared by
// the store-backed adapters (users, contacts).
type BaseRepositoryInterface[T any] interface {
	WithContext(ctx context.Context) BaseRepositoryInterface[T]
	Insert(entity *T) error
	FindByID(id any) (*T, error)
}
