package core

// store.go defines the persistence port the workflows run against.
//
// Implementations report a missing row as an error wrapping ErrNotFound.
// Every other error is treated as a persistence failure by the callers.

import (
	"context"
	"time"
)

// CatalogTx is the set of operations available inside one store transaction.
// Lock* methods take a row lock that is held until the transaction ends.
type CatalogTx interface {
	LockProduct(ctx context.Context, id int64) (*Product, error)
	LockProductBySKU(ctx context.Context, sku string) (*Product, error)
	InsertOrder(ctx context.Context, o Order) (*Order, error)
	// DecrementStock subtracts qty only when at least qty is in stock.
	// It reports false when no row was changed.
	DecrementStock(ctx context.Context, productID int64, qty int) (bool, error)
	CreateProduct(ctx context.Context, d ProductDraft) (*Product, error)
	UpdateProduct(ctx context.Context, id int64, p ProductPatch) (*Product, error)
	// EnsureCategory returns the category with this exact name, creating
	// it if absent, as one atomic statement.
	EnsureCategory(ctx context.Context, name string) (*Category, error)
}

// Store is the catalog persistence port.
type Store interface {
	// InTx runs fn in a transaction. It commits when fn returns nil and
	// rolls back otherwise, returning fn's error unchanged.
	InTx(ctx context.Context, fn func(tx CatalogTx) error) error

	GetProduct(ctx context.Context, id int64) (*Product, error)
	SearchProducts(ctx context.Context, q ProductQuery) ([]Product, int, error)
	SetProductActive(ctx context.Context, id int64, active bool) error

	ListOrders(ctx context.Context, f OrderFilter) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status OrderStatus) (*Order, error)

	CreateCategory(ctx context.Context, d CategoryDraft) (*Category, error)
	GetCategory(ctx context.Context, id int64) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	SetCategoryParent(ctx context.Context, id int64, parentID *int64) error

	ListSettings(ctx context.Context) ([]Setting, error)
	PutSetting(ctx context.Context, key, value string) (*Setting, error)

	CreateUser(ctx context.Context, u User) (*User, error)

	RecordImportRun(ctx context.Context, run ImportRun) error
	ListImportRuns(ctx context.Context, limit int) ([]ImportRun, error)
	DeleteImportRunsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
