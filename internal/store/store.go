// Package store implements core.Store on PostgreSQL using the sqlc
// queries in internal/database.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/catalog/internal/core"
	db "github.com/JonMunkholm/catalog/internal/database"
)

// Store is the PostgreSQL catalog store.
type Store struct {
	pool *pgxpool.Pool
	q    *db.Queries
}

// New returns a store over pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: db.New(pool)}
}

// notFound maps pgx.ErrNoRows to core.ErrNotFound.
func notFound(err error, what string, key any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", what, key, core.ErrNotFound)
	}
	return err
}

// InTx runs fn in one transaction. The deferred rollback is a no-op after
// a successful commit.
func (s *Store) InTx(ctx context.Context, fn func(tx core.CatalogTx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&catalogTx{q: s.q.WithTx(tx)}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type catalogTx struct {
	q *db.Queries
}

func (t *catalogTx) LockProduct(ctx context.Context, id int64) (*core.Product, error) {
	row, err := t.q.GetProductForUpdate(ctx, id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return productFromRow(row), nil
}

func (t *catalogTx) LockProductBySKU(ctx context.Context, sku string) (*core.Product, error) {
	row, err := t.q.GetProductBySkuForUpdate(ctx, sku)
	if err != nil {
		return nil, notFound(err, "sku", sku)
	}
	return productFromRow(row), nil
}

func (t *catalogTx) InsertOrder(ctx context.Context, o core.Order) (*core.Order, error) {
	row, err := t.q.InsertOrder(ctx, db.InsertOrderParams{
		ProductID:     o.ProductID,
		Quantity:      int32(o.Quantity),
		UnitPrice:     decimalToPg(o.UnitPrice),
		TotalAmount:   decimalToPg(o.TotalAmount),
		Status:        string(o.Status),
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Notes:         toPgText(o.Notes),
	})
	if err != nil {
		return nil, err
	}
	return orderFromRow(row), nil
}

func (t *catalogTx) DecrementStock(ctx context.Context, productID int64, qty int) (bool, error) {
	n, err := t.q.DecrementProductStock(ctx, db.DecrementProductStockParams{
		Quantity: int32(qty),
		ID:       productID,
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (t *catalogTx) CreateProduct(ctx context.Context, d core.ProductDraft) (*core.Product, error) {
	row, err := t.q.InsertProduct(ctx, db.InsertProductParams{
		Sku:            d.SKU,
		Barcode:        toPgText(d.Barcode),
		Name:           d.Name,
		Spec:           toPgText(d.Spec),
		Model:          toPgText(d.Model),
		Description:    toPgText(d.Description),
		RetailPrice:    toPgNumeric(d.RetailPrice),
		WholesalePrice: toPgNumeric(d.WholesalePrice),
		StockQuantity:  toPgInt4(d.StockQuantity),
		CategoryID:     toPgInt8(d.CategoryID),
	})
	if err != nil {
		return nil, err
	}
	return productFromRow(row), nil
}

func (t *catalogTx) UpdateProduct(ctx context.Context, id int64, p core.ProductPatch) (*core.Product, error) {
	row, err := t.q.PatchProduct(ctx, db.PatchProductParams{
		Name:           ptrToPgText(p.Name),
		Barcode:        ptrToPgText(p.Barcode),
		Spec:           ptrToPgText(p.Spec),
		Model:          ptrToPgText(p.Model),
		Description:    ptrToPgText(p.Description),
		RetailPrice:    toPgNumeric(p.RetailPrice),
		WholesalePrice: toPgNumeric(p.WholesalePrice),
		StockQuantity:  toPgInt4(p.StockQuantity),
		CategoryID:     toPgInt8(p.CategoryID),
		ID:             id,
	})
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return productFromRow(row), nil
}

func (t *catalogTx) EnsureCategory(ctx context.Context, name string) (*core.Category, error) {
	row, err := t.q.EnsureCategory(ctx, name)
	if err != nil {
		return nil, err
	}
	return categoryFromRow(row), nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*core.Product, error) {
	row, err := s.q.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return productFromRow(row), nil
}

func (s *Store) SearchProducts(ctx context.Context, pq core.ProductQuery) ([]core.Product, int, error) {
	filter := db.CountProductsParams{
		Name:            toPgText(pq.Query),
		Sku:             toPgText(pq.SKU),
		Barcode:         toPgText(pq.Barcode),
		IncludeInactive: pq.IncludeInactive,
	}
	if pq.CategoryID != 0 {
		filter.CategoryID = pgtype.Int8{Int64: pq.CategoryID, Valid: true}
	}

	total, err := s.q.CountProducts(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := s.q.SearchProducts(ctx, db.SearchProductsParams{
		Name:            filter.Name,
		Sku:             filter.Sku,
		Barcode:         filter.Barcode,
		CategoryID:      filter.CategoryID,
		IncludeInactive: filter.IncludeInactive,
		RowLimit:        int32(pq.PageSize),
		RowOffset:       int32(pq.Offset()),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("search products: %w", err)
	}

	products := make([]core.Product, len(rows))
	for i, r := range rows {
		products[i] = *productFromRow(r)
	}
	return products, int(total), nil
}

func (s *Store) SetProductActive(ctx context.Context, id int64, active bool) error {
	n, err := s.q.SetProductActive(ctx, db.SetProductActiveParams{ID: id, IsActive: active})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("product %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (s *Store) ListOrders(ctx context.Context, f core.OrderFilter) ([]core.Order, error) {
	params := db.ListOrdersParams{
		Status:    toPgText(string(f.Status)),
		RowLimit:  int32(f.Limit),
		RowOffset: int32(f.Offset),
	}
	if f.ProductID != 0 {
		params.ProductID = pgtype.Int8{Int64: f.ProductID, Valid: true}
	}

	rows, err := s.q.ListOrders(ctx, params)
	if err != nil {
		return nil, err
	}
	orders := make([]core.Order, len(rows))
	for i, r := range rows {
		orders[i] = *orderFromRow(r)
	}
	return orders, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status core.OrderStatus) (*core.Order, error) {
	row, err := s.q.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{ID: id, Status: string(status)})
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return orderFromRow(row), nil
}

func (s *Store) CreateCategory(ctx context.Context, d core.CategoryDraft) (*core.Category, error) {
	row, err := s.q.InsertCategory(ctx, db.InsertCategoryParams{
		Name:      d.Name,
		ParentID:  toPgInt8(d.ParentID),
		SortOrder: int32(d.SortOrder),
	})
	if err != nil {
		return nil, err
	}
	return categoryFromRow(row), nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*core.Category, error) {
	row, err := s.q.GetCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "category", id)
	}
	return categoryFromRow(row), nil
}

func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.q.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	cats := make([]core.Category, len(rows))
	for i, r := range rows {
		cats[i] = *categoryFromRow(r)
	}
	return cats, nil
}

func (s *Store) SetCategoryParent(ctx context.Context, id int64, parentID *int64) error {
	n, err := s.q.SetCategoryParent(ctx, db.SetCategoryParentParams{ID: id, ParentID: toPgInt8(parentID)})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (s *Store) ListSettings(ctx context.Context) ([]core.Setting, error) {
	rows, err := s.q.ListSettings(ctx)
	if err != nil {
		return nil, err
	}
	settings := make([]core.Setting, len(rows))
	for i, r := range rows {
		settings[i] = *settingFromRow(r)
	}
	return settings, nil
}

func (s *Store) PutSetting(ctx context.Context, key, value string) (*core.Setting, error) {
	row, err := s.q.UpsertSetting(ctx, db.UpsertSettingParams{Key: key, Value: value})
	if err != nil {
		return nil, err
	}
	return settingFromRow(row), nil
}

func (s *Store) CreateUser(ctx context.Context, u core.User) (*core.User, error) {
	row, err := s.q.InsertUser(ctx, db.InsertUserParams{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
	})
	if err != nil {
		return nil, err
	}
	return userFromRow(row), nil
}

func (s *Store) RecordImportRun(ctx context.Context, run core.ImportRun) error {
	params, err := importRunParams(run)
	if err != nil {
		return fmt.Errorf("encode import run: %w", err)
	}
	return s.q.InsertImportRun(ctx, params)
}

func (s *Store) ListImportRuns(ctx context.Context, limit int) ([]core.ImportRun, error) {
	rows, err := s.q.ListImportRuns(ctx, int32(limit))
	if err != nil {
		return nil, err
	}
	runs := make([]core.ImportRun, 0, len(rows))
	for _, r := range rows {
		run, err := importRunFromRow(r)
		if err != nil {
			return nil, fmt.Errorf("decode import run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (s *Store) DeleteImportRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.q.DeleteImportRunsBefore(ctx, pgtype.Timestamptz{Time: cutoff, Valid: true})
}

var _ core.Store = (*Store)(nil)
