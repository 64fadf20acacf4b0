// Package memstore is an in-memory core.Store.
//
// Transactions are serialized behind one mutex and run against a copy of
// the data that replaces the live copy on commit, so a failed transaction
// leaves nothing behind. That matches the guarantees the workflows expect
// from PostgreSQL row locks closely enough for tests and dry runs.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/catalog/internal/core"
)

type data struct {
	products   map[int64]core.Product
	categories map[int64]core.Category
	orders     map[int64]core.Order
	settings   map[string]core.Setting
	users      map[int64]core.User
	runs       []core.ImportRun

	nextProduct  int64
	nextCategory int64
	nextOrder    int64
	nextUser     int64
}

func (d *data) clone() *data {
	c := *d
	c.products = make(map[int64]core.Product, len(d.products))
	for k, v := range d.products {
		c.products[k] = v
	}
	c.categories = make(map[int64]core.Category, len(d.categories))
	for k, v := range d.categories {
		c.categories[k] = v
	}
	c.orders = make(map[int64]core.Order, len(d.orders))
	for k, v := range d.orders {
		c.orders[k] = v
	}
	c.settings = make(map[string]core.Setting, len(d.settings))
	for k, v := range d.settings {
		c.settings[k] = v
	}
	c.users = make(map[int64]core.User, len(d.users))
	for k, v := range d.users {
		c.users[k] = v
	}
	c.runs = append([]core.ImportRun(nil), d.runs...)
	return &c
}

// Store keeps the catalog in memory.
type Store struct {
	mu  sync.Mutex
	d   *data
	now func() time.Time

	// FailOn makes the named operation return an error, for tests.
	FailOn map[string]error
}

// New returns an empty store seeded with the given settings.
func New(settings map[string]string) *Store {
	s := &Store{
		d: &data{
			products:   map[int64]core.Product{},
			categories: map[int64]core.Category{},
			orders:     map[int64]core.Order{},
			settings:   map[string]core.Setting{},
			users:      map[int64]core.User{},
		},
		now:    time.Now,
		FailOn: map[string]error{},
	}
	for k, v := range settings {
		s.d.settings[k] = core.Setting{Key: k, Value: v, UpdatedAt: s.now()}
	}
	return s
}

func (s *Store) fail(op string) error {
	if err, ok := s.FailOn[op]; ok {
		return err
	}
	return nil
}

// AddProduct inserts a product directly and returns it with its id set.
func (s *Store) AddProduct(p core.Product) core.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.nextProduct++
	p.ID = s.d.nextProduct
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
		p.UpdatedAt = p.CreatedAt
	}
	s.d.products[p.ID] = p
	return p
}

// Products returns every product ordered by id.
func (s *Store) Products() []core.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Product, 0, len(s.d.products))
	for _, p := range s.d.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ProductBySKU returns the product with sku, if any.
func (s *Store) ProductBySKU(sku string) (core.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.d.products {
		if p.SKU == sku {
			return p, true
		}
	}
	return core.Product{}, false
}

// Orders returns every order ordered by id.
func (s *Store) Orders() []core.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Order, 0, len(s.d.orders))
	for _, o := range s.d.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Users returns every stored user ordered by id.
func (s *Store) Users() []core.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.User, 0, len(s.d.users))
	for _, u := range s.d.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// InTx runs fn against a private copy that is published only if fn succeeds.
func (s *Store) InTx(ctx context.Context, fn func(tx core.CatalogTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.fail("begin"); err != nil {
		return err
	}

	work := s.d.clone()
	if err := fn(&tx{s: s, d: work}); err != nil {
		return err
	}
	if err := s.fail("commit"); err != nil {
		return err
	}
	s.d = work
	return nil
}

type tx struct {
	s *Store
	d *data
}

func (t *tx) LockProduct(_ context.Context, id int64) (*core.Product, error) {
	if err := t.s.fail("lock_product"); err != nil {
		return nil, err
	}
	p, ok := t.d.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, core.ErrNotFound)
	}
	return &p, nil
}

func (t *tx) LockProductBySKU(_ context.Context, sku string) (*core.Product, error) {
	for _, p := range t.d.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("sku %q: %w", sku, core.ErrNotFound)
}

func (t *tx) InsertOrder(_ context.Context, o core.Order) (*core.Order, error) {
	if err := t.s.fail("insert_order"); err != nil {
		return nil, err
	}
	if _, ok := t.d.products[o.ProductID]; !ok {
		return nil, fmt.Errorf("insert order: violates foreign key constraint on product %d", o.ProductID)
	}
	t.d.nextOrder++
	o.ID = t.d.nextOrder
	o.CreatedAt = t.s.now()
	t.d.orders[o.ID] = o
	return &o, nil
}

func (t *tx) DecrementStock(_ context.Context, productID int64, qty int) (bool, error) {
	if err := t.s.fail("decrement_stock"); err != nil {
		return false, err
	}
	p, ok := t.d.products[productID]
	if !ok || p.StockQuantity == nil || *p.StockQuantity < qty {
		return false, nil
	}
	left := *p.StockQuantity - qty
	p.StockQuantity = &left
	p.UpdatedAt = t.s.now()
	t.d.products[productID] = p
	return true, nil
}

func (t *tx) CreateProduct(_ context.Context, d core.ProductDraft) (*core.Product, error) {
	if err := t.s.fail("create_product"); err != nil {
		return nil, err
	}
	for _, p := range t.d.products {
		if p.SKU == d.SKU {
			return nil, fmt.Errorf("duplicate key value violates unique constraint \"products_sku_key\"")
		}
		if d.Barcode != "" && p.Barcode == d.Barcode {
			return nil, fmt.Errorf("duplicate key value violates unique constraint \"products_barcode_key\"")
		}
	}
	t.d.nextProduct++
	now := t.s.now()
	p := core.Product{
		ID:             t.d.nextProduct,
		SKU:            d.SKU,
		Barcode:        d.Barcode,
		Name:           d.Name,
		Spec:           d.Spec,
		Model:          d.Model,
		Description:    d.Description,
		RetailPrice:    d.RetailPrice,
		WholesalePrice: d.WholesalePrice,
		StockQuantity:  copyInt(d.StockQuantity),
		IsActive:       true,
		CategoryID:     copyInt64(d.CategoryID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	t.d.products[p.ID] = p
	return &p, nil
}

func (t *tx) UpdateProduct(_ context.Context, id int64, patch core.ProductPatch) (*core.Product, error) {
	if err := t.s.fail("update_product"); err != nil {
		return nil, err
	}
	p, ok := t.d.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, core.ErrNotFound)
	}
	if patch.Barcode != nil {
		for _, other := range t.d.products {
			if other.ID != id && other.Barcode == *patch.Barcode {
				return nil, fmt.Errorf("duplicate key value violates unique constraint \"products_barcode_key\"")
			}
		}
	}

	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setStr(&p.Name, patch.Name)
	setStr(&p.Barcode, patch.Barcode)
	setStr(&p.Spec, patch.Spec)
	setStr(&p.Model, patch.Model)
	setStr(&p.Description, patch.Description)
	if patch.RetailPrice.Valid {
		p.RetailPrice = patch.RetailPrice
	}
	if patch.WholesalePrice.Valid {
		p.WholesalePrice = patch.WholesalePrice
	}
	if patch.StockQuantity != nil {
		p.StockQuantity = copyInt(patch.StockQuantity)
	}
	if patch.CategoryID != nil {
		p.CategoryID = copyInt64(patch.CategoryID)
	}
	p.UpdatedAt = t.s.now()
	t.d.products[id] = p
	return &p, nil
}

func (t *tx) EnsureCategory(_ context.Context, name string) (*core.Category, error) {
	if err := t.s.fail("ensure_category"); err != nil {
		return nil, err
	}
	for _, c := range t.d.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	t.d.nextCategory++
	c := core.Category{ID: t.d.nextCategory, Name: name, IsActive: true, CreatedAt: t.s.now()}
	t.d.categories[c.ID] = c
	return &c, nil
}

func (s *Store) GetProduct(_ context.Context, id int64) (*core.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.d.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, core.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) SearchProducts(_ context.Context, q core.ProductQuery) ([]core.Product, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("search_products"); err != nil {
		return nil, 0, err
	}

	needle := strings.ToLower(q.Query)
	var matched []core.Product
	for _, p := range s.d.products {
		switch {
		case !q.IncludeInactive && !p.IsActive:
		case needle != "" && !strings.Contains(strings.ToLower(p.Name), needle):
		case q.SKU != "" && p.SKU != q.SKU:
		case q.Barcode != "" && p.Barcode != q.Barcode:
		case q.CategoryID != 0 && (p.CategoryID == nil || *p.CategoryID != q.CategoryID):
		default:
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	start := min(q.Offset(), total)
	end := min(start+q.PageSize, total)
	return matched[start:end], total, nil
}

func (s *Store) SetProductActive(_ context.Context, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.d.products[id]
	if !ok {
		return fmt.Errorf("product %d: %w", id, core.ErrNotFound)
	}
	p.IsActive = active
	p.UpdatedAt = s.now()
	s.d.products[id] = p
	return nil
}

func (s *Store) ListOrders(_ context.Context, f core.OrderFilter) ([]core.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Order
	for _, o := range s.d.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.ProductID != 0 && o.ProductID != f.ProductID {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	start := min(f.Offset, len(out))
	end := len(out)
	if f.Limit > 0 {
		end = min(start+f.Limit, len(out))
	}
	return out[start:end], nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id int64, status core.OrderStatus) (*core.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.d.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, core.ErrNotFound)
	}
	o.Status = status
	s.d.orders[id] = o
	return &o, nil
}

func (s *Store) CreateCategory(_ context.Context, d core.CategoryDraft) (*core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.d.categories {
		if c.Name == d.Name {
			return nil, fmt.Errorf("duplicate key value violates unique constraint \"categories_name_key\"")
		}
	}
	s.d.nextCategory++
	c := core.Category{
		ID:        s.d.nextCategory,
		Name:      d.Name,
		ParentID:  copyInt64(d.ParentID),
		SortOrder: d.SortOrder,
		IsActive:  true,
		CreatedAt: s.now(),
	}
	s.d.categories[c.ID] = c
	return &c, nil
}

func (s *Store) GetCategory(_ context.Context, id int64) (*core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.d.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	return &c, nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0, len(s.d.categories))
	for _, c := range s.d.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) SetCategoryParent(_ context.Context, id int64, parentID *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.d.categories[id]
	if !ok {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	c.ParentID = copyInt64(parentID)
	s.d.categories[id] = c
	return nil
}

func (s *Store) ListSettings(_ context.Context) ([]core.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list_settings"); err != nil {
		return nil, err
	}
	out := make([]core.Setting, 0, len(s.d.settings))
	for _, st := range s.d.settings {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *Store) PutSetting(_ context.Context, key, value string) (*core.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.d.settings[key]
	st.Key, st.Value, st.UpdatedAt = key, value, s.now()
	s.d.settings[key] = st
	return &st, nil
}

func (s *Store) CreateUser(_ context.Context, u core.User) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.d.users {
		if other.Username == u.Username {
			return nil, fmt.Errorf("duplicate key value violates unique constraint \"users_username_key\"")
		}
		if other.Email == u.Email {
			return nil, fmt.Errorf("duplicate key value violates unique constraint \"users_email_key\"")
		}
	}
	s.d.nextUser++
	u.ID = s.d.nextUser
	u.CreatedAt = s.now()
	s.d.users[u.ID] = u
	return &u, nil
}

func (s *Store) RecordImportRun(_ context.Context, run core.ImportRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("record_import_run"); err != nil {
		return err
	}
	run.CreatedAt = s.now()
	s.d.runs = append(s.d.runs, run)
	return nil
}

func (s *Store) ListImportRuns(_ context.Context, limit int) ([]core.ImportRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.ImportRun, 0, min(limit, len(s.d.runs)))
	for i := len(s.d.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.d.runs[i])
	}
	return out, nil
}

func (s *Store) DeleteImportRunsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("delete_import_runs"); err != nil {
		return 0, err
	}
	kept := s.d.runs[:0]
	for _, r := range s.d.runs {
		if !r.CreatedAt.Before(cutoff) {
			kept = append(kept, r)
		}
	}
	n := int64(len(s.d.runs) - len(kept))
	s.d.runs = kept
	return n, nil
}

// AddImportRun stores run with its CreatedAt unchanged.
func (s *Store) AddImportRun(run core.ImportRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.runs = append(s.d.runs, run)
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

var _ core.Store = (*Store)(nil)
