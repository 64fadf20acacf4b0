package core_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/catalog/internal/core"
	"github.com/JonMunkholm/catalog/internal/store/memstore"
)

func TestUpdateOrderStatus_AnyTransition(t *testing.T) {
	svc, _, p := newOrderFixture(t, nil)
	ctx := context.Background()

	receipt, err := svc.PlaceOrder(ctx, validRequest(p.ID, 1))
	require.NoError(t, err)

	for _, st := range []string{"delivered", "pending", " Cancelled "} {
		o, err := svc.UpdateOrderStatus(ctx, receipt.Order.ID, st)
		require.NoError(t, err)
		assert.NotEmpty(t, o.Status)
	}

	_, err = svc.UpdateOrderStatus(ctx, receipt.Order.ID, "lost")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.UpdateOrderStatus(ctx, 404, "shipped")
	assert.ErrorIs(t, err, core.ErrNotFound)

	orders, err := svc.ListOrders(ctx, core.OrderFilter{Status: core.StatusCancelled})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestMoveCategory_RejectsCycles(t *testing.T) {
	svc := core.NewService(memstore.New(nil), nil, nil)
	ctx := context.Background()

	root, err := svc.CreateCategory(ctx, core.CategoryDraft{Name: "日用品"})
	require.NoError(t, err)
	child, err := svc.CreateCategory(ctx, core.CategoryDraft{Name: "纸品", ParentID: &root.ID})
	require.NoError(t, err)
	grandchild, err := svc.CreateCategory(ctx, core.CategoryDraft{Name: "纸巾", ParentID: &child.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.MoveCategory(ctx, root.ID, &root.ID), core.ErrInvalidInput)
	assert.ErrorIs(t, svc.MoveCategory(ctx, root.ID, &grandchild.ID), core.ErrInvalidInput)

	missing := int64(99)
	assert.ErrorIs(t, svc.MoveCategory(ctx, child.ID, &missing), core.ErrInvalidInput)
	assert.ErrorIs(t, svc.MoveCategory(ctx, missing, nil), core.ErrNotFound)

	require.NoError(t, svc.MoveCategory(ctx, grandchild.ID, &root.ID))
	require.NoError(t, svc.MoveCategory(ctx, child.ID, nil))

	_, err = svc.CreateCategory(ctx, core.CategoryDraft{Name: "孤儿", ParentID: &missing})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestPutSetting_Validation(t *testing.T) {
	svc := core.NewService(memstore.New(nil), nil, nil)
	ctx := context.Background()

	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{"enable_sms", "true", false},
		{"enable_email", "maybe", true},
		{"smtp_port", "465", false},
		{"smtp_port", "70000", true},
		{"notify_email", "sales@example.com", false},
		{"notify_email", "not-an-email", true},
		{"smtp_server", "smtp.example.com", false},
		{"", "x", true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			_, err := svc.PutSetting(ctx, tt.key, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateUser_HashesPassword(t *testing.T) {
	store := memstore.New(nil)
	svc := core.NewService(store, nil, nil)
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, core.NewUser{
		Username: "manager1", Email: "m1@example.com", Password: "s3cretpass", Role: core.RoleManager,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", u.PasswordHash)
	assert.True(t, core.CheckPassword(u, "s3cretpass"))
	assert.False(t, core.CheckPassword(u, "wrong"))

	_, err = svc.CreateUser(ctx, core.NewUser{Username: "u2", Email: "u2@example.com", Password: "short"})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.CreateUser(ctx, core.NewUser{Username: "u3", Email: "u3@example.com", Password: "longenough", Role: "root"})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.CreateUser(ctx, core.NewUser{Username: "manager1", Email: "x@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, core.ErrPersistence)
	assert.Contains(t, err.Error(), "duplicate key")
}

func TestSearchProducts(t *testing.T) {
	store := memstore.New(nil)
	for _, p := range []core.Product{
		{SKU: "PRD001", Name: "洗衣液", Barcode: "1234567890123", IsActive: true},
		{SKU: "PRD002", Name: "洗洁精", IsActive: true},
		{SKU: "PRD003", Name: "纸巾", IsActive: true},
		{SKU: "OLD", Name: "旧洗衣粉", IsActive: false},
	} {
		store.AddProduct(p)
	}
	svc := core.NewService(store, nil, nil)
	ctx := context.Background()

	page, err := svc.SearchProducts(ctx, core.ProductQuery{Query: "洗"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, core.DefaultPageSize, page.PageSize)

	page, err = svc.SearchProducts(ctx, core.ProductQuery{Query: "洗", IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)

	page, err = svc.SearchProducts(ctx, core.ProductQuery{Barcode: "1234567890123"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "PRD001", page.Products[0].SKU)

	page, err = svc.SearchProducts(ctx, core.ProductQuery{SKU: "PRD"})
	require.NoError(t, err)
	assert.Zero(t, page.Total, "sku matches exactly")

	page, err = svc.SearchProducts(ctx, core.ProductQuery{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Products, 1)

	page, err = svc.SearchProducts(ctx, core.ProductQuery{PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, core.MaxPageSize, page.PageSize)

	page, err = svc.SearchProducts(ctx, core.ProductQuery{Page: math.MaxInt, PageSize: 20})
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Equal(t, 3, page.Total)
}

func TestProductQuery_NormalizeKeepsOffsetInRange(t *testing.T) {
	tests := []struct {
		page, pageSize int
	}{
		{math.MaxInt, 20},
		{math.MaxInt32, 100},
		{107374183, 20},
		{math.MaxInt, 1},
	}

	for _, tt := range tests {
		q := core.ProductQuery{Page: tt.page, PageSize: tt.pageSize}
		q.Normalize()
		assert.GreaterOrEqual(t, q.Offset(), 0, "page=%d size=%d", tt.page, tt.pageSize)
		assert.LessOrEqual(t, q.Offset(), core.MaxOffset, "page=%d size=%d", tt.page, tt.pageSize)
	}

	q := core.ProductQuery{Page: 3, PageSize: 20}
	q.Normalize()
	assert.Equal(t, 40, q.Offset(), "ordinary pages are untouched")
}

func TestSetProductActive_BlocksOrders(t *testing.T) {
	svc, _, p := newOrderFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.SetProductActive(ctx, p.ID, false))
	_, err := svc.PlaceOrder(ctx, validRequest(p.ID, 1))
	assert.ErrorIs(t, err, core.ErrInactive)

	assert.ErrorIs(t, svc.SetProductActive(ctx, 12345, true), core.ErrNotFound)
}
