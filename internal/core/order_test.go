package core_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/catalog/internal/core"
	"github.com/JonMunkholm/catalog/internal/store/memstore"
)

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func intPtr(v int) *int { return &v }

func newOrderFixture(t *testing.T, notifier core.Notifier) (*core.Service, *memstore.Store, core.Product) {
	t.Helper()
	store := memstore.New(map[string]string{"enable_email": "true"})
	p := store.AddProduct(core.Product{
		SKU:            "PRD001",
		Name:           "洗衣液",
		RetailPrice:    price("25.50"),
		WholesalePrice: price("20.00"),
		StockQuantity:  intPtr(100),
		IsActive:       true,
	})
	return core.NewService(store, notifier, nil), store, p
}

func validRequest(productID int64, qty int) core.OrderRequest {
	return core.OrderRequest{
		ProductID:     productID,
		Quantity:      qty,
		CustomerName:  "张三",
		CustomerPhone: "13812345678",
	}
}

func TestPlaceOrder_RetailPriceBelowThreshold(t *testing.T) {
	svc, store, p := newOrderFixture(t, nil)

	receipt, err := svc.PlaceOrder(context.Background(), validRequest(p.ID, 2))
	require.NoError(t, err)

	assert.Equal(t, core.StatusPending, receipt.Order.Status)
	assert.True(t, receipt.Order.UnitPrice.Equal(decimal.RequireFromString("25.50")))
	assert.True(t, receipt.Order.TotalAmount.Equal(decimal.RequireFromString("51.00")))
	assert.Equal(t, 98, *receipt.Product.StockQuantity)

	stored, _ := store.ProductBySKU("PRD001")
	assert.Equal(t, 98, *stored.StockQuantity)
	assert.Len(t, store.Orders(), 1)
}

func TestPlaceOrder_PriceTiers(t *testing.T) {
	tests := []struct {
		name      string
		wholesale decimal.NullDecimal
		qty       int
		wantUnit  string
		wantTotal string
	}{
		{"nine units use retail", price("20.00"), 9, "25.50", "229.50"},
		{"ten units use wholesale", price("20.00"), 10, "20.00", "200.00"},
		{"wholesale missing falls back to retail", decimal.NullDecimal{}, 12, "25.50", "306.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memstore.New(nil)
			p := store.AddProduct(core.Product{
				SKU:            "PRD001",
				Name:           "洗衣液",
				RetailPrice:    price("25.50"),
				WholesalePrice: tt.wholesale,
				StockQuantity:  intPtr(50),
				IsActive:       true,
			})
			svc := core.NewService(store, nil, nil)

			receipt, err := svc.PlaceOrder(context.Background(), validRequest(p.ID, tt.qty))
			require.NoError(t, err)
			assert.Equal(t, tt.wantUnit, receipt.Order.UnitPrice.StringFixed(2))
			assert.Equal(t, tt.wantTotal, receipt.Order.TotalAmount.StringFixed(2))
		})
	}
}

func TestPlaceOrder_Unpriced(t *testing.T) {
	store := memstore.New(nil)
	p := store.AddProduct(core.Product{SKU: "X1", Name: "无价", IsActive: true})
	svc := core.NewService(store, nil, nil)

	_, err := svc.PlaceOrder(context.Background(), validRequest(p.ID, 1))
	require.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Empty(t, store.Orders())
}

func TestPlaceOrder_UntrackedStock(t *testing.T) {
	store := memstore.New(nil)
	p := store.AddProduct(core.Product{SKU: "SVC", Name: "安装服务", RetailPrice: price("99"), IsActive: true})
	svc := core.NewService(store, nil, nil)

	receipt, err := svc.PlaceOrder(context.Background(), validRequest(p.ID, 500))
	require.NoError(t, err)
	assert.Nil(t, receipt.Product.StockQuantity)
	assert.Len(t, store.Orders(), 1)
}

func TestPlaceOrder_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *core.OrderRequest)
		product func(p *core.Product)
		wantErr error
	}{
		{"zero quantity", func(r *core.OrderRequest) { r.Quantity = 0 }, nil, core.ErrInvalidInput},
		{"quantity beyond column range", func(r *core.OrderRequest) { r.Quantity = math.MaxInt32 + 6 }, func(p *core.Product) { p.StockQuantity = nil }, core.ErrInvalidInput},
		{"name too short", func(r *core.OrderRequest) { r.CustomerName = " 张 " }, nil, core.ErrInvalidInput},
		{"name too long", func(r *core.OrderRequest) { r.CustomerName = string(make([]rune, 51)) }, nil, core.ErrInvalidInput},
		{"phone wrong prefix", func(r *core.OrderRequest) { r.CustomerPhone = "12812345678" }, nil, core.ErrInvalidInput},
		{"phone too short", func(r *core.OrderRequest) { r.CustomerPhone = "1381234567" }, nil, core.ErrInvalidInput},
		{"notes too long", func(r *core.OrderRequest) { r.Notes = string(make([]rune, 501)) }, nil, core.ErrInvalidInput},
		{"unknown product", func(r *core.OrderRequest) { r.ProductID = 999 }, nil, core.ErrNotFound},
		{"inactive product", nil, func(p *core.Product) { p.IsActive = false }, core.ErrInactive},
		{"not enough stock", func(r *core.OrderRequest) { r.Quantity = 150 }, func(p *core.Product) { p.StockQuantity = intPtr(88) }, core.ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memstore.New(nil)
			base := core.Product{
				SKU:           "PRD001",
				Name:          "洗衣液",
				RetailPrice:   price("25.50"),
				StockQuantity: intPtr(100),
				IsActive:      true,
			}
			if tt.product != nil {
				tt.product(&base)
			}
			p := store.AddProduct(base)
			svc := core.NewService(store, nil, nil)

			req := validRequest(p.ID, 1)
			if tt.mutate != nil {
				tt.mutate(&req)
			}

			_, err := svc.PlaceOrder(context.Background(), req)
			require.ErrorIs(t, err, tt.wantErr)

			assert.Empty(t, store.Orders())
			after, _ := store.ProductBySKU("PRD001")
			assert.Equal(t, base.StockQuantity, after.StockQuantity)
		})
	}
}

func TestPlaceOrder_StoreFailureCommitsNothing(t *testing.T) {
	for _, op := range []string{"insert_order", "decrement_stock", "commit"} {
		t.Run(op, func(t *testing.T) {
			svc, store, p := newOrderFixture(t, nil)
			store.FailOn[op] = errors.New("connection reset by peer")

			_, err := svc.PlaceOrder(context.Background(), validRequest(p.ID, 3))
			require.ErrorIs(t, err, core.ErrPersistence)

			assert.Empty(t, store.Orders())
			after, _ := store.ProductBySKU("PRD001")
			assert.Equal(t, 100, *after.StockQuantity)
		})
	}
}

func TestPlaceOrder_ConcurrentOrdersNeverOversell(t *testing.T) {
	store := memstore.New(nil)
	p := store.AddProduct(core.Product{
		SKU: "LAST", Name: "纸巾", RetailPrice: price("18"), StockQuantity: intPtr(5), IsActive: true,
	})
	svc := core.NewService(store, nil, nil)

	var wg sync.WaitGroup
	var placed, rejected atomic.Int32
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PlaceOrder(context.Background(), validRequest(p.ID, 1))
			switch {
			case err == nil:
				placed.Add(1)
			case errors.Is(err, core.ErrInsufficientStock):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 5, placed.Load())
	assert.EqualValues(t, 7, rejected.Load())
	after, _ := store.ProductBySKU("LAST")
	assert.Equal(t, 0, *after.StockQuantity)
	assert.Len(t, store.Orders(), 5)
}

func TestPlaceOrder_NotificationOutcomesDoNotAffectOrder(t *testing.T) {
	failing := core.NotifierFunc(func(ctx context.Context, n core.OrderNotification) []core.DispatchOutcome {
		return []core.DispatchOutcome{
			{Channel: "email", Status: core.DispatchFailed, Reason: "smtp: 535 auth failed"},
			{Channel: "sms", Status: core.DispatchSkipped, Reason: "disabled"},
		}
	})
	svc, store, p := newOrderFixture(t, failing)

	receipt, err := svc.PlaceOrder(context.Background(), validRequest(p.ID, 1))
	require.NoError(t, err)
	require.Len(t, receipt.Notifications, 2)
	assert.Equal(t, core.DispatchFailed, receipt.Notifications[0].Status)
	assert.Len(t, store.Orders(), 1)
}

func TestPlaceOrder_PanickingNotifier(t *testing.T) {
	panicky := core.NotifierFunc(func(context.Context, core.OrderNotification) []core.DispatchOutcome {
		panic("mailer exploded")
	})
	svc, store, p := newOrderFixture(t, panicky)

	receipt, err := svc.PlaceOrder(context.Background(), validRequest(p.ID, 1))
	require.NoError(t, err)
	require.Len(t, receipt.Notifications, 1)
	assert.Equal(t, core.DispatchFailed, receipt.Notifications[0].Status)
	assert.Len(t, store.Orders(), 1)
}

func TestPlaceOrder_NotifierSeesFreshSettingsAndLiveContext(t *testing.T) {
	var got core.OrderNotification
	var ctxErr error
	rec := core.NotifierFunc(func(ctx context.Context, n core.OrderNotification) []core.DispatchOutcome {
		got = n
		ctxErr = ctx.Err()
		return []core.DispatchOutcome{{Channel: "email", Status: core.DispatchSent}}
	})
	svc, store, p := newOrderFixture(t, rec)

	_, err := svc.PutSetting(context.Background(), "notify_email", "orders@example.com")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	receipt, err := svc.PlaceOrder(ctx, validRequest(p.ID, 4))
	cancel()
	require.NoError(t, err)

	assert.Equal(t, "orders@example.com", got.Settings.Get("notify_email", ""))
	assert.Equal(t, receipt.Order.ID, got.Order.ID)
	assert.Equal(t, "洗衣液", got.Product.Name)
	assert.NoError(t, ctxErr)
	assert.Len(t, store.Orders(), 1)
}

func TestPlaceOrder_SettingsUnavailable(t *testing.T) {
	called := false
	rec := core.NotifierFunc(func(context.Context, core.OrderNotification) []core.DispatchOutcome {
		called = true
		return nil
	})
	svc, store, p := newOrderFixture(t, rec)
	store.FailOn["list_settings"] = errors.New("connection refused")

	receipt, err := svc.PlaceOrder(context.Background(), validRequest(p.ID, 1))
	require.NoError(t, err)
	assert.False(t, called)
	require.Len(t, receipt.Notifications, 1)
	assert.Equal(t, core.DispatchFailed, receipt.Notifications[0].Status)
}

func TestUnitPrice(t *testing.T) {
	p := &core.Product{SKU: "A", RetailPrice: price("12.00"), WholesalePrice: price("9.50")}

	unit, err := core.UnitPrice(p, core.WholesaleThreshold-1)
	require.NoError(t, err)
	assert.Equal(t, "12.00", unit.StringFixed(2))

	unit, err = core.UnitPrice(p, core.WholesaleThreshold)
	require.NoError(t, err)
	assert.Equal(t, "9.50", unit.StringFixed(2))
}

func TestPlaceOrder_WholesaleThenOversell(t *testing.T) {
	svc, store, p := newOrderFixture(t, nil)
	ctx := context.Background()

	receipt, err := svc.PlaceOrder(ctx, validRequest(p.ID, 12))
	require.NoError(t, err)
	assert.Equal(t, "20.00", receipt.Order.UnitPrice.StringFixed(2))
	assert.Equal(t, "240.00", receipt.Order.TotalAmount.StringFixed(2))
	assert.Equal(t, 88, *receipt.Product.StockQuantity)

	_, err = svc.PlaceOrder(ctx, validRequest(p.ID, 150))
	require.ErrorIs(t, err, core.ErrInsufficientStock)

	after, _ := store.ProductBySKU("PRD001")
	assert.Equal(t, 88, *after.StockQuantity)
	assert.Len(t, store.Orders(), 1)
}
