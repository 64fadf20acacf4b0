package core

// order.go implements order placement.
//
// Validation runs before anything is touched. The stock check, the order
// insert and the stock decrement share one transaction with the product row
// locked, so two orders for the last units cannot both succeed. The
// notification is sent only after commit and cannot change the result.

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JonMunkholm/catalog/internal/logging"
	"github.com/shopspring/decimal"
)

// WholesaleThreshold is the quantity from which the wholesale price applies.
const WholesaleThreshold = 10

const (
	minCustomerName = 2
	maxCustomerName = 50
	maxNotes        = 500

	// maxQuantity matches the INTEGER quantity column.
	maxQuantity = math.MaxInt32
)

var phoneRegex = regexp.MustCompile(`^1[3-9]\d{9}$`)

// OrderRequest is the staff input for a new order.
type OrderRequest struct {
	ProductID     int64  `json:"product_id"`
	Quantity      int    `json:"quantity"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Notes         string `json:"notes"`
}

// OrderReceipt is returned for a committed order.
type OrderReceipt struct {
	Order         Order             `json:"order"`
	Product       Product           `json:"product"`
	Notifications []DispatchOutcome `json:"notifications"`
}

// Normalize trims the free-text fields in place.
func (r *OrderRequest) Normalize() {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	r.Notes = strings.TrimSpace(r.Notes)
}

// Validate checks the request fields. Errors wrap ErrInvalidInput.
func (r OrderRequest) Validate() error {
	if r.Quantity < 1 {
		return invalidf("quantity must be at least 1")
	}
	if r.Quantity > maxQuantity {
		return invalidf("quantity must be at most %d", maxQuantity)
	}
	if n := utf8.RuneCountInString(r.CustomerName); n < minCustomerName || n > maxCustomerName {
		return invalidf("customer name must be %d-%d characters", minCustomerName, maxCustomerName)
	}
	if !phoneRegex.MatchString(r.CustomerPhone) {
		return invalidf("customer phone must be an 11-digit mobile number")
	}
	if utf8.RuneCountInString(r.Notes) > maxNotes {
		return invalidf("notes must be at most %d characters", maxNotes)
	}
	return nil
}

// UnitPrice picks the price tier for qty. Wholesale applies from
// WholesaleThreshold units and falls back to retail when unset.
func UnitPrice(p *Product, qty int) (decimal.Decimal, error) {
	if qty >= WholesaleThreshold && p.WholesalePrice.Valid {
		return p.WholesalePrice.Decimal, nil
	}
	if !p.RetailPrice.Valid {
		return decimal.Decimal{}, invalidf("product %s is not priced", p.SKU)
	}
	return p.RetailPrice.Decimal, nil
}

// PlaceOrder validates req, commits the order and decrements tracked
// stock, then dispatches the new-order notification.
func (s *Service) PlaceOrder(ctx context.Context, req OrderRequest) (*OrderReceipt, error) {
	log := logging.FromContext(ctx).With(originAttrs(ctx)...)

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		order   *Order
		product *Product
	)
	err := s.store.InTx(ctx, func(tx CatalogTx) error {
		p, err := tx.LockProduct(ctx, req.ProductID)
		if err != nil {
			return fmt.Errorf("product %d: %w", req.ProductID, err)
		}
		if !p.IsActive {
			return fmt.Errorf("product %d: %w", p.ID, ErrInactive)
		}

		unit, err := UnitPrice(p, req.Quantity)
		if err != nil {
			return err
		}

		if p.TracksStock() && *p.StockQuantity < req.Quantity {
			return fmt.Errorf("%w: %d available, %d requested",
				ErrInsufficientStock, *p.StockQuantity, req.Quantity)
		}

		o, err := tx.InsertOrder(ctx, Order{
			ProductID:     p.ID,
			Quantity:      req.Quantity,
			UnitPrice:     unit,
			TotalAmount:   unit.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2),
			Status:        StatusPending,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			Notes:         req.Notes,
		})
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		if p.TracksStock() {
			ok, err := tx.DecrementStock(ctx, p.ID, req.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if !ok {
				return fmt.Errorf("%w: stock changed while ordering", ErrInsufficientStock)
			}
			left := *p.StockQuantity - req.Quantity
			p.StockQuantity = &left
		}

		order, product = o, p
		return nil
	})
	if err != nil {
		err = classify("place order", err)
		log.Warn("order rejected",
			slog.Int64("product_id", req.ProductID),
			slog.Int("quantity", req.Quantity),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	log.Info("order placed",
		slog.Int64("order_id", order.ID),
		slog.Int64("product_id", product.ID),
		slog.Int("quantity", order.Quantity),
		slog.String("total", order.TotalAmount.StringFixed(2)),
	)

	return &OrderReceipt{
		Order:         *order,
		Product:       *product,
		Notifications: s.notifyOrder(ctx, *order, *product),
	}, nil
}

// notifyOrder runs the notifier outside the request's cancellation. Loading
// settings is bounded by the notify timeout; the notifier bounds each of
// its channels. A panicking notifier counts as failed.
func (s *Service) notifyOrder(ctx context.Context, o Order, p Product) (outcomes []DispatchOutcome) {
	log := logging.FromContext(ctx)
	ctx = context.WithoutCancel(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Error("notifier panicked", slog.Int64("order_id", o.ID), slog.Any("panic", r))
			outcomes = []DispatchOutcome{{
				Channel: "notifier",
				Status:  DispatchFailed,
				Reason:  fmt.Sprintf("panic: %v", r),
			}}
		}
	}()

	start := time.Now()
	settingsCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	rows, err := s.store.ListSettings(settingsCtx)
	cancel()
	if err != nil {
		log.Warn("load settings for notification failed",
			slog.Int64("order_id", o.ID),
			slog.String("error", err.Error()),
		)
		return []DispatchOutcome{{
			Channel: "notifier",
			Status:  DispatchFailed,
			Reason:  "settings unavailable: " + err.Error(),
		}}
	}

	outcomes = s.notifier.Dispatch(ctx, OrderNotification{
		Order:    o,
		Product:  p,
		Settings: NewSettings(rows),
	})

	for _, out := range outcomes {
		level := slog.LevelInfo
		if out.Status == DispatchFailed {
			level = slog.LevelWarn
		}
		log.Log(ctx, level, "order notification",
			slog.Int64("order_id", o.ID),
			slog.String("channel", out.Channel),
			slog.String("status", string(out.Status)),
			slog.String("reason", out.Reason),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
	return outcomes
}
