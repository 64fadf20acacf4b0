package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. SKU is the natural key used by imports.
type Product struct {
	ID             int64               `json:"id"`
	SKU            string              `json:"sku"`
	Barcode        string              `json:"barcode,omitempty"`
	Name           string              `json:"name"`
	Spec           string              `json:"spec,omitempty"`
	Model          string              `json:"model,omitempty"`
	Description    string              `json:"description,omitempty"`
	RetailPrice    decimal.NullDecimal `json:"retail_price"`
	WholesalePrice decimal.NullDecimal `json:"wholesale_price"`
	// StockQuantity is nil when stock is not tracked for the product.
	StockQuantity *int      `json:"stock_quantity"`
	IsActive      bool      `json:"is_active"`
	CategoryID    *int64    `json:"category_id,omitempty"`
	ImageFilename string    `json:"image_filename,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TracksStock reports whether orders are checked against and decrement stock.
func (p *Product) TracksStock() bool {
	return p.StockQuantity != nil
}

// ProductDraft holds the fields of a product created by an import.
type ProductDraft struct {
	SKU            string
	Name           string
	Barcode        string
	Spec           string
	Model          string
	Description    string
	RetailPrice    decimal.NullDecimal
	WholesalePrice decimal.NullDecimal
	StockQuantity  *int
	CategoryID     *int64
}

// ProductPatch is a partial update. Nil pointers and invalid decimals
// leave the stored value unchanged.
type ProductPatch struct {
	Name           *string
	Barcode        *string
	Spec           *string
	Model          *string
	Description    *string
	RetailPrice    decimal.NullDecimal
	WholesalePrice decimal.NullDecimal
	StockQuantity  *int
	CategoryID     *int64
}

// Empty reports whether the patch would change nothing.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Barcode == nil && p.Spec == nil && p.Model == nil &&
		p.Description == nil && !p.RetailPrice.Valid && !p.WholesalePrice.Valid &&
		p.StockQuantity == nil && p.CategoryID == nil
}

// Category is a node in the product category tree.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryDraft holds the fields of a category created by an admin.
type CategoryDraft struct {
	Name      string `json:"name"`
	ParentID  *int64 `json:"parent_id,omitempty"`
	SortOrder int    `json:"sort_order"`
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every valid status in lifecycle order.
var OrderStatuses = []OrderStatus{
	StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled,
}

// ParseOrderStatus validates a status string.
func ParseOrderStatus(s string) (OrderStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, s)
}

// Order is a placed order. UnitPrice and TotalAmount are frozen at creation.
type Order struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"product_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        OrderStatus     `json:"status"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderFilter narrows ListOrders.
type OrderFilter struct {
	Status    OrderStatus
	ProductID int64
	Limit     int
	Offset    int
}

// Setting is one row of the runtime settings table.
type Setting struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Settings is a snapshot of the settings table keyed by setting key.
type Settings map[string]string

// NewSettings builds a snapshot from setting rows.
func NewSettings(rows []Setting) Settings {
	s := make(Settings, len(rows))
	for _, r := range rows {
		s[r.Key] = r.Value
	}
	return s
}

// Get returns the trimmed value for key, or def when it is unset or blank.
func (s Settings) Get(key, def string) string {
	if v := strings.TrimSpace(s[key]); v != "" {
		return v
	}
	return def
}

// Bool parses key as a boolean, returning def when unset or unparsable.
func (s Settings) Bool(key string, def bool) bool {
	v := strings.TrimSpace(s[key])
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return def
	}
	return b
}

// Int parses key as an integer, returning def when unset or unparsable.
func (s Settings) Int(key string, def int) int {
	v := strings.TrimSpace(s[key])
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// Role is a user's permission level.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// User is a staff account. The password is only ever stored as a bcrypt hash.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser is the admin input for creating a user.
type NewUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// ImportRun is a persisted import report.
type ImportRun struct {
	ID           uuid.UUID     `json:"id"`
	FileName     string        `json:"file_name"`
	SuccessCount int           `json:"success_count"`
	CreatedCount int           `json:"created_count"`
	UpdatedCount int           `json:"updated_count"`
	FailureCount int           `json:"failure_count"`
	SkippedCount int           `json:"skipped_count"`
	Failures     []RowIssue    `json:"failures"`
	Skipped      []RowIssue    `json:"skipped"`
	Duration     time.Duration `json:"duration"`
	CreatedAt    time.Time     `json:"created_at"`
}

// NewImportRun converts a finished report into its persisted form.
func NewImportRun(fileName string, r *ImportReport) ImportRun {
	return ImportRun{
		ID:           r.ID,
		FileName:     fileName,
		SuccessCount: r.SuccessCount,
		CreatedCount: r.CreatedCount,
		UpdatedCount: r.UpdatedCount,
		FailureCount: r.FailureCount,
		SkippedCount: r.SkippedCount,
		Failures:     r.Failures,
		Skipped:      r.Skipped,
		Duration:     r.Duration,
	}
}
