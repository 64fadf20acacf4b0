package core

// importer.go reconciles import rows against the catalog by SKU.
//
// Each row runs in its own transaction: the product is locked by SKU, then
// either created or patched with the row's non-empty fields. A failing row
// is rolled back and recorded; the batch always continues. Rows with a
// blank SKU are skipped, not failed.
//
// Cell coercion:
//   - price: unparsable or empty is treated as absent; negative fails the row
//   - stock: unparsable or empty is 0 on create and unchanged on update;
//     negative fails the row
//   - barcode: empty is stored as NULL on create and left alone on update

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IssueKind classifies a skipped or failed row.
type IssueKind string

const (
	IssueMissingKey IssueKind = "missing_key"
	IssueInvalid    IssueKind = "invalid"
	IssueStore      IssueKind = "store"
)

// RowIssue describes one row that was skipped or failed. Row is the file
// line number with the header on line 1.
type RowIssue struct {
	Row    int       `json:"row"`
	SKU    string    `json:"sku,omitempty"`
	Kind   IssueKind `json:"kind"`
	Reason string    `json:"reason"`
}

func (i RowIssue) String() string {
	if i.SKU != "" {
		return fmt.Sprintf("row %d (sku %s): %s", i.Row, i.SKU, i.Reason)
	}
	return fmt.Sprintf("row %d: %s", i.Row, i.Reason)
}

// ImportReport is the outcome of one import batch. Failures and Skipped
// always hold every issue; Summary elides for display.
type ImportReport struct {
	ID           uuid.UUID     `json:"id"`
	SuccessCount int           `json:"success_count"`
	CreatedCount int           `json:"created_count"`
	UpdatedCount int           `json:"updated_count"`
	FailureCount int           `json:"failure_count"`
	SkippedCount int           `json:"skipped_count"`
	Failures     []RowIssue    `json:"failures"`
	Skipped      []RowIssue    `json:"skipped"`
	Duration     time.Duration `json:"duration"`
	// Interrupted is set when the context ended before every row ran.
	Interrupted string `json:"interrupted,omitempty"`
}

// Summary renders the report for a console, listing at most maxItems
// failures and skipped rows. maxItems <= 0 lists them all.
func (r *ImportReport) Summary(maxItems int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Import finished in %s: %d succeeded (%d created, %d updated), %d failed, %d skipped\n",
		r.Duration.Round(time.Millisecond), r.SuccessCount, r.CreatedCount, r.UpdatedCount,
		r.FailureCount, r.SkippedCount)
	if r.Interrupted != "" {
		fmt.Fprintf(&b, "Stopped early: %s\n", r.Interrupted)
	}
	writeIssues(&b, "Failures", r.Failures, maxItems)
	writeIssues(&b, "Skipped", r.Skipped, maxItems)
	return b.String()
}

func writeIssues(b *strings.Builder, title string, issues []RowIssue, maxItems int) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	shown := issues
	if maxItems > 0 && len(issues) > maxItems {
		shown = issues[:maxItems]
	}
	for _, i := range shown {
		fmt.Fprintf(b, "  %s\n", i)
	}
	if rest := len(issues) - len(shown); rest > 0 {
		fmt.Fprintf(b, "  ... %d more\n", rest)
	}
}

// importRow is a normalized row with its numeric cells already coerced.
type importRow struct {
	line   int
	fields map[Field]string

	retail    decimal.NullDecimal
	wholesale decimal.NullDecimal
	stock     *int
}

// ImportRows applies rows to the catalog and reports per-row outcomes.
// It never returns an error; store failures become row failures.
func (s *Service) ImportRows(ctx context.Context, rows []RawRow, aliases ColumnAliases) ImportReport {
	start := time.Now()
	report := ImportReport{
		ID:       uuid.New(),
		Failures: []RowIssue{},
		Skipped:  []RowIssue{},
	}

	for i, raw := range rows {
		if err := ctx.Err(); err != nil {
			report.Interrupted = fmt.Sprintf("%v after %d of %d rows", err, i, len(rows))
			break
		}

		row := importRow{line: i + 2, fields: aliases.Normalize(raw)}
		sku := row.fields[FieldSKU]
		if sku == "" {
			report.Skipped = append(report.Skipped, RowIssue{
				Row: row.line, Kind: IssueMissingKey, Reason: "sku is empty",
			})
			continue
		}

		if err := row.coerce(); err != nil {
			report.Failures = append(report.Failures, RowIssue{
				Row: row.line, SKU: sku, Kind: IssueInvalid, Reason: Reason(err),
			})
			continue
		}

		created, err := s.applyRow(ctx, row)
		if err != nil {
			kind := IssueStore
			if errors.Is(err, ErrInvalidInput) {
				kind = IssueInvalid
			}
			report.Failures = append(report.Failures, RowIssue{
				Row: row.line, SKU: sku, Kind: kind, Reason: Reason(err),
			})
			continue
		}

		report.SuccessCount++
		if created {
			report.CreatedCount++
		} else {
			report.UpdatedCount++
		}
	}

	report.FailureCount = len(report.Failures)
	report.SkippedCount = len(report.Skipped)
	report.Duration = time.Since(start)
	return report
}

func (r *importRow) coerce() error {
	for _, f := range []Field{FieldRetailPrice, FieldWholesalePrice} {
		v, present := r.fields[f]
		if !present {
			continue
		}
		d, ok := ParseDecimalCell(v)
		if !ok {
			continue
		}
		if d.IsNegative() {
			return invalidf("%s must not be negative: %q", f, v)
		}
		nd := decimal.NewNullDecimal(d.Round(2))
		if f == FieldRetailPrice {
			r.retail = nd
		} else {
			r.wholesale = nd
		}
	}

	if v, present := r.fields[FieldStockQuantity]; present {
		if n, ok := ParseIntCell(v); ok {
			if n < 0 {
				return invalidf("stock_quantity must not be negative: %q", v)
			}
			r.stock = &n
		}
	}
	return nil
}

// applyRow runs one row in its own transaction and reports whether the
// product was created.
func (s *Service) applyRow(ctx context.Context, row importRow) (created bool, err error) {
	sku := row.fields[FieldSKU]

	err = s.store.InTx(ctx, func(tx CatalogTx) error {
		var categoryID *int64
		if name := row.fields[FieldCategory]; name != "" {
			cat, err := tx.EnsureCategory(ctx, name)
			if err != nil {
				return fmt.Errorf("ensure category %q: %w", name, err)
			}
			categoryID = &cat.ID
		}

		existing, err := tx.LockProductBySKU(ctx, sku)
		switch {
		case errors.Is(err, ErrNotFound):
			created = true
			return createFromRow(ctx, tx, row, categoryID)
		case err != nil:
			return fmt.Errorf("lock sku: %w", err)
		}

		patch := patchFromRow(row, categoryID)
		if patch.Empty() {
			return nil
		}
		if _, err := tx.UpdateProduct(ctx, existing.ID, patch); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, classify("import row", err)
	}
	return created, nil
}

func createFromRow(ctx context.Context, tx CatalogTx, row importRow, categoryID *int64) error {
	name := row.fields[FieldName]
	if name == "" {
		return invalidf("name is required for a new product")
	}

	stock := 0
	if row.stock != nil {
		stock = *row.stock
	}

	_, err := tx.CreateProduct(ctx, ProductDraft{
		SKU:            row.fields[FieldSKU],
		Name:           name,
		Barcode:        row.fields[FieldBarcode],
		Spec:           row.fields[FieldSpec],
		Model:          row.fields[FieldModel],
		Description:    row.fields[FieldDescription],
		RetailPrice:    row.retail,
		WholesalePrice: row.wholesale,
		StockQuantity:  &stock,
		CategoryID:     categoryID,
	})
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func patchFromRow(row importRow, categoryID *int64) ProductPatch {
	text := func(f Field) *string {
		if v, ok := row.fields[f]; ok {
			return &v
		}
		return nil
	}
	return ProductPatch{
		Name:           text(FieldName),
		Barcode:        text(FieldBarcode),
		Spec:           text(FieldSpec),
		Model:          text(FieldModel),
		Description:    text(FieldDescription),
		RetailPrice:    row.retail,
		WholesalePrice: row.wholesale,
		StockQuantity:  row.stock,
		CategoryID:     categoryID,
	}
}
