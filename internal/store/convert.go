package store

// convert.go maps between pgtype values and the core domain types.

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/catalog/internal/core"
	db "github.com/JonMunkholm/catalog/internal/database"
)

// toPgText returns NULL for an empty string.
func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func ptrToPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func toPgNumeric(d decimal.NullDecimal) pgtype.Numeric {
	if !d.Valid {
		return pgtype.Numeric{}
	}
	return decimalToPg(d.Decimal)
}

func decimalToPg(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromPgNumeric(n pgtype.Numeric) decimal.NullDecimal {
	if !n.Valid || n.Int == nil || n.NaN {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromBigInt(n.Int, n.Exp))
}

func toPgInt4(v *int) pgtype.Int4 {
	if v == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*v), Valid: true}
}

func fromPgInt4(v pgtype.Int4) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int32)
	return &i
}

func toPgInt8(v *int64) pgtype.Int8 {
	if v == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *v, Valid: true}
}

func fromPgInt8(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	i := v.Int64
	return &i
}

func fromPgTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func productFromRow(r db.Product) *core.Product {
	return &core.Product{
		ID:             r.ID,
		SKU:            r.Sku,
		Barcode:        r.Barcode.String,
		Name:           r.Name,
		Spec:           r.Spec.String,
		Model:          r.Model.String,
		Description:    r.Description.String,
		RetailPrice:    fromPgNumeric(r.RetailPrice),
		WholesalePrice: fromPgNumeric(r.WholesalePrice),
		StockQuantity:  fromPgInt4(r.StockQuantity),
		IsActive:       r.IsActive,
		CategoryID:     fromPgInt8(r.CategoryID),
		ImageFilename:  r.ImageFilename.String,
		CreatedAt:      fromPgTime(r.CreatedAt),
		UpdatedAt:      fromPgTime(r.UpdatedAt),
	}
}

func orderFromRow(r db.Order) *core.Order {
	return &core.Order{
		ID:            r.ID,
		ProductID:     r.ProductID,
		Quantity:      int(r.Quantity),
		UnitPrice:     fromPgNumeric(r.UnitPrice).Decimal,
		TotalAmount:   fromPgNumeric(r.TotalAmount).Decimal,
		Status:        core.OrderStatus(r.Status),
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Notes:         r.Notes.String,
		CreatedAt:     fromPgTime(r.CreatedAt),
	}
}

func categoryFromRow(r db.Category) *core.Category {
	return &core.Category{
		ID:        r.ID,
		Name:      r.Name,
		ParentID:  fromPgInt8(r.ParentID),
		SortOrder: int(r.SortOrder),
		IsActive:  r.IsActive,
		CreatedAt: fromPgTime(r.CreatedAt),
	}
}

func settingFromRow(r db.SystemSetting) *core.Setting {
	return &core.Setting{
		Key:         r.Key,
		Value:       r.Value,
		Description: r.Description.String,
		UpdatedAt:   fromPgTime(r.UpdatedAt),
	}
}

func userFromRow(r db.User) *core.User {
	return &core.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         core.Role(r.Role),
		IsActive:     r.IsActive,
		CreatedAt:    fromPgTime(r.CreatedAt),
	}
}

func importRunParams(run core.ImportRun) (db.InsertImportRunParams, error) {
	failures, err := json.Marshal(run.Failures)
	if err != nil {
		return db.InsertImportRunParams{}, err
	}
	skipped, err := json.Marshal(run.Skipped)
	if err != nil {
		return db.InsertImportRunParams{}, err
	}
	return db.InsertImportRunParams{
		ID:           pgtype.UUID{Bytes: run.ID, Valid: true},
		FileName:     run.FileName,
		SuccessCount: int32(run.SuccessCount),
		CreatedCount: int32(run.CreatedCount),
		UpdatedCount: int32(run.UpdatedCount),
		FailureCount: int32(run.FailureCount),
		SkippedCount: int32(run.SkippedCount),
		Failures:     failures,
		Skipped:      skipped,
		DurationMs:   run.Duration.Milliseconds(),
	}, nil
}

func importRunFromRow(r db.ImportRun) (core.ImportRun, error) {
	run := core.ImportRun{
		ID:           uuid.UUID(r.ID.Bytes),
		FileName:     r.FileName,
		SuccessCount: int(r.SuccessCount),
		CreatedCount: int(r.CreatedCount),
		UpdatedCount: int(r.UpdatedCount),
		FailureCount: int(r.FailureCount),
		SkippedCount: int(r.SkippedCount),
		Duration:     time.Duration(r.DurationMs) * time.Millisecond,
		CreatedAt:    fromPgTime(r.CreatedAt),
	}
	if len(r.Failures) > 0 {
		if err := json.Unmarshal(r.Failures, &run.Failures); err != nil {
			return run, err
		}
	}
	if len(r.Skipped) > 0 {
		if err := json.Unmarshal(r.Skipped, &run.Skipped); err != nil {
			return run, err
		}
	}
	return run, nil
}
