package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/catalog/internal/core"
	db "github.com/JonMunkholm/catalog/internal/database"
)

func TestNumericConversionKeepsScale(t *testing.T) {
	for _, s := range []string{"25.50", "0.01", "1025", "99999999.99"} {
		d := decimal.RequireFromString(s)
		back := fromPgNumeric(decimalToPg(d))
		require.True(t, back.Valid)
		assert.True(t, d.Equal(back.Decimal), "%s round trip gave %s", s, back.Decimal)
	}

	assert.False(t, fromPgNumeric(toPgNumeric(decimal.NullDecimal{})).Valid)
}

func TestToPgTextEmptyIsNull(t *testing.T) {
	assert.False(t, toPgText("").Valid)
	assert.True(t, toPgText("x").Valid)

	empty := ""
	assert.True(t, ptrToPgText(&empty).Valid, "an explicit patch value is sent even when empty")
	assert.False(t, ptrToPgText(nil).Valid)
}

func TestProductFromRowUntrackedStock(t *testing.T) {
	p := productFromRow(db.Product{ID: 1, Sku: "SVC", Name: "服务"})
	assert.Nil(t, p.StockQuantity)
	assert.Nil(t, p.CategoryID)
	assert.False(t, p.RetailPrice.Valid)
}

func TestImportRunJSONColumns(t *testing.T) {
	run := core.ImportRun{
		ID:           uuid.New(),
		FileName:     "products.csv",
		FailureCount: 1,
		Failures:     []core.RowIssue{{Row: 4, SKU: "A2", Kind: core.IssueInvalid, Reason: "name is required"}},
		Skipped:      []core.RowIssue{},
		Duration:     1500 * time.Millisecond,
	}

	params, err := importRunParams(run)
	require.NoError(t, err)
	assert.EqualValues(t, 1500, params.DurationMs)

	got, err := importRunFromRow(db.ImportRun{
		ID:           params.ID,
		FileName:     params.FileName,
		FailureCount: params.FailureCount,
		Failures:     params.Failures,
		Skipped:      params.Skipped,
		DurationMs:   params.DurationMs,
	})
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.Failures, got.Failures)
	assert.Equal(t, run.Duration, got.Duration)
}
