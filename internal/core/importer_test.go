package core_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/catalog/internal/core"
	"github.com/JonMunkholm/catalog/internal/store/memstore"
)

func TestImportRows_CreateThenUpdate(t *testing.T) {
	store := memstore.New(nil)
	svc := core.NewService(store, nil, nil)
	ctx := context.Background()

	first := svc.ImportRows(ctx, []core.RawRow{
		{"货号": "PRD001", "产品名称": "洗衣液", "条码": "1234567890123", "零售价": "25.50", "批发价": "20.00", "库存": "100", "分类": "清洁用品"},
		{"货号": "PRD002", "产品名称": "洗洁精", "零售价": "12.00", "分类": "清洁用品"},
	}, core.DefaultColumnAliases)

	assert.Equal(t, 2, first.SuccessCount)
	assert.Equal(t, 2, first.CreatedCount)
	assert.Empty(t, first.Failures)

	p1, ok := store.ProductBySKU("PRD001")
	require.True(t, ok)
	assert.True(t, p1.IsActive)
	assert.Equal(t, "25.50", p1.RetailPrice.Decimal.StringFixed(2))
	assert.Equal(t, 100, *p1.StockQuantity)

	p2, _ := store.ProductBySKU("PRD002")
	assert.Equal(t, 0, *p2.StockQuantity, "missing stock defaults to 0 on create")
	require.NotNil(t, p1.CategoryID)
	require.NotNil(t, p2.CategoryID)
	assert.Equal(t, *p1.CategoryID, *p2.CategoryID, "category is created once")

	second := svc.ImportRows(ctx, []core.RawRow{
		{"sku": "PRD001", "name": "", "retail_price": "26.00", "stock_quantity": "n/a", "description": "新配方"},
	}, core.DefaultColumnAliases)

	assert.Equal(t, 1, second.UpdatedCount)
	p1, _ = store.ProductBySKU("PRD001")
	assert.Equal(t, "洗衣液", p1.Name, "empty cells do not overwrite")
	assert.Equal(t, "26.00", p1.RetailPrice.Decimal.StringFixed(2))
	assert.Equal(t, "20.00", p1.WholesalePrice.Decimal.StringFixed(2))
	assert.Equal(t, 100, *p1.StockQuantity, "unparsable stock leaves the value unchanged")
	assert.Equal(t, "新配方", p1.Description)
	assert.Equal(t, "1234567890123", p1.Barcode)
}

func TestImportRows_SameRowRepeatedKeepsOneProduct(t *testing.T) {
	store := memstore.New(nil)
	svc := core.NewService(store, nil, nil)
	row := core.RawRow{"货号": "PRD001", "产品名称": "洗衣液", "零售价": "25.50", "库存": "100", "分类": "清洁用品"}

	for i := 0; i < 5; i++ {
		report := svc.ImportRows(context.Background(), []core.RawRow{row}, core.DefaultColumnAliases)
		require.Equal(t, 1, report.SuccessCount, "import %d", i+1)
		if i == 0 {
			assert.Equal(t, 1, report.CreatedCount)
		} else {
			assert.Equal(t, 1, report.UpdatedCount)
		}
	}

	products := store.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "PRD001", products[0].SKU)
	assert.Equal(t, 100, *products[0].StockQuantity)
}

func TestImportRows_OversizedNumbersFallBackToDefaults(t *testing.T) {
	store := memstore.New(nil)
	svc := core.NewService(store, nil, nil)

	report := svc.ImportRows(context.Background(), []core.RawRow{
		{"货号": "PRD009", "产品名称": "抹布", "零售价": "1e999999999", "库存": "1e9999999"},
	}, core.DefaultColumnAliases)

	require.Equal(t, 1, report.CreatedCount)
	p, _ := store.ProductBySKU("PRD009")
	assert.False(t, p.RetailPrice.Valid)
	assert.Equal(t, 0, *p.StockQuantity)
}

func TestImportRows_IssuesAndRowNumbers(t *testing.T) {
	store := memstore.New(nil)
	svc := core.NewService(store, nil, nil)

	report := svc.ImportRows(context.Background(), []core.RawRow{
		{"sku": "A1", "name": "好行"},
		{"sku": "  ", "name": "没有货号"},
		{"sku": "A2"},
		{"sku": "A3", "name": "负价", "retail_price": "(5.00)"},
		{"sku": "A4", "name": "负库存", "stock_quantity": "-3"},
		{"sku": "A5", "name": "好行二", "retail_price": "abc"},
	}, core.DefaultColumnAliases)

	assert.Equal(t, 2, report.SuccessCount)
	assert.Equal(t, 3, report.FailureCount)
	assert.Equal(t, 1, report.SkippedCount)
	assert.Equal(t, report.SuccessCount+report.FailureCount+report.SkippedCount, 6)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 3, report.Skipped[0].Row)
	assert.Equal(t, core.IssueMissingKey, report.Skipped[0].Kind)

	rows := make([]int, 0, len(report.Failures))
	for _, f := range report.Failures {
		rows = append(rows, f.Row)
		assert.Equal(t, core.IssueInvalid, f.Kind)
	}
	assert.Equal(t, []int{4, 5, 6}, rows)
	assert.Contains(t, report.Failures[0].Reason, "name is required")

	a5, ok := store.ProductBySKU("A5")
	require.True(t, ok)
	assert.False(t, a5.RetailPrice.Valid, "unparsable price is treated as absent")
	_, ok = store.ProductBySKU("A3")
	assert.False(t, ok)
}

func TestImportRows_StoreFailureOnlyFailsThatRow(t *testing.T) {
	store := memstore.New(nil)
	svc := core.NewService(store, nil, nil)

	report := svc.ImportRows(context.Background(), []core.RawRow{
		{"sku": "DUP", "name": "一", "barcode": "111"},
		{"sku": "OTHER", "name": "二", "barcode": "111", "category": "新分类"},
		{"sku": "OK", "name": "三"},
	}, core.DefaultColumnAliases)

	assert.Equal(t, 2, report.SuccessCount)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 3, report.Failures[0].Row)
	assert.Equal(t, core.IssueStore, report.Failures[0].Kind)

	cats, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cats, "category from a rolled back row is not kept")
}

func TestImportRows_StopsWhenContextEnds(t *testing.T) {
	svc := core.NewService(memstore.New(nil), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := svc.ImportRows(ctx, []core.RawRow{{"sku": "A", "name": "a"}}, core.DefaultColumnAliases)
	assert.Equal(t, 0, report.SuccessCount)
	assert.NotEmpty(t, report.Interrupted)
}

func TestColumnAliases_FirstAliasWins(t *testing.T) {
	got := core.DefaultColumnAliases.Normalize(core.RawRow{
		"名称":   "second",
		"name": "first",
		"品名":   "",
		"Name": "ignored, case differs",
		"颜色":   "unknown header",
	})
	assert.Equal(t, "first", got[core.FieldName])
	assert.Len(t, got, 1)

	got = core.DefaultColumnAliases.Normalize(core.RawRow{"name": " ", "品名": "fallback"})
	assert.Equal(t, "fallback", got[core.FieldName])
}

func TestImportReport_Summary(t *testing.T) {
	r := core.ImportReport{SuccessCount: 1, FailureCount: 12}
	for i := 0; i < 12; i++ {
		r.Failures = append(r.Failures, core.RowIssue{Row: i + 2, Kind: core.IssueInvalid, Reason: "bad"})
	}

	out := r.Summary(10)
	assert.Contains(t, out, "row 11: bad")
	assert.NotContains(t, out, "row 12: bad")
	assert.Contains(t, out, "... 2 more")
	assert.Len(t, r.Failures, 12, "summary does not truncate the report")
}

func TestImportFile_CSVWithBOM(t *testing.T) {
	store := memstore.New(nil)
	svc := core.NewService(store, nil, nil)

	csv := "\ufeff货号,产品名称,条码,规格,型号,零售价,批发价,库存,描述,分类\n" +
		"PRD001,洗衣液,1234567890123,2L/瓶,LX-2000,\"¥1,025.50\",20.00,100,强力去污洗衣液,清洁用品\n" +
		",,,,,,,,,\n" +
		"PRD003,纸巾,3456789012345,6包装,ZJ-100,18.00,15.00,150,原生木浆纸巾,日用品\n"

	report, err := svc.ImportFile(context.Background(), "products.csv", strings.NewReader(csv), int64(len(csv)))
	require.NoError(t, err)
	assert.Equal(t, 2, report.CreatedCount)

	p, ok := store.ProductBySKU("PRD001")
	require.True(t, ok)
	assert.Equal(t, "1025.50", p.RetailPrice.Decimal.StringFixed(2))
	assert.Equal(t, "2L/瓶", p.Spec)

	runs, err := svc.ListImportRuns(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "products.csv", runs[0].FileName)
	assert.Equal(t, report.ID, runs[0].ID)
}

func TestImportFile_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"sku", "name", "retail_price", "stock_quantity"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"X-1", "扳手", 30.5, 7}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	store := memstore.New(nil)
	svc := core.NewService(store, nil, nil)

	report, err := svc.ImportFile(context.Background(), "Sheet.XLSX", &buf, int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, 1, report.CreatedCount)

	p, ok := store.ProductBySKU("X-1")
	require.True(t, ok)
	assert.Equal(t, "30.50", p.RetailPrice.Decimal.StringFixed(2))
	assert.Equal(t, 7, *p.StockQuantity)
}

func TestImportFile_Errors(t *testing.T) {
	svc := core.NewService(memstore.New(nil), nil, nil)
	ctx := context.Background()

	_, err := svc.ImportFile(ctx, "products.pdf", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)

	_, err = svc.ImportFile(ctx, "empty.csv", strings.NewReader(""), 0)
	require.Error(t, err)
	assert.Equal(t, "FILE005", core.MapError(err).Code)

	_, err = svc.ImportFile(ctx, "big.csv", strings.NewReader("sku"), core.DefaultMaxFileSize+1)
	assert.ErrorIs(t, err, core.ErrFileTooLarge)

	_, err = svc.ImportFile(ctx, "broken.xlsx", strings.NewReader("not a zip"), 9)
	require.Error(t, err)
	assert.Equal(t, "FILE003", core.MapError(err).Code)
}

func TestImportFile_HistoryFailureIsNotFatal(t *testing.T) {
	store := memstore.New(nil)
	store.FailOn["record_import_run"] = errors.New("connection reset")
	svc := core.NewService(store, nil, nil)

	report, err := svc.ImportFile(context.Background(), "a.csv", strings.NewReader("sku,name\nA,a\n"), -1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.SuccessCount)
}
