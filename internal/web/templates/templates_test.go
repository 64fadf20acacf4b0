package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/catalog/internal/core"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestErrorAlert(t *testing.T) {
	html := render(t, ErrorAlert("Not enough <stock>", "", "ORD004"))

	assert.Contains(t, html, `class="alert alert-error"`)
	assert.Contains(t, html, "Not enough &lt;stock&gt;")
	assert.Contains(t, html, "Code: ORD004")
	assert.NotContains(t, html, "alert-action", "empty action is omitted")

	html = render(t, ErrorAlert("m", "Lower the quantity", "ORD004"))
	assert.Contains(t, html, `<p class="alert-action">Lower the quantity</p>`)
}

func TestOrderConfirmation(t *testing.T) {
	stock := 88
	receipt := &core.OrderReceipt{
		Order: core.Order{
			ID:            7,
			Quantity:      12,
			UnitPrice:     decimal.RequireFromString("20"),
			TotalAmount:   decimal.RequireFromString("240"),
			CustomerName:  "<b>张三</b>",
			CustomerPhone: "13812345678",
		},
		Product: core.Product{SKU: "PRD001", Name: "洗衣液", StockQuantity: &stock},
		Notifications: []core.DispatchOutcome{
			{Channel: "email", Status: core.DispatchSent},
		},
	}

	html := render(t, OrderConfirmation(receipt))

	assert.Contains(t, html, "订单已提交 #7")
	assert.Contains(t, html, "<dt>单价</dt><dd>¥20.00</dd>")
	assert.Contains(t, html, "<dd>¥240.00</dd>")
	assert.Contains(t, html, "<dd>洗衣液 (PRD001)</dd>")
	assert.Contains(t, html, "<dd>88</dd>")
	assert.Contains(t, html, "&lt;b&gt;张三&lt;/b&gt;")
	assert.Contains(t, html, `data-status="`+string(core.DispatchSent)+`"`)

	receipt.Product.StockQuantity = nil
	receipt.Notifications = nil
	html = render(t, OrderConfirmation(receipt))
	assert.NotContains(t, html, "剩余库存")
	assert.NotContains(t, html, "notifications")
}

func TestImportReport(t *testing.T) {
	report := &core.ImportReport{
		SuccessCount: 2,
		CreatedCount: 1,
		UpdatedCount: 1,
		FailureCount: 1,
		Failures:     []core.RowIssue{{Row: 3, SKU: "PRD<2>", Reason: "retail_price must not be negative"}},
		Skipped:      []core.RowIssue{},
	}

	html := render(t, ImportReport("products.csv", report))

	assert.Contains(t, html, "<h3>products.csv</h3>")
	assert.Contains(t, html, "成功 2 (新增 1, 更新 1) · 失败 1 · 跳过 0")
	assert.Contains(t, html, "<caption>失败</caption>")
	assert.Contains(t, html, "<td>3</td><td>PRD&lt;2&gt;</td>")
	assert.NotContains(t, html, "<caption>跳过</caption>", "empty tables are omitted")
	assert.NotContains(t, html, "import-interrupted")
}
