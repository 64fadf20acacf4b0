package core

// columns.go maps import file headers onto the canonical product fields.
//
// Headers are compared exactly (case-sensitive) after CleanCell. A field may
// be spelled several ways; when more than one spelling is present in the
// same file the first non-empty value in alias order wins, so a row always
// resolves the same way regardless of column order.

// Field is a canonical product field name used by the importer.
type Field string

const (
	FieldSKU            Field = "sku"
	FieldName           Field = "name"
	FieldBarcode        Field = "barcode"
	FieldSpec           Field = "spec"
	FieldModel          Field = "model"
	FieldRetailPrice    Field = "retail_price"
	FieldWholesalePrice Field = "wholesale_price"
	FieldStockQuantity  Field = "stock_quantity"
	FieldDescription    Field = "description"
	FieldCategory       Field = "category"
)

// AliasTableVersion identifies the shipped DefaultColumnAliases.
const AliasTableVersion = 1

// FieldAliases lists the header spellings accepted for one field.
type FieldAliases struct {
	Field Field
	Names []string
}

// ColumnAliases is a versioned header alias table.
type ColumnAliases struct {
	Version int
	Fields  []FieldAliases
}

// DefaultColumnAliases accepts the canonical names plus the Chinese
// headers used by the warehouse spreadsheets.
var DefaultColumnAliases = ColumnAliases{
	Version: AliasTableVersion,
	Fields: []FieldAliases{
		{FieldSKU, []string{"sku", "货号", "SKU"}},
		{FieldName, []string{"name", "产品名称", "品名", "名称"}},
		{FieldBarcode, []string{"barcode", "条码"}},
		{FieldSpec, []string{"spec", "规格"}},
		{FieldModel, []string{"model", "型号"}},
		{FieldRetailPrice, []string{"retail_price", "零售价", "零售价格"}},
		{FieldWholesalePrice, []string{"wholesale_price", "批发价", "批发价格"}},
		{FieldStockQuantity, []string{"stock_quantity", "库存", "库存数量"}},
		{FieldDescription, []string{"description", "描述"}},
		{FieldCategory, []string{"category", "分类"}},
	},
}

// Names returns every accepted header, field by field, for help output.
func (a ColumnAliases) Names() map[Field][]string {
	out := make(map[Field][]string, len(a.Fields))
	for _, f := range a.Fields {
		out[f.Field] = append([]string(nil), f.Names...)
	}
	return out
}

// Normalize resolves a raw row into canonical fields. Fields without a
// non-empty value are absent from the result. Unknown headers are ignored.
func (a ColumnAliases) Normalize(row RawRow) map[Field]string {
	cleaned := make(map[string]string, len(row))
	for k, v := range row {
		key := CleanCell(k)
		if key == "" {
			continue
		}
		if _, dup := cleaned[key]; !dup {
			cleaned[key] = v
		}
	}

	out := make(map[Field]string, len(a.Fields))
	for _, f := range a.Fields {
		for _, name := range f.Names {
			if v := CleanCell(cleaned[name]); v != "" {
				out[f.Field] = v
				break
			}
		}
	}
	return out
}
