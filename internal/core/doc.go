// Package core holds the catalog's business logic, independent of HTTP and
// of the database. Web handlers, the import command and tests all drive the
// same [Service].
//
// # Orders
//
// [Service.PlaceOrder] validates the request, then inside one store
// transaction locks the product, picks the retail or wholesale price (10 or
// more units is wholesale), inserts the order and decrements tracked stock.
// Nothing is written unless all of it succeeds. The notification runs after
// commit and can only add outcomes to the receipt; it never fails the order.
//
// # Imports
//
// [Service.ImportFile] reads a CSV or XLSX file into raw rows, resolves the
// headers through [DefaultColumnAliases] and reconciles each row by SKU in
// its own transaction: an unknown SKU creates a product, a known SKU
// updates only the fields the row supplies. One bad row never affects the
// others. The [ImportReport] lists every failed and skipped row with its
// spreadsheet line number (header is line 1).
//
// At most [DefaultMaxConcurrentImports] imports run at once; see
// [ImportLimiter].
//
// # Error Handling
//
// Workflows return errors wrapping one of the kinds in errors.go
// ([ErrInvalidInput], [ErrNotFound], [ErrInactive], [ErrInsufficientStock],
// [ErrPersistence]). [MapError] turns any error into a user message with a
// support code:
//
//   - ORD001-ORD005: order and validation errors
//   - IMP001-IMP004: import errors (format, header, busy, timeout)
//   - FILE001-FILE005: file errors (size, encoding, missing, empty)
//   - DB001-DB007: database errors
package core
