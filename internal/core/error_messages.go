package core

// # Error Codes Reference
//
// This file maps technical errors to user-facing messages with a code that
// staff can quote to support.
//
// # Order Errors (ORD001-ORD099)
//
// Matched by error kind (errors.Is), before any text pattern:
//
//	ORD001 - Invalid order details (ErrInvalidInput). The message carries the reason.
//	ORD002 - Product not found (ErrNotFound)
//	ORD003 - Product no longer available (ErrInactive)
//	ORD004 - Not enough stock (ErrInsufficientStock)
//	ORD005 - Order could not be saved (ErrPersistence)
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Unsupported file format
//	         Patterns: "unsupported file format"
//	IMP002 - No header row found
//	         Patterns: "no header row"
//	IMP003 - Importer busy
//	         Patterns: "too many concurrent imports"
//	IMP004 - Import timed out
//	         Patterns: "import timed out"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key               Patterns: "duplicate key"
//	DB002 - Unique constraint           Patterns: "unique constraint", "violates unique"
//	DB003 - Foreign key                 Patterns: "foreign key constraint", "violates foreign key"
//	DB004 - Connection refused          Patterns: "connection refused"
//	DB005 - Connection reset            Patterns: "connection reset"
//	DB006 - Timeout                     Patterns: "timeout"
//	DB007 - Deadlock                    Patterns: "deadlock"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large            Patterns: "file too large", "request body too large"
//	FILE002 - Invalid CSV               Patterns: "invalid csv"
//	FILE003 - Unreadable spreadsheet    Patterns: "invalid xlsx"
//	FILE004 - No file                   Patterns: "no file provided"
//	FILE005 - Empty file                Patterns: "empty file"
//
// # Request Errors
//
//	REQ001 - Request cancelled          Patterns: "context canceled"
//	REQ002 - Request timed out          Patterns: "context deadline exceeded"
//	RATE001 - Rate limited              Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the application log for the
// technical error logged alongside the request id.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type kindMessage struct {
	kind error
	msg  UserMessage
}

// kindMessages are checked with errors.Is before the text patterns.
var kindMessages = []kindMessage{
	{ErrInvalidInput, UserMessage{
		Message: "Invalid order details",
		Action:  "Correct the highlighted field and try again",
		Code:    "ORD001",
	}},
	{ErrNotFound, UserMessage{
		Message: "Product not found",
		Action:  "Search the catalog again and pick an existing product",
		Code:    "ORD002",
	}},
	{ErrInactive, UserMessage{
		Message: "This product is no longer available",
		Action:  "Choose another product",
		Code:    "ORD003",
	}},
	{ErrInsufficientStock, UserMessage{
		Message: "Not enough stock for this quantity",
		Action:  "Lower the quantity or contact the warehouse",
		Code:    "ORD004",
	}},
	{ErrUnsupportedFormat, UserMessage{
		Message: "Unsupported file format",
		Action:  "Upload a .csv or .xlsx file",
		Code:    "IMP001",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "The importer is busy with other files",
		Action:  "Please wait a moment and try again",
		Code:    "IMP003",
	}},
	{ErrFileTooLarge, UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the file into smaller parts",
		Code:    "FILE001",
	}},
	{ErrPersistence, UserMessage{
		Message: "The change could not be saved",
		Action:  "Nothing was changed. Please try again",
		Code:    "ORD005",
	}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
var errorPatterns = []errorPattern{
	// Import
	{"unsupported file format", UserMessage{"Unsupported file format", "Upload a .csv or .xlsx file", "IMP001"}},
	{"no header row", UserMessage{"No header row found", "Put the column names in the first non-empty row", "IMP002"}},
	{"too many concurrent imports", UserMessage{"The importer is busy with other files", "Please wait a moment and try again", "IMP003"}},
	{"import timed out", UserMessage{"The import took too long and was stopped", "Rows processed so far were kept. Split the file and import the rest", "IMP004"}},

	// Database constraints
	{"duplicate key", UserMessage{"A record with this key already exists", "Check for duplicate SKU or barcode values", "DB001"}},
	{"unique constraint", UserMessage{"This value must be unique but already exists", "Check for duplicate entries in your file", "DB002"}},
	{"violates unique", UserMessage{"A duplicate value was found", "Review your data for duplicate key values", "DB002"}},
	{"foreign key constraint", UserMessage{"Referenced record does not exist", "Check the referenced product or category", "DB003"}},
	{"violates foreign key", UserMessage{"Referenced record does not exist", "Check the referenced product or category", "DB003"}},

	// Database connection
	{"connection refused", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB004"}},
	{"connection reset", UserMessage{"Database connection was interrupted", "Please try again", "DB005"}},
	{"timeout", UserMessage{"Operation timed out", "Please try again later", "DB006"}},
	{"deadlock", UserMessage{"Database was busy with conflicting operations", "Please try again", "DB007"}},

	// Files
	{"file too large", UserMessage{"File exceeds the maximum upload size", "Split the file into smaller parts", "FILE001"}},
	{"request body too large", UserMessage{"File exceeds the maximum upload size", "Split the file into smaller parts", "FILE001"}},
	{"invalid csv", UserMessage{"File is not a valid CSV", "Ensure the file is comma-separated with consistent quoting", "FILE002"}},
	{"invalid xlsx", UserMessage{"The spreadsheet could not be read", "Re-save the file as .xlsx and try again", "FILE003"}},
	{"no file provided", UserMessage{"No file was selected", "Please select a file to import", "FILE004"}},
	{"empty file", UserMessage{"The uploaded file is empty", "Please upload a file with a header row and data rows", "FILE005"}},

	// Request
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "REQ001"}},
	{"context deadline exceeded", UserMessage{"Request timed out", "Please try again", "REQ002"}},
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Domain error kinds win over text patterns; ERR000 is the fallback.
// For ErrInvalidInput the message is the validation reason itself.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, km := range kindMessages {
		if errors.Is(err, km.kind) {
			msg := km.msg
			if km.kind == ErrInvalidInput {
				msg.Message = Reason(err)
			}
			return msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action" for display.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
