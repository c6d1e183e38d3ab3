// =============================================================================
// Finance Reports - Validation Module
// =============================================================================
//
// This module turns raw text (spreadsheet cells, console input) into typed
// values. Every helper returns a *ValidationError instead of a bare error so
// callers can decide whether a problem is fatal (user input) or only worth a
// warning (a single malformed cell in a bank export).
//
// SUPPORTED VALUE TYPES:
//   - date      : calendar date, DD.MM.YYYY (bank export), YYYY-MM-DD or
//                 a spreadsheet date serial
//   - timestamp : YYYY-MM-DD HH:MM:SS
//   - decimal   : signed amount, dot or comma separator, spaces ignored;
//                 when both appear the last one is the decimal separator
//
// =============================================================================

package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// SEVERITY LEVELS
// =============================================================================

const (
	// SeverityError marks a value the caller cannot continue without.
	SeverityError = "error"

	// SeverityWarning marks a value that was replaced by its zero default.
	SeverityWarning = "warning"
)

// =============================================================================
// DATE LAYOUTS
// =============================================================================

// DateLayouts are the accepted calendar date layouts, tried in order.
// The bank export uses day.month.year; ISO is accepted everywhere.
var DateLayouts = []string{
	"02.01.2006",
	"2006-01-02",
	"02.01.2006 15:04:05",
	"2006-01-02 15:04:05",
}

// TimestampLayout is the layout for a full date and time of day.
const TimestampLayout = "2006-01-02 15:04:05"

// =============================================================================
// VALIDATION ERROR
// =============================================================================

// ValidationError represents a single value that failed to parse.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the logical field name (e.g. "payment_date").
	Field string

	// Value is the raw text that failed.
	Value string

	// Message is a human-readable description.
	Message string

	// RowNumber is the 1-based spreadsheet row, 0 when not applicable.
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.RowNumber > 0 {
		return fmt.Sprintf("[%s] row %d, field '%s': %s (value: '%s')",
			strings.ToUpper(e.Severity), e.RowNumber, e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("[%s] field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity), e.Field, e.Message, e.Value)
}

// AsWarning returns a copy of the error downgraded to a warning and tagged
// with the given row number.
func (e *ValidationError) AsWarning(row int) *ValidationError {
	cp := *e
	cp.Severity = SeverityWarning
	cp.RowNumber = row
	return &cp
}

// =============================================================================
// PARSERS
// =============================================================================

// ParseDate parses a calendar date in any of DateLayouts. A positive number
// is read as a spreadsheet date serial, which is how an XLSX date cell
// arrives when read unformatted.
//
// PARAMETERS:
//   - field: The logical field name used in the error.
//   - value: The raw text.
//
// RETURNS:
//   - The parsed date.
//   - A *ValidationError if the value is empty or does not match any layout.
func ParseDate(field, value string) (civil.Date, *ValidationError) {
	value = strings.TrimSpace(value)
	if value == "" {
		return civil.Date{}, &ValidationError{
			Severity: SeverityError,
			Field:    field,
			Value:    value,
			Message:  "date is empty",
		}
	}

	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return civil.DateOf(t), nil
		}
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return civil.DateOf(t), nil
		}
	}

	return civil.Date{}, &ValidationError{
		Severity: SeverityError,
		Field:    field,
		Value:    value,
		Message:  "expected a date as DD.MM.YYYY or YYYY-MM-DD",
	}
}

// ParseTimestamp parses a YYYY-MM-DD HH:MM:SS value in the given location.
func ParseTimestamp(field, value string, loc *time.Location) (time.Time, *ValidationError) {
	value = strings.TrimSpace(value)
	t, err := time.ParseInLocation(TimestampLayout, value, loc)
	if err != nil {
		return time.Time{}, &ValidationError{
			Severity: SeverityError,
			Field:    field,
			Value:    value,
			Message:  "expected a timestamp as YYYY-MM-DD HH:MM:SS",
		}
	}
	return t, nil
}

// ParseDecimal parses a signed amount. Spaces (including the non-breaking
// space banks use as a thousands separator) are dropped and a decimal comma
// is accepted.
//
// RETURNS:
//   - The parsed amount.
//   - A *ValidationError if the value is not a number. An empty value is
//     not an error and yields zero.
func ParseDecimal(field, value string) (decimal.Decimal, *ValidationError) {
	cleaned := normalizeNumber(value)
	if cleaned == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &ValidationError{
			Severity: SeverityError,
			Field:    field,
			Value:    value,
			Message:  "expected a decimal number",
		}
	}
	return d, nil
}

// RequireText rejects empty (whitespace only) input.
func RequireText(field, value string) (string, *ValidationError) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", &ValidationError{
			Severity: SeverityError,
			Field:    field,
			Value:    value,
			Message:  "value is required",
		}
	}
	return value, nil
}

// normalizeNumber strips grouping characters and leaves a dot as the only
// decimal separator. With both a comma and a dot present, whichever comes
// last separates the decimals and the other one groups thousands.
func normalizeNumber(value string) string {
	value = strings.TrimSpace(value)

	decimalSep := ','
	if strings.LastIndex(value, ".") > strings.LastIndex(value, ",") {
		decimalSep = '.'
	}

	var b strings.Builder
	for _, r := range value {
		switch r {
		case ' ', '\u00a0', '\u202f', '\t':
			continue
		case ',', '.':
			if r == decimalSep {
				b.WriteRune('.')
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// =============================================================================
// ERROR REPORTING
// =============================================================================

// FormatErrors formats validation errors into a multi-line string.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d validation problem(s):\n\n", len(errors)))
	for i, err := range errors {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
