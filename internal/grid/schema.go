package grid

import (
	"strings"

	"openalgo-sheets/pkg/common"
)

// Format selects how a payload is laid out in the grid.
type Format string

const (
	// FormatAuto picks FormatTable for arrays and FormatKeyValue otherwise.
	FormatAuto Format = "auto"
	// FormatTable renders one row per record, one column per field.
	FormatTable Format = "table"
	// FormatKeyValue renders a two-column table, one row per field.
	FormatKeyValue Format = "key_value"
)

// Schema describes the known response pattern of an endpoint.
type Schema struct {
	// Format overrides the global format preference when non-empty.
	Format Format
	// Title is a static title for the key-value header.
	Title string
	// TitleField names a payload field the title is built from.
	TitleField string
	// SortBy names the column table rows are sorted by, descending.
	SortBy string
}

// DefaultSchemas returns the formatting schemas for endpoints with known
// response patterns. Endpoints absent from the map fall back to the
// formatter's preferred format.
func DefaultSchemas() map[string]Schema {
	return map[string]Schema{
		common.EndpointQuotes:       {Format: FormatKeyValue, TitleField: "symbol"},
		common.EndpointFunds:        {Format: FormatKeyValue, Title: "Account Funds"},
		common.EndpointOrderbook:    {Format: FormatTable, SortBy: "timestamp"},
		common.EndpointTradebook:    {Format: FormatTable, SortBy: "timestamp"},
		common.EndpointPositionbook: {Format: FormatTable},
		common.EndpointHoldings:     {Format: FormatTable},
		common.EndpointOrderStatus:  {Format: FormatKeyValue, Title: "Order Status"},
	}
}

// EndpointFromURL extracts the endpoint name from a request URL,
// e.g. ".../api/v1/quotes" yields "quotes".
func EndpointFromURL(rawURL string) string {
	trimmed := strings.TrimRight(rawURL, "/")
	if trimmed == "" {
		return "unknown"
	}
	parts := strings.Split(trimmed, "/")
	last := strings.ToLower(parts[len(parts)-1])
	if last == "" {
		return "unknown"
	}
	return last
}
