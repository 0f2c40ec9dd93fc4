package grid

import (
	"sort"
	"strings"

	"openalgo-sheets/pkg/utils"
)

type fieldSet map[string]struct{}

func newFieldSet(names ...string) fieldSet {
	s := make(fieldSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s fieldSet) has(name string) bool {
	_, ok := s[strings.ToLower(name)]
	return ok
}

// Catalog holds the static field configuration consulted for every field
// the formatter encounters: display labels, the priority ordering, and the
// per-category field sets used by the value-formatting rules.
type Catalog struct {
	Labels   map[string]string
	Priority []string

	Timestamps  fieldSet
	Expiries    fieldSet
	Prices      fieldSet
	Currencies  fieldSet
	Quantities  fieldSet
	Percentages fieldSet
	Greeks      fieldSet
	Integers    fieldSet
}

// DefaultCatalog returns the canonical catalog. The upstream API spells the
// same concept differently across endpoints (qty/quantity, ltp/price), so the
// sets are a superset of every variant seen in the wild.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Labels: map[string]string{
			"ltp":           "Last Trade Price",
			"prev_close":    "Previous Close",
			"pnl":           "P&L",
			"pnl_percent":   "P&L %",
			"orderid":       "Order ID",
			"tradingsymbol": "Trading Symbol",
			"m2m":           "M2M",
			"oi":            "Open Interest",
		},
		Priority: []string{
			"symbol", "tradingsymbol", "ltp", "price", "quantity",
			"status", "orderid", "action", "exchange", "product", "pnl",
		},
		Timestamps: newFieldSet(
			"timestamp", "date", "time", "order_time", "trade_time",
			"fill_time", "expiry_date",
		),
		Expiries: newFieldSet("expiry", "expiry_date"),
		Prices: newFieldSet(
			"price", "ltp", "open", "high", "low", "close", "prev_close",
			"trigger_price", "average_price", "strike", "bid", "ask",
			"buy_price", "sell_price",
		),
		Currencies: newFieldSet(
			"pnl", "m2m", "realised", "unrealised", "cash", "margin",
			"collateral", "availablecash", "utiliseddebits", "intraday_payin",
			"net_value", "invested_value", "current_value",
		),
		Quantities: newFieldSet(
			"quantity", "qty", "filled_quantity", "pending_quantity",
			"disclosed_quantity", "volume", "lotsize", "net_qty",
			"buy_qty", "sell_qty",
		),
		Percentages: newFieldSet("change_percent", "pnl_percent"),
		Greeks:      newFieldSet("delta", "gamma", "theta", "vega", "rho"),
		Integers:    newFieldSet("token", "instrument_token", "oi", "precision"),
	}
}

// Label returns the display label for a field, synthesizing one from the
// field name when no mapping exists.
func (c *Catalog) Label(field string) string {
	if label, ok := c.Labels[field]; ok {
		return label
	}
	return utils.TitleWords(field)
}

// OrderFields orders a set of discovered field names: priority fields first,
// in priority order, then the rest alphabetically. The result is a fixed
// total order; the same input set always yields the same output.
func (c *Catalog) OrderFields(fields []string) []string {
	present := make(map[string]bool, len(fields))
	for _, f := range fields {
		present[f] = true
	}

	prioritySet := make(map[string]bool, len(c.Priority))
	ordered := make([]string, 0, len(fields))
	for _, p := range c.Priority {
		prioritySet[p] = true
		if present[p] {
			ordered = append(ordered, p)
		}
	}

	rest := make([]string, 0, len(fields))
	for _, f := range fields {
		if !prioritySet[f] {
			rest = append(rest, f)
		}
	}
	sort.Strings(rest)

	return append(ordered, rest...)
}
