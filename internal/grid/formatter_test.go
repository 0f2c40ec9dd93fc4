package grid

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestRenderErrorResponse(t *testing.T) {
	f := utcFormatter()

	rows := f.Render(decode(t, `{"error": "Invalid API key"}`), "quotes", "")
	assert.Equal(t, Rows{{"Error: Invalid API key"}}, rows)
}

func TestRenderEmptyData(t *testing.T) {
	f := utcFormatter()

	t.Run("Nil response", func(t *testing.T) {
		assert.Equal(t, Rows{{"No data received"}}, f.Render(nil, "quotes", ""))
	})

	t.Run("Empty data object", func(t *testing.T) {
		rows := f.Render(decode(t, `{"status": "success", "data": {}}`), "quotes", "")
		assert.Equal(t, Rows{{"No data received"}}, rows)
	})

	t.Run("Empty data list", func(t *testing.T) {
		rows := f.Render(decode(t, `{"status": "success", "data": []}`), "orderbook", "")
		assert.Equal(t, Rows{{"No data received"}}, rows)
	})
}

func TestRenderQuotesKeyValue(t *testing.T) {
	f := utcFormatter()
	response := decode(t, `{
		"status": "success",
		"data": {
			"symbol": "RELIANCE",
			"exchange": "NSE",
			"ltp": 2500.4,
			"prev_close": 2421.5,
			"pnl_percent": 3.26
		}
	}`)

	rows := f.Render(response, "quotes", "RELIANCE (NSE)")

	expected := Rows{
		{"RELIANCE (NSE)", "Value"},
		{"Symbol", "RELIANCE"},
		{"Last Trade Price", "2500.40"},
		{"Exchange", "NSE"},
		{"P&L %", "3.26%"},
		{"Previous Close", "2421.50"},
	}
	assert.Equal(t, expected, rows)
}

func TestRenderTitleResolution(t *testing.T) {
	f := utcFormatter()

	t.Run("Schema title field with exchange", func(t *testing.T) {
		response := decode(t, `{"data": {"symbol": "SBIN", "exchange": "NSE", "ltp": 820.1}}`)
		rows := f.Render(response, "quotes", "")
		assert.Equal(t, []string{"SBIN (NSE)", "Value"}, rows[0])
	})

	t.Run("Static schema title", func(t *testing.T) {
		response := decode(t, `{"data": {"availablecash": 100000.0}}`)
		rows := f.Render(response, "funds", "")
		assert.Equal(t, []string{"Account Funds", "Value"}, rows[0])
	})

	t.Run("Endpoint fallback title", func(t *testing.T) {
		response := decode(t, `{"data": {"span": 1200.5}}`)
		rows := f.Render(response, "margin", "")
		assert.Equal(t, []string{"Margin Data", "Value"}, rows[0])
	})

	t.Run("Custom title wins", func(t *testing.T) {
		response := decode(t, `{"data": {"availablecash": 100000.0}}`)
		rows := f.Render(response, "funds", "My Funds")
		assert.Equal(t, []string{"My Funds", "Value"}, rows[0])
	})
}

func TestRenderKeyValueInvalidShape(t *testing.T) {
	f := utcFormatter()

	rows := f.Render(decode(t, `{"data": "unexpected"}`), "quotes", "")
	assert.Equal(t, Rows{{"Invalid data format for key-value display"}}, rows)
}

func TestRenderTableMismatch(t *testing.T) {
	f := utcFormatter()

	rows := f.Render(decode(t, `{"data": {"orderid": "1"}}`), "orderbook", "")
	assert.Equal(t, Rows{{"Expected list data for table format"}}, rows)
}

func TestRenderTable(t *testing.T) {
	f := utcFormatter()
	response := decode(t, `{
		"status": "success",
		"data": [
			{"tradingsymbol": "INFY", "quantity": 10, "price": 1400.5, "timestamp": "10:01:00"},
			{"tradingsymbol": "TCS", "quantity": 5, "price": 3900.25, "timestamp": "10:05:00", "status": "open"}
		]
	}`)

	rows := f.Render(response, "orderbook", "")
	require.Len(t, rows, 3)

	// Header uses display labels; union of fields, priority first.
	assert.Equal(t, []string{"Trading Symbol", "Price", "Quantity", "Status", "Timestamp"}, rows[0])

	// Rectangular even when a record misses a field.
	for _, row := range rows {
		assert.Len(t, row, 5)
	}

	// orderbook sorts descending by timestamp.
	assert.Equal(t, "TCS", rows[1][0])
	assert.Equal(t, "INFY", rows[2][0])

	// INFY has no status cell.
	assert.Equal(t, "", rows[2][3])
}

func TestRenderScalarList(t *testing.T) {
	f := utcFormatter()

	rows := f.Render(decode(t, `{"data": ["1m", "5m", "15m"]}`), "intervals", "")
	expected := Rows{{"Items"}, {"1m"}, {"5m"}, {"15m"}}
	assert.Equal(t, expected, rows)
}

func TestRenderSingleElementListUnwrap(t *testing.T) {
	f := utcFormatter()
	response := decode(t, `{"data": [{"symbol": "NIFTY", "exchange": "NSE_INDEX", "ltp": 22150.25}]}`)

	rows := f.Render(response, "quotes", "")
	assert.Equal(t, []string{"NIFTY (NSE_INDEX)", "Value"}, rows[0])
	assert.Contains(t, rows, []string{"Last Trade Price", "22150.25"})
}

func TestRenderAutoFormat(t *testing.T) {
	f := utcFormatter()

	t.Run("List becomes table", func(t *testing.T) {
		rows := f.Render(decode(t, `{"data": [{"symbol": "A"}, {"symbol": "B"}]}`), "custom", "")
		assert.Equal(t, []string{"Symbol"}, rows[0])
		assert.Len(t, rows, 3)
	})

	t.Run("Object becomes key-value", func(t *testing.T) {
		rows := f.Render(decode(t, `{"data": {"mode": "live"}}`), "custom", "")
		assert.Equal(t, []string{"Custom Data", "Value"}, rows[0])
		assert.Equal(t, []string{"Mode", "live"}, rows[1])
	})
}

func TestRenderDeterministic(t *testing.T) {
	f := utcFormatter()
	response := decode(t, `{"data": {"b": 1, "a": 2, "symbol": "X", "z": 3, "m": 4}}`)

	first := f.Render(response, "quotes", "")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, f.Render(response, "quotes", ""))
	}
}

func TestRenderWithoutDataEnvelope(t *testing.T) {
	f := utcFormatter()

	rows := f.Render(decode(t, `{"symbol": "RELIANCE", "exchange": "NSE"}`), "quotes", "")
	assert.Equal(t, []string{"RELIANCE (NSE)", "Value"}, rows[0])
}

func TestErrorRows(t *testing.T) {
	assert.Equal(t, Rows{{"Error: boom"}}, ErrorRows("boom"))
}

func TestNewFormatterDefaults(t *testing.T) {
	f := NewFormatter(nil, nil, "", nil)
	assert.NotNil(t, f)

	rows := f.Render(map[string]interface{}{"data": []interface{}{"x"}}, "anything", "")
	assert.Equal(t, Rows{{"Items"}, {"x"}}, rows)
}

func TestPreferredFormatOverride(t *testing.T) {
	f := NewFormatter(nil, map[string]Schema{}, FormatKeyValue, time.UTC)

	rows := f.Render(decode(t, `{"data": [{"symbol": "A", "ltp": 10.0}]}`), "whatever", "")
	assert.Equal(t, []string{"Whatever Data", "Value"}, rows[0])
	assert.Contains(t, rows, []string{"Symbol", "A"})
}
