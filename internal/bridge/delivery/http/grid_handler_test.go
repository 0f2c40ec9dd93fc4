package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"openalgo-sheets/internal/bridge/dto"
	"openalgo-sheets/internal/grid"
	"openalgo-sheets/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBridge struct {
	rows         grid.Rows
	lastEndpoint string
	lastSymbol   string
	lastParams   map[string]interface{}
	lastTitle    string
}

func (f *fakeBridge) Quotes(_ context.Context, symbol, _ string) grid.Rows {
	f.lastSymbol = symbol
	return f.rows
}

func (f *fakeBridge) Depth(_ context.Context, symbol, _ string) grid.Rows {
	f.lastSymbol = symbol
	return f.rows
}

func (f *fakeBridge) History(_ context.Context, req *dto.HistoryRequest) grid.Rows {
	f.lastSymbol = req.Symbol
	return f.rows
}

func (f *fakeBridge) Intervals(_ context.Context) grid.Rows {
	return f.rows
}

func (f *fakeBridge) Book(_ context.Context, endpoint string) grid.Rows {
	f.lastEndpoint = endpoint
	return f.rows
}

func (f *fakeBridge) PlaceOrder(_ context.Context, req *dto.PlaceOrderRequest) grid.Rows {
	f.lastSymbol = req.Symbol
	return f.rows
}

func (f *fakeBridge) ModifyOrder(_ context.Context, req *dto.ModifyOrderRequest) grid.Rows {
	f.lastSymbol = req.Symbol
	return f.rows
}

func (f *fakeBridge) CancelOrder(_ context.Context, _, _ string) grid.Rows {
	return f.rows
}

func (f *fakeBridge) OrderStatus(_ context.Context, _, _ string) grid.Rows {
	return f.rows
}

func (f *fakeBridge) Render(_ context.Context, endpoint string, params map[string]interface{}, title string) grid.Rows {
	f.lastEndpoint = endpoint
	f.lastParams = params
	f.lastTitle = title
	return f.rows
}

func (f *fakeBridge) Status(_ context.Context) grid.Rows {
	return f.rows
}

func setupHandler(t *testing.T, bridge *fakeBridge) *echo.Echo {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	e := echo.New()
	h := NewGridHandler(bridge, log)
	h.RegisterRoutes(e.Group("/api/v1"))
	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestQuotesRoute(t *testing.T) {
	bridge := &fakeBridge{rows: grid.Rows{{"RELIANCE (NSE)", "Value"}, {"Symbol", "RELIANCE"}}}
	e := setupHandler(t, bridge)

	rec := postJSON(e, "/api/v1/grids/quotes", `{"symbol": "RELIANCE", "exchange": "NSE"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "RELIANCE", bridge.lastSymbol)

	var resp dto.GridResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "quotes", resp.Endpoint)
	assert.Equal(t, bridge.rows, resp.Rows)
}

func TestQuotesRouteBadPayload(t *testing.T) {
	e := setupHandler(t, &fakeBridge{})

	rec := postJSON(e, "/api/v1/grids/quotes", `{"symbol": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request payload")
}

func TestBookRoutes(t *testing.T) {
	for _, endpoint := range []string{"funds", "orderbook", "tradebook", "positionbook", "holdings"} {
		bridge := &fakeBridge{rows: grid.Rows{{"x"}}}
		e := setupHandler(t, bridge)

		rec := postJSON(e, "/api/v1/grids/"+endpoint, `{}`)

		assert.Equal(t, http.StatusOK, rec.Code, endpoint)
		assert.Equal(t, endpoint, bridge.lastEndpoint)
	}
}

func TestPlaceOrderRoute(t *testing.T) {
	bridge := &fakeBridge{rows: grid.Rows{{"⚠️ ORDER PLACED", "Order ID"}, {"Result", "123"}}}
	e := setupHandler(t, bridge)

	rec := postJSON(e, "/api/v1/grids/orders/place", `{"symbol": "RELIANCE", "action": "BUY", "quantity": "1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "RELIANCE", bridge.lastSymbol)
	assert.Contains(t, rec.Body.String(), "ORDER PLACED")
}

func TestGenericRenderRoute(t *testing.T) {
	bridge := &fakeBridge{rows: grid.Rows{{"Analyzer", "Value"}}}
	e := setupHandler(t, bridge)

	rec := postJSON(e, "/api/v1/grids/analyzer", `{"params": {"mode": "live"}, "title": "Analyzer"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "analyzer", bridge.lastEndpoint)
	assert.Equal(t, "Analyzer", bridge.lastTitle)
	assert.Equal(t, "live", bridge.lastParams["mode"])
}

func TestStatusRoute(t *testing.T) {
	bridge := &fakeBridge{rows: grid.Rows{{"Configuration", "Value"}}}
	e := setupHandler(t, bridge)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Configuration")
}
