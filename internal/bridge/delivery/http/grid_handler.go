package http

import (
	"net/http"

	"openalgo-sheets/internal/bridge/dto"
	"openalgo-sheets/internal/bridge/service"
	"openalgo-sheets/internal/grid"
	"openalgo-sheets/pkg/common"
	"openalgo-sheets/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GridHandler handles HTTP requests for rendered grids.
type GridHandler struct {
	bridge service.BridgeService
	logger *logger.Logger
}

// NewGridHandler creates a new GridHandler.
func NewGridHandler(bridge service.BridgeService, logger *logger.Logger) *GridHandler {
	return &GridHandler{bridge: bridge, logger: logger}
}

// RegisterRoutes registers the grid routes to the Echo group.
func (h *GridHandler) RegisterRoutes(g *echo.Group) {
	grids := g.Group("/grids")
	grids.POST("/quotes", h.Quotes)
	grids.POST("/depth", h.Depth)
	grids.POST("/history", h.History)
	grids.POST("/intervals", h.Intervals)
	grids.POST("/funds", h.book(common.EndpointFunds))
	grids.POST("/orderbook", h.book(common.EndpointOrderbook))
	grids.POST("/tradebook", h.book(common.EndpointTradebook))
	grids.POST("/positionbook", h.book(common.EndpointPositionbook))
	grids.POST("/holdings", h.book(common.EndpointHoldings))
	grids.POST("/orders/place", h.PlaceOrder)
	grids.POST("/orders/modify", h.ModifyOrder)
	grids.POST("/orders/cancel", h.CancelOrder)
	grids.POST("/orders/status", h.OrderStatus)
	grids.POST("/:endpoint", h.Render)

	g.GET("/status", h.Status)
}

func gridJSON(c echo.Context, endpoint string, rows grid.Rows) error {
	return c.JSON(http.StatusOK, dto.GridResponse{Endpoint: endpoint, Rows: rows})
}

// Quotes returns a real-time quote grid for a symbol.
func (h *GridHandler) Quotes(c echo.Context) error {
	var req dto.QuoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	rows := h.bridge.Quotes(c.Request().Context(), req.Symbol, req.Exchange)
	return gridJSON(c, common.EndpointQuotes, rows)
}

// Depth returns the market depth ladder for a symbol.
func (h *GridHandler) Depth(c echo.Context) error {
	var req dto.QuoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	rows := h.bridge.Depth(c.Request().Context(), req.Symbol, req.Exchange)
	return gridJSON(c, common.EndpointDepth, rows)
}

// History returns historical candles as an OHLCV grid.
func (h *GridHandler) History(c echo.Context) error {
	var req dto.HistoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	rows := h.bridge.History(c.Request().Context(), &req)
	return gridJSON(c, common.EndpointHistory, rows)
}

// Intervals returns the supported candle intervals.
func (h *GridHandler) Intervals(c echo.Context) error {
	rows := h.bridge.Intervals(c.Request().Context())
	return gridJSON(c, common.EndpointIntervals, rows)
}

// book builds a handler for the account-style endpoints that take no
// parameters beyond the API key.
func (h *GridHandler) book(endpoint string) echo.HandlerFunc {
	return func(c echo.Context) error {
		rows := h.bridge.Book(c.Request().Context(), endpoint)
		return gridJSON(c, endpoint, rows)
	}
}

// PlaceOrder places a real order through the upstream API.
func (h *GridHandler) PlaceOrder(c echo.Context) error {
	var req dto.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	rows := h.bridge.PlaceOrder(c.Request().Context(), &req)
	return gridJSON(c, common.EndpointPlaceOrder, rows)
}

// ModifyOrder modifies an open order.
func (h *GridHandler) ModifyOrder(c echo.Context) error {
	var req dto.ModifyOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	rows := h.bridge.ModifyOrder(c.Request().Context(), &req)
	return gridJSON(c, common.EndpointModifyOrder, rows)
}

// CancelOrder cancels an open order.
func (h *GridHandler) CancelOrder(c echo.Context) error {
	var req dto.OrderRefRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	rows := h.bridge.CancelOrder(c.Request().Context(), req.Strategy, req.OrderID)
	return gridJSON(c, common.EndpointCancelOrder, rows)
}

// OrderStatus returns an order's details as a key-value grid.
func (h *GridHandler) OrderStatus(c echo.Context) error {
	var req dto.OrderRefRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	rows := h.bridge.OrderStatus(c.Request().Context(), req.Strategy, req.OrderID)
	return gridJSON(c, common.EndpointOrderStatus, rows)
}

// Render is the generic passthrough for endpoints without a dedicated route.
func (h *GridHandler) Render(c echo.Context) error {
	endpoint := grid.EndpointFromURL(c.Param("endpoint"))

	var req dto.RenderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	rows := h.bridge.Render(c.Request().Context(), endpoint, req.Params, req.Title)
	return gridJSON(c, endpoint, rows)
}

// Status reports the bridge configuration and request counters.
func (h *GridHandler) Status(c echo.Context) error {
	rows := h.bridge.Status(c.Request().Context())
	return gridJSON(c, "status", rows)
}
