package dto

import "openalgo-sheets/internal/grid"

// QuoteRequest asks for a symbol's quote or market depth grid.
type QuoteRequest struct {
	Symbol   string `json:"symbol"`
	Exchange string `json:"exchange"`
}

// HistoryRequest asks for historical candles.
type HistoryRequest struct {
	Symbol    string `json:"symbol"`
	Exchange  string `json:"exchange"`
	Interval  string `json:"interval"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// PlaceOrderRequest carries the parameters for a new order.
type PlaceOrderRequest struct {
	Strategy          string `json:"strategy"`
	Symbol            string `json:"symbol"`
	Action            string `json:"action"`
	Exchange          string `json:"exchange"`
	PriceType         string `json:"pricetype"`
	Product           string `json:"product"`
	Quantity          string `json:"quantity"`
	Price             string `json:"price"`
	TriggerPrice      string `json:"trigger_price"`
	DisclosedQuantity string `json:"disclosed_quantity"`
}

// ModifyOrderRequest carries the parameters for modifying an open order.
type ModifyOrderRequest struct {
	Strategy          string `json:"strategy"`
	OrderID           string `json:"orderid"`
	Symbol            string `json:"symbol"`
	Action            string `json:"action"`
	Exchange          string `json:"exchange"`
	Quantity          string `json:"quantity"`
	PriceType         string `json:"pricetype"`
	Product           string `json:"product"`
	Price             string `json:"price"`
	TriggerPrice      string `json:"trigger_price"`
	DisclosedQuantity string `json:"disclosed_quantity"`
}

// OrderRefRequest identifies an existing order.
type OrderRefRequest struct {
	Strategy string `json:"strategy"`
	OrderID  string `json:"orderid"`
}

// RenderRequest is the generic escape hatch: arbitrary parameters for an
// endpoint the bridge has no dedicated route for.
type RenderRequest struct {
	Params map[string]interface{} `json:"params"`
	Title  string                 `json:"title"`
}

// GridResponse wraps a rendered grid.
type GridResponse struct {
	Endpoint string    `json:"endpoint"`
	Rows     grid.Rows `json:"rows"`
}
