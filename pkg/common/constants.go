package common

const (
	CacheKeyPrefix = "openalgo"

	EndpointQuotes       = "quotes"
	EndpointDepth        = "depth"
	EndpointHistory      = "history"
	EndpointIntervals    = "intervals"
	EndpointFunds        = "funds"
	EndpointOrderbook    = "orderbook"
	EndpointTradebook    = "tradebook"
	EndpointPositionbook = "positionbook"
	EndpointHoldings     = "holdings"
	EndpointPlaceOrder   = "placeorder"
	EndpointModifyOrder  = "modifyorder"
	EndpointCancelOrder  = "cancelorder"
	EndpointOrderStatus  = "orderstatus"
)
