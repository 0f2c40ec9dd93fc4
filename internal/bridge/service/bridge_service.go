package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"openalgo-sheets/internal/bridge/config"
	"openalgo-sheets/internal/bridge/dto"
	"openalgo-sheets/internal/bridge/repository"
	"openalgo-sheets/internal/grid"
	"openalgo-sheets/pkg/common"
	"openalgo-sheets/pkg/logger"
	"openalgo-sheets/pkg/redis"
	"openalgo-sheets/pkg/telegram"
	"openalgo-sheets/pkg/utils"

	gocache "github.com/patrickmn/go-cache"
)

const apiKeyNotSetMessage = "OpenAlgo API Key is not configured"

// BridgeService orchestrates one OpenAlgo call per operation and renders the
// response as a grid. Every method returns a usable grid: upstream failures
// come back as error rows, never as Go errors.
type BridgeService interface {
	Quotes(ctx context.Context, symbol, exchange string) grid.Rows
	Depth(ctx context.Context, symbol, exchange string) grid.Rows
	History(ctx context.Context, req *dto.HistoryRequest) grid.Rows
	Intervals(ctx context.Context) grid.Rows
	Book(ctx context.Context, endpoint string) grid.Rows
	PlaceOrder(ctx context.Context, req *dto.PlaceOrderRequest) grid.Rows
	ModifyOrder(ctx context.Context, req *dto.ModifyOrderRequest) grid.Rows
	CancelOrder(ctx context.Context, strategy, orderID string) grid.Rows
	OrderStatus(ctx context.Context, strategy, orderID string) grid.Rows
	Render(ctx context.Context, endpoint string, params map[string]interface{}, title string) grid.Rows
	Status(ctx context.Context) grid.Rows
}

// NewBridgeService creates the bridge service. The redis client and notifier
// may be nil; caching and alerts are then skipped.
func NewBridgeService(
	cfg *config.Config,
	log *logger.Logger,
	openAlgo repository.OpenAlgoRepository,
	audit AuditService,
	redisClient *redis.Client,
	notifier telegram.Notifier,
) BridgeService {
	loc := time.Local
	if cfg.Grid.Timezone != "" {
		if l, err := time.LoadLocation(cfg.Grid.Timezone); err == nil {
			loc = l
		} else {
			log.Warn("Invalid grid timezone, using local", logger.StringField("timezone", cfg.Grid.Timezone))
		}
	}

	formatter := grid.NewFormatter(nil, nil, grid.Format(cfg.Grid.PreferredFormat), loc)

	return &bridgeService{
		cfg:       cfg,
		logger:    log,
		openAlgo:  openAlgo,
		audit:     audit,
		redis:     redisClient,
		memo:      gocache.New(12*time.Hour, time.Hour),
		notifier:  notifier,
		formatter: formatter,
		loc:       loc,
	}
}

type bridgeService struct {
	cfg       *config.Config
	logger    *logger.Logger
	openAlgo  repository.OpenAlgoRepository
	audit     AuditService
	redis     *redis.Client
	memo      *gocache.Cache
	notifier  telegram.Notifier
	formatter *grid.Formatter
	loc       *time.Location
}

// call performs one upstream exchange: cache lookup, POST, audit record.
// Failures are folded into an {"error": message} response so that the
// formatter renders them uniformly.
func (s *bridgeService) call(ctx context.Context, endpoint string, params map[string]interface{}, ttl time.Duration) interface{} {
	if strings.TrimSpace(s.cfg.OpenAlgo.APIKey) == "" {
		return map[string]interface{}{"error": apiKeyNotSetMessage}
	}

	payload := make(map[string]interface{}, len(params)+1)
	payload["apikey"] = s.cfg.OpenAlgo.APIKey
	for k, v := range params {
		payload[k] = v
	}

	cacheKey := ""
	if ttl > 0 && s.cfg.Cache.Enabled {
		cacheKey = s.cacheKey(endpoint, params)
		if cached, ok := s.cacheGet(ctx, cacheKey); ok {
			return cached
		}
	}

	start := time.Now()
	response, statusCode, err := s.openAlgo.Post(ctx, endpoint, payload)
	duration := time.Since(start)

	if s.audit != nil {
		s.audit.Record(ctx, endpoint, maskPayload(payload), statusCode, response, err, duration)
	}

	if err != nil {
		s.notifyError(endpoint, err)
		return map[string]interface{}{"error": err.Error()}
	}

	if cacheKey != "" {
		s.cacheSet(ctx, cacheKey, response, ttl)
	}

	return response
}

func (s *bridgeService) cacheKey(endpoint string, params map[string]interface{}) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(common.CacheKeyPrefix)
	b.WriteString(":")
	b.WriteString(endpoint)
	for _, k := range keys {
		b.WriteString(fmt.Sprintf(":%s=%v", k, params[k]))
	}
	return b.String()
}

func (s *bridgeService) cacheGet(ctx context.Context, key string) (interface{}, bool) {
	if s.redis == nil {
		return nil, false
	}
	raw, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, false
	}
	return decoded, true
}

func (s *bridgeService) cacheSet(ctx context.Context, key string, response interface{}, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.logger.DebugContext(ctx, "Failed to cache response", logger.ErrorField(err), logger.StringField("key", key))
	}
}

// maskPayload copies the payload with the API key hidden before it is stored.
func maskPayload(payload map[string]interface{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		if k == "apikey" {
			masked[k] = utils.MaskSecret(fmt.Sprintf("%v", v))
			continue
		}
		masked[k] = v
	}
	return masked
}

// Quotes renders a real-time quote as a key-value grid titled "SYMBOL (EXCHANGE)".
func (s *bridgeService) Quotes(ctx context.Context, symbol, exchange string) grid.Rows {
	response := s.call(ctx, common.EndpointQuotes, map[string]interface{}{
		"symbol":   symbol,
		"exchange": exchange,
	}, s.cfg.Cache.QuoteTTL)
	title := fmt.Sprintf("%s (%s)", symbol, exchange)
	return s.formatter.Render(response, common.EndpointQuotes, title)
}

// Depth renders the market depth ladder: asks and bids zipped side by side,
// the shorter side padded with empty cells.
func (s *bridgeService) Depth(ctx context.Context, symbol, exchange string) grid.Rows {
	response := s.call(ctx, common.EndpointDepth, map[string]interface{}{
		"symbol":   symbol,
		"exchange": exchange,
	}, s.cfg.Cache.DepthTTL)

	if msg, ok := errorMessage(response); ok {
		return grid.ErrorRows(msg)
	}

	data, _ := extractObject(response)
	if len(data) == 0 {
		return grid.ErrorRows("No depth data received")
	}

	asks := toObjectList(data["asks"])
	bids := toObjectList(data["bids"])

	rows := grid.Rows{{"Ask Price", "Ask Qty", "Bid Price", "Bid Qty"}}
	depth := len(asks)
	if len(bids) > depth {
		depth = len(bids)
	}
	for i := 0; i < depth; i++ {
		row := []string{"", "", "", ""}
		if i < len(asks) {
			row[0] = s.formatter.FormatValue("price", asks[i]["price"])
			row[1] = grid.Stringify(asks[i]["quantity"])
		}
		if i < len(bids) {
			row[2] = s.formatter.FormatValue("price", bids[i]["price"])
			row[3] = grid.Stringify(bids[i]["quantity"])
		}
		rows = append(rows, row)
	}
	return rows
}

// History renders candles as a fixed OHLCV table with the epoch timestamp
// split into date and time columns.
func (s *bridgeService) History(ctx context.Context, req *dto.HistoryRequest) grid.Rows {
	response := s.call(ctx, common.EndpointHistory, map[string]interface{}{
		"symbol":     req.Symbol,
		"exchange":   req.Exchange,
		"interval":   req.Interval,
		"start_date": req.StartDate,
		"end_date":   req.EndDate,
	}, s.cfg.Cache.HistoryTTL)

	if msg, ok := errorMessage(response); ok {
		return grid.ErrorRows(msg)
	}

	candles := toObjectList(extractPayload(response))
	if len(candles) == 0 {
		return grid.ErrorRows("No historical data found")
	}

	rows := grid.Rows{{"Ticker", "Date", "Time", "Open", "High", "Low", "Close", "Volume"}}
	for _, candle := range candles {
		dateStr, timeStr := "N/A", "N/A"
		if sec, ok := grid.EpochSeconds(candle["timestamp"]); ok {
			ts := time.Unix(sec, 0).In(s.loc)
			dateStr = ts.Format("2006-01-02")
			timeStr = ts.Format("15:04:05")
		}
		rows = append(rows, []string{
			req.Symbol,
			dateStr,
			timeStr,
			s.formatter.FormatValue("open", candle["open"]),
			s.formatter.FormatValue("high", candle["high"]),
			s.formatter.FormatValue("low", candle["low"]),
			s.formatter.FormatValue("close", candle["close"]),
			grid.Stringify(candle["volume"]),
		})
	}
	return rows
}

// Intervals renders the supported candle intervals, falling back to the
// built-in defaults when the upstream has nothing to say.
func (s *bridgeService) Intervals(ctx context.Context) grid.Rows {
	if cached, ok := s.memo.Get(common.EndpointIntervals); ok {
		if rows, isRows := cached.(grid.Rows); isRows {
			return rows
		}
	}

	response := s.call(ctx, common.EndpointIntervals, nil, s.cfg.Cache.IntervalsTTL)
	rows := s.formatter.Render(response, common.EndpointIntervals, "")

	if len(rows) == 1 && len(rows[0]) == 1 && rows[0][0] == "No data received" {
		rows = defaultIntervals()
	}

	if _, hasErr := errorMessage(response); !hasErr {
		ttl := s.cfg.Cache.IntervalsTTL
		if ttl <= 0 {
			ttl = 12 * time.Hour
		}
		s.memo.Set(common.EndpointIntervals, rows, ttl)
	}
	return rows
}

func defaultIntervals() grid.Rows {
	return grid.Rows{
		{"Category", "Interval"},
		{"Minutes", "1m"},
		{"Minutes", "5m"},
		{"Minutes", "15m"},
		{"Minutes", "30m"},
		{"Hours", "1h"},
		{"Hours", "4h"},
		{"Daily", "1d"},
		{"Weekly", "1w"},
		{"Monthly", "1M"},
	}
}

// Book renders the account-style endpoints (funds, orderbook, tradebook,
// positionbook, holdings) straight through the dynamic formatter.
func (s *bridgeService) Book(ctx context.Context, endpoint string) grid.Rows {
	response := s.call(ctx, endpoint, nil, 0)
	return s.formatter.Render(response, endpoint, "")
}

// PlaceOrder submits a real order and returns a confirmation grid.
func (s *bridgeService) PlaceOrder(ctx context.Context, req *dto.PlaceOrderRequest) grid.Rows {
	response := s.call(ctx, common.EndpointPlaceOrder, map[string]interface{}{
		"strategy":           req.Strategy,
		"symbol":             req.Symbol,
		"action":             req.Action,
		"exchange":           req.Exchange,
		"pricetype":          req.PriceType,
		"product":            req.Product,
		"quantity":           orDefault(req.Quantity, "0"),
		"price":              orDefault(req.Price, "0"),
		"trigger_price":      orDefault(req.TriggerPrice, "0"),
		"disclosed_quantity": orDefault(req.DisclosedQuantity, "0"),
	}, 0)

	if msg, ok := errorMessage(response); ok {
		return grid.ErrorRows(msg)
	}

	orderID := "Unknown"
	if obj, ok := extractObject(response); ok {
		if v, present := obj["orderid"]; present {
			orderID = grid.Stringify(v)
		}
	}

	s.notifyOrder(telegram.OrderPlaced, req.Strategy, req.Symbol, req.Action, req.Exchange, orderID)

	return grid.Rows{
		{"⚠️ ORDER PLACED", "Order ID"},
		{"Result", orderID},
	}
}

// ModifyOrder modifies an open order.
func (s *bridgeService) ModifyOrder(ctx context.Context, req *dto.ModifyOrderRequest) grid.Rows {
	response := s.call(ctx, common.EndpointModifyOrder, map[string]interface{}{
		"strategy":           req.Strategy,
		"orderid":            req.OrderID,
		"symbol":             req.Symbol,
		"action":             req.Action,
		"exchange":           req.Exchange,
		"quantity":           orDefault(req.Quantity, "0"),
		"pricetype":          orDefault(req.PriceType, "MARKET"),
		"product":            orDefault(req.Product, "MIS"),
		"price":              orDefault(req.Price, "0"),
		"trigger_price":      orDefault(req.TriggerPrice, "0"),
		"disclosed_quantity": orDefault(req.DisclosedQuantity, "0"),
	}, 0)

	if msg, ok := errorMessage(response); ok {
		return grid.ErrorRows(msg)
	}

	s.notifyOrder(telegram.OrderModified, req.Strategy, req.Symbol, req.Action, req.Exchange, req.OrderID)
	return statusMessageRows(response, "Order modification request sent")
}

// CancelOrder cancels an open order.
func (s *bridgeService) CancelOrder(ctx context.Context, strategy, orderID string) grid.Rows {
	response := s.call(ctx, common.EndpointCancelOrder, map[string]interface{}{
		"strategy": strategy,
		"orderid":  orderID,
	}, 0)

	if msg, ok := errorMessage(response); ok {
		return grid.ErrorRows(msg)
	}

	s.notifyOrder(telegram.OrderCancelled, strategy, "", "", "", orderID)
	return statusMessageRows(response, "Order cancellation request sent")
}

// OrderStatus renders an order's details as a key-value grid.
func (s *bridgeService) OrderStatus(ctx context.Context, strategy, orderID string) grid.Rows {
	response := s.call(ctx, common.EndpointOrderStatus, map[string]interface{}{
		"strategy": strategy,
		"orderid":  orderID,
	}, 0)

	if msg, ok := errorMessage(response); ok {
		return grid.ErrorRows(msg)
	}
	if m, ok := response.(map[string]interface{}); ok {
		if data, present := m["data"]; !present || isEmptyObject(data) {
			return grid.ErrorRows("No order status data found")
		}
	}
	return s.formatter.Render(response, common.EndpointOrderStatus, "")
}

// Render is the generic escape hatch for endpoints without a dedicated route.
func (s *bridgeService) Render(ctx context.Context, endpoint string, params map[string]interface{}, title string) grid.Rows {
	response := s.call(ctx, endpoint, params, 0)
	return s.formatter.Render(response, endpoint, title)
}

// Status reports the bridge configuration as a grid.
func (s *bridgeService) Status(ctx context.Context) grid.Rows {
	requestsMade := "n/a"
	if s.audit != nil {
		if count, err := s.audit.Count(ctx); err == nil {
			requestsMade = strconv.FormatInt(count, 10)
		}
	}

	return grid.Rows{
		{"Configuration", "Value"},
		{"API Key", utils.MaskSecret(s.cfg.OpenAlgo.APIKey)},
		{"Version", s.cfg.OpenAlgo.Version},
		{"Host URL", s.cfg.OpenAlgo.BaseURL},
		{"Response Format", s.cfg.Grid.PreferredFormat},
		{"Requests Made", requestsMade},
	}
}

func (s *bridgeService) notifyOrder(event telegram.OrderEvent, strategy, symbol, action, exchange, orderID string) {
	if s.notifier == nil {
		return
	}
	msg := telegram.FormatOrderAlert(event, strategy, symbol, action, exchange, orderID, time.Now().In(s.loc))
	if err := s.notifier.SendMessage(msg); err != nil {
		s.logger.Error("Failed to send order alert", logger.ErrorField(err))
	}
}

// statusMessageRows renders the status/message pair an order mutation returns,
// substituting defaults when the upstream omits either field.
func statusMessageRows(response interface{}, defaultMessage string) grid.Rows {
	status := "Unknown"
	message := defaultMessage
	if m, ok := response.(map[string]interface{}); ok {
		if v, present := m["status"]; present {
			status = grid.Stringify(v)
		}
		if v, present := m["message"]; present {
			message = grid.Stringify(v)
		}
	}
	return grid.Rows{
		{"Status", status},
		{"Message", message},
	}
}

func (s *bridgeService) notifyError(endpoint string, callErr error) {
	if s.notifier == nil {
		return
	}
	msg := telegram.FormatErrorAlert(time.Now().In(s.loc), endpoint, callErr.Error())
	if err := s.notifier.SendMessage(msg); err != nil {
		s.logger.Error("Failed to send error alert", logger.ErrorField(err))
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// errorMessage reports whether the response carries an upstream error.
func errorMessage(response interface{}) (string, bool) {
	if m, ok := response.(map[string]interface{}); ok {
		if v, present := m["error"]; present {
			return grid.Stringify(v), true
		}
	}
	return "", false
}

// extractPayload unwraps the "data" envelope when present.
func extractPayload(response interface{}) interface{} {
	if m, ok := response.(map[string]interface{}); ok {
		if data, present := m["data"]; present {
			return data
		}
	}
	return response
}

// extractObject unwraps the payload and asserts it is an object.
func extractObject(response interface{}) (map[string]interface{}, bool) {
	obj, ok := extractPayload(response).(map[string]interface{})
	return obj, ok
}

func isEmptyObject(payload interface{}) bool {
	switch v := payload.(type) {
	case nil:
		return true
	case map[string]interface{}:
		return len(v) == 0
	default:
		return false
	}
}

func toObjectList(value interface{}) []map[string]interface{} {
	list, ok := value.([]interface{})
	if !ok {
		return nil
	}
	objects := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		if obj, isObj := item.(map[string]interface{}); isObj {
			objects = append(objects, obj)
		}
	}
	return objects
}
