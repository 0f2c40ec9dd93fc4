package telegram

import (
	"fmt"
	"strings"
	"time"
)

// OrderEvent represents the kind of order action that triggered an alert.
type OrderEvent string

const (
	OrderPlaced    OrderEvent = "PLACED"
	OrderModified  OrderEvent = "MODIFIED"
	OrderCancelled OrderEvent = "CANCELLED"
)

// FormatOrderAlert formats an order event into a Markdown string for Telegram.
func FormatOrderAlert(event OrderEvent, strategy, symbol, action, exchange, orderID string, ts time.Time) string {
	var builder strings.Builder

	var title, emoji string
	switch event {
	case OrderPlaced:
		title = "Order Placed"
		emoji = "🟢"
	case OrderModified:
		title = "Order Modified"
		emoji = "🟡"
	case OrderCancelled:
		title = "Order Cancelled"
		emoji = "🔴"
	default:
		title = "Order Update"
		emoji = "🔔"
	}

	builder.WriteString(fmt.Sprintf("%s *%s*\n", emoji, title))
	if symbol != "" {
		builder.WriteString(fmt.Sprintf("📈 *Symbol:* `%s`", symbol))
		if exchange != "" {
			builder.WriteString(fmt.Sprintf(" (%s)", exchange))
		}
		builder.WriteString("\n")
	}
	if action != "" {
		builder.WriteString(fmt.Sprintf("💡 *Action:* %s\n", action))
	}
	if strategy != "" {
		builder.WriteString(fmt.Sprintf("🧠 *Strategy:* %s\n", strategy))
	}
	if orderID != "" {
		builder.WriteString(fmt.Sprintf("🆔 *Order ID:* `%s`\n", orderID))
	}
	builder.WriteString(fmt.Sprintf("📅 %s\n", ts.Format("2006-01-02 15:04:05")))

	return builder.String()
}

// FormatErrorAlert formats an upstream API failure into a Markdown string for Telegram.
func FormatErrorAlert(ts time.Time, endpoint string, errMsg string) string {
	return fmt.Sprintf(`📛 [ERROR ALERT]
%s
🔧 %s
⚠️ %s
`, ts.Format("2006-01-02 15:04:05"), endpoint, errMsg)
}
