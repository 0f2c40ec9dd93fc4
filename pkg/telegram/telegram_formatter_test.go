package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderAlert(t *testing.T) {
	ts := time.Date(2025, 4, 8, 10, 30, 0, 0, time.UTC)

	t.Run("Placed", func(t *testing.T) {
		msg := FormatOrderAlert(OrderPlaced, "excel", "RELIANCE", "BUY", "NSE", "123", ts)
		assert.Contains(t, msg, "Order Placed")
		assert.Contains(t, msg, "`RELIANCE` (NSE)")
		assert.Contains(t, msg, "*Action:* BUY")
		assert.Contains(t, msg, "`123`")
		assert.Contains(t, msg, "2025-04-08 10:30:00")
	})

	t.Run("Cancelled omits empty fields", func(t *testing.T) {
		msg := FormatOrderAlert(OrderCancelled, "excel", "", "", "", "123", ts)
		assert.Contains(t, msg, "Order Cancelled")
		assert.NotContains(t, msg, "Symbol")
		assert.NotContains(t, msg, "Action")
	})
}

func TestFormatErrorAlert(t *testing.T) {
	ts := time.Date(2025, 4, 8, 10, 30, 0, 0, time.UTC)
	msg := FormatErrorAlert(ts, "quotes", "HTTP Error 500: Internal Server Error")
	assert.Contains(t, msg, "quotes")
	assert.Contains(t, msg, "HTTP Error 500")
}
