package entity

import (
	"time"

	"gorm.io/datatypes"
)

// APICallLog records one upstream OpenAlgo request/response exchange.
// The stored payload has the API key masked before it reaches this entity.
type APICallLog struct {
	ID         uint           `gorm:"primaryKey"`
	Endpoint   string         `gorm:"not null;index"`
	Payload    datatypes.JSON `gorm:"type:jsonb"`
	StatusCode int
	Response   datatypes.JSON `gorm:"type:jsonb"`
	Error      string
	DurationMs int64
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}
