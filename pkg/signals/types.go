package signals

import "time"

// SignalType is the direction of a trading signal.
type SignalType string

const (
	TypeBuy  SignalType = "BUY"
	TypeSell SignalType = "SELL"
	TypeHold SignalType = "HOLD"
)

// Signal is a single trading recommendation.
type Signal struct {
	Symbol     string     `json:"symbol"`
	Type       SignalType `json:"type"`
	Price      float64    `json:"price"`
	Confidence float64    `json:"confidence"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Response is what a signals request returns to the transport layer.
type Response struct {
	Signals   []Signal `json:"signals"`
	UserLimit *string  `json:"user_limit,omitempty"` // Set for free accounts only
	IsPaid    bool     `json:"is_paid"`
}
