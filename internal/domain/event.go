package domain

import "time"

// EventType tags the variant carried by a StreamEvent.
type EventType string

const (
	EventBookUpdate EventType = "book_update"
	EventTrade      EventType = "trade"
	EventHeartbeat  EventType = "heartbeat"
	EventUnknown    EventType = "unknown"
)

// StreamEvent is one inbound market-data event. Exactly one payload field is
// set according to Type; unknown variants carry none and are ignored by
// consumers.
type StreamEvent struct {
	Type      EventType
	Delta     *OrderDelta
	Trade     *TradeFill
	Timestamp time.Time
}

// BookUpdateEvent wraps an order delta as a stream event.
func BookUpdateEvent(delta OrderDelta) StreamEvent {
	return StreamEvent{Type: EventBookUpdate, Delta: &delta, Timestamp: delta.Timestamp}
}

// TradeEvent wraps a trade fill as a stream event.
func TradeEvent(fill TradeFill) StreamEvent {
	return StreamEvent{Type: EventTrade, Trade: &fill, Timestamp: fill.Timestamp}
}

// HeartbeatEvent builds a heartbeat stream event.
func HeartbeatEvent(at time.Time) StreamEvent {
	return StreamEvent{Type: EventHeartbeat, Timestamp: at}
}
