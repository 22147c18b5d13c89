// Package feed delivers market-data events to the strategy as a single
// ordered stream: a live WebSocket transport for production and a synthetic
// generator for demonstration.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/polyquant/snipebot/internal/domain"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// pingPeriod sends pings at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// reconnectDelay is the pause before redialing after a disconnect.
	reconnectDelay = 2 * time.Second

	// handshakeTimeout bounds the initial dial.
	handshakeTimeout = 15 * time.Second
)

// wsCommand is the JSON payload sent to subscribe to market channels.
type wsCommand struct {
	Type    string   `json:"type"`
	Channel string   `json:"channel,omitempty"`
	Assets  []string `json:"assets_ids,omitempty"`
}

// wsMessage is the outer envelope of every frame from the market WebSocket.
type wsMessage struct {
	EventType string `json:"event_type"` // "price_change", "last_trade_price", "heartbeat"
	AssetID   string `json:"asset_id"`
	Side      string `json:"side"`
	Price     string `json:"price"`
	Size      string `json:"size"` // "0" means level removed
	Timestamp string `json:"timestamp"`
}

// WSFeed connects to a CLOB-style market-data WebSocket, subscribes to price
// changes and trades for one asset, and emits decoded events on a single
// channel, serializing the stream for the strategy. It reconnects with a
// fixed delay on disconnect.
type WSFeed struct {
	wsURL        string
	assetID      string
	seq          uint64
	pingInterval time.Duration
	logger       *slog.Logger
}

// NewWSFeed creates a feed for the given WebSocket URL and asset.
func NewWSFeed(wsURL, assetID string, logger *slog.Logger) *WSFeed {
	return &WSFeed{
		wsURL:        wsURL,
		assetID:      assetID,
		pingInterval: pingPeriod,
		logger:       logger.With(slog.String("component", "ws_feed")),
	}
}

// Run connects and pumps events into out until ctx is cancelled. On
// disconnect it redials; emitted sequence numbers stay monotonic across
// reconnects.
func (f *WSFeed) Run(ctx context.Context, out chan<- domain.StreamEvent) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := f.runConnection(ctx, out)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		f.logger.Warn("ws disconnected, reconnecting", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (f *WSFeed) runConnection(ctx context.Context, out chan<- domain.StreamEvent) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, f.wsURL, nil)
	if err != nil {
		return fmt.Errorf("feed: connect %s: %w", f.wsURL, err)
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return fmt.Errorf("feed: set read deadline: %w", err)
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for _, channel := range []string{"price_change", "last_trade_price"} {
		cmd := wsCommand{Type: "subscribe", Channel: channel, Assets: []string{f.assetID}}
		payload, err := json.Marshal(cmd)
		if err != nil {
			return fmt.Errorf("feed: marshal subscribe: %w", err)
		}
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return fmt.Errorf("feed: set write deadline: %w", err)
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return fmt.Errorf("feed: subscribe %s: %w", channel, err)
		}
	}
	f.logger.Info("ws subscribed", slog.String("asset_id", f.assetID))

	// The ping ticker doubles as the heartbeat source for staleness checks:
	// each ping also emits a heartbeat event, so feed age is evaluated even
	// when the venue sends no explicit heartbeat frames.
	pingDone := make(chan struct{})
	defer close(pingDone)
	go func() {
		ticker := time.NewTicker(f.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-pingDone:
				return
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
				select {
				case out <- domain.HeartbeatEvent(time.Now()):
				case <-pingDone:
					return
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("feed: read: %w", domain.ErrWSDisconnect)
		}
		ev, ok := f.decode(message)
		if !ok {
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// decode converts one raw frame into a stream event. Malformed or unknown
// frames are dropped with a debug log.
func (f *WSFeed) decode(raw []byte) (domain.StreamEvent, bool) {
	var msg wsMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		f.logger.Debug("dropping undecodable frame", slog.String("error", err.Error()))
		return domain.StreamEvent{}, false
	}

	now := time.Now()
	switch msg.EventType {
	case "price_change":
		price, err := decimal.NewFromString(msg.Price)
		if err != nil {
			return domain.StreamEvent{}, false
		}
		size, err := decimal.NewFromString(msg.Size)
		if err != nil {
			return domain.StreamEvent{}, false
		}
		f.seq++
		return domain.BookUpdateEvent(domain.OrderDelta{
			AssetID:   msg.AssetID,
			Timestamp: now,
			Side:      domain.Side(msg.Side),
			Price:     price,
			Size:      size,
			Sequence:  f.seq,
		}), true
	case "last_trade_price":
		price, err := decimal.NewFromString(msg.Price)
		if err != nil {
			return domain.StreamEvent{}, false
		}
		size, err := decimal.NewFromString(msg.Size)
		if err != nil {
			return domain.StreamEvent{}, false
		}
		return domain.TradeEvent(domain.TradeFill{
			AssetID:   msg.AssetID,
			Side:      domain.Side(msg.Side),
			Price:     price,
			Size:      size,
			Timestamp: now,
		}), true
	case "heartbeat":
		return domain.HeartbeatEvent(now), true
	default:
		return domain.StreamEvent{}, false
	}
}
