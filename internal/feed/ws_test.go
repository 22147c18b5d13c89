package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyquant/snipebot/internal/domain"
)

func TestDecodePriceChange(t *testing.T) {
	f := NewWSFeed("wss://example.test/ws", "tkn", discardLogger())

	raw := []byte(`{"event_type":"price_change","asset_id":"tkn","side":"BUY","price":"0.50","size":"120","timestamp":"1724744400"}`)
	ev, ok := f.decode(raw)
	require.True(t, ok)
	require.Equal(t, domain.EventBookUpdate, ev.Type)
	require.NotNil(t, ev.Delta)

	assert.Equal(t, "tkn", ev.Delta.AssetID)
	assert.Equal(t, domain.SideBuy, ev.Delta.Side)
	assert.True(t, ev.Delta.Price.Equal(decimal.RequireFromString("0.50")))
	assert.True(t, ev.Delta.Size.Equal(decimal.RequireFromString("120")))
	assert.Equal(t, uint64(1), ev.Delta.Sequence)

	// Sequences grow across frames.
	ev2, ok := f.decode(raw)
	require.True(t, ok)
	assert.Equal(t, uint64(2), ev2.Delta.Sequence)
}

func TestDecodeLevelRemoval(t *testing.T) {
	f := NewWSFeed("wss://example.test/ws", "tkn", discardLogger())

	raw := []byte(`{"event_type":"price_change","asset_id":"tkn","side":"SELL","price":"0.51","size":"0"}`)
	ev, ok := f.decode(raw)
	require.True(t, ok)
	assert.True(t, ev.Delta.Size.IsZero())
}

func TestDecodeTrade(t *testing.T) {
	f := NewWSFeed("wss://example.test/ws", "tkn", discardLogger())

	raw := []byte(`{"event_type":"last_trade_price","asset_id":"tkn","side":"SELL","price":"0.49","size":"300"}`)
	ev, ok := f.decode(raw)
	require.True(t, ok)
	require.Equal(t, domain.EventTrade, ev.Type)
	require.NotNil(t, ev.Trade)
	assert.True(t, ev.Trade.Price.Equal(decimal.RequireFromString("0.49")))
}

func TestDecodeHeartbeat(t *testing.T) {
	f := NewWSFeed("wss://example.test/ws", "tkn", discardLogger())

	ev, ok := f.decode([]byte(`{"event_type":"heartbeat"}`))
	require.True(t, ok)
	assert.Equal(t, domain.EventHeartbeat, ev.Type)
}

func TestWSFeedSynthesizesHeartbeats(t *testing.T) {
	// A venue that accepts the connection and then sends no frames at all:
	// the feed must still emit heartbeats on its ping cadence so staleness
	// gets evaluated.
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		// Consume subscribe commands and pings; never send anything.
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	f := NewWSFeed("ws"+strings.TrimPrefix(srv.URL, "http"), "tkn", discardLogger())
	f.pingInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan domain.StreamEvent, 8)
	errCh := make(chan error, 1)
	go func() { errCh <- f.Run(ctx, out) }()

	select {
	case ev := <-out:
		assert.Equal(t, domain.EventHeartbeat, ev.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("no heartbeat emitted on ping cadence")
	}

	cancel()
	srv.CloseClientConnections()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("feed did not stop on cancel")
	}
}

func TestDecodeDropsGarbage(t *testing.T) {
	f := NewWSFeed("wss://example.test/ws", "tkn", discardLogger())

	_, ok := f.decode([]byte(`not json`))
	assert.False(t, ok)

	_, ok = f.decode([]byte(`{"event_type":"order_ack"}`))
	assert.False(t, ok)

	// Malformed numerics never become events.
	_, ok = f.decode([]byte(`{"event_type":"price_change","asset_id":"tkn","side":"BUY","price":"abc","size":"1"}`))
	assert.False(t, ok)
}
