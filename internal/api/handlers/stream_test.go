package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/pkg/logger"
)

type latestOnly struct {
	Reader
	result contracts.CompositeResult
	err    error
}

func (l latestOnly) Latest(ctx context.Context) (contracts.CompositeResult, error) {
	return l.result, l.err
}

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) StreamMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg StreamMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHub_SnapshotThenBroadcast(t *testing.T) {
	seed := contracts.CompositeResult{Score: 12, Signal: contracts.SignalNeutral}
	hub := NewHub(latestOnly{result: seed}, logger.Nop())
	conn := dialHub(t, hub)

	msg := readMessage(t, conn)
	assert.Equal(t, "liquidity_snapshot", msg.Type)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast(contracts.CompositeResult{Score: 65, Signal: contracts.SignalExtremeLiquidity})

	msg = readMessage(t, conn)
	assert.Equal(t, "liquidity_update", msg.Type)
	payload, err := json.Marshal(msg.Payload)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"signal":"extreme_liquidity"`)
	assert.Contains(t, string(payload), `"score":65`)
}

func TestHub_NoSnapshotWhenNothingStored(t *testing.T) {
	hub := NewHub(latestOnly{err: errors.New("not found")}, logger.Nop())
	conn := dialHub(t, hub)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	hub.Broadcast(contracts.CompositeResult{Score: -30, Signal: contracts.SignalCrisis})

	// 첫 메시지가 곧바로 update
	assert.Equal(t, "liquidity_update", readMessage(t, conn).Type)
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub := NewHub(nil, logger.Nop())
	conn := dialHub(t, hub)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(nil, logger.Nop())
	conn := dialHub(t, hub)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Zero(t, hub.ClientCount())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway))
}
