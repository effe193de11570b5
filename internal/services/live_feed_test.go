package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AgusMolinaCode/cryptotracker/internal/models"
	"github.com/AgusMolinaCode/cryptotracker/internal/observability"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialFeed(t *testing.T, srv *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) models.MarketSnapshot {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var s models.MarketSnapshot
	require.NoError(t, json.Unmarshal(msg, &s))
	return s
}

func TestLiveFeed_Broadcast(t *testing.T) {
	metrics := observability.NewMetrics()
	feed := NewLiveFeed(nil, metrics)
	srv := httptest.NewServer(http.HandlerFunc(feed.ServeWS))
	defer srv.Close()

	a := dialFeed(t, srv, nil)
	b := dialFeed(t, srv, nil)
	require.Eventually(t, func() bool { return feed.Clients() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.LiveFeedClients))

	coins := []models.CoinRecord{coin("bitcoin", 50000, 2.5)}
	summary, _ := SummarizeMarket(coins)
	feed.Broadcast(models.MarketSnapshot{Coins: coins, Summary: summary})

	for _, conn := range []*websocket.Conn{a, b} {
		s := readSnapshot(t, conn)
		require.Len(t, s.Coins, 1)
		assert.Equal(t, "bitcoin", s.Coins[0].ID)
		assert.Equal(t, "bitcoin", s.Summary.TopGainerID)
	}
}

func TestLiveFeed_SendsLastSnapshotOnConnect(t *testing.T) {
	feed := NewLiveFeed(nil, nil)
	srv := httptest.NewServer(http.HandlerFunc(feed.ServeWS))
	defer srv.Close()

	feed.Broadcast(models.MarketSnapshot{Coins: []models.CoinRecord{coin("ethereum", 3000, -1)}})

	conn := dialFeed(t, srv, nil)
	s := readSnapshot(t, conn)
	require.Len(t, s.Coins, 1)
	assert.Equal(t, "ethereum", s.Coins[0].ID)
}

func TestLiveFeed_UnregistersOnClose(t *testing.T) {
	metrics := observability.NewMetrics()
	feed := NewLiveFeed(nil, metrics)
	srv := httptest.NewServer(http.HandlerFunc(feed.ServeWS))
	defer srv.Close()

	conn := dialFeed(t, srv, nil)
	require.Eventually(t, func() bool { return feed.Clients() == 1 }, time.Second, 5*time.Millisecond)

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	require.Eventually(t, func() bool { return feed.Clients() == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.LiveFeedClients))
}

func TestLiveFeed_RejectsUnknownOrigin(t *testing.T) {
	feed := NewLiveFeed([]string{"http://localhost:3000"}, nil)
	srv := httptest.NewServer(http.HandlerFunc(feed.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn := dialFeed(t, srv, http.Header{"Origin": []string{"http://localhost:3000"}})
	assert.NotNil(t, conn)
}

func TestLiveFeed_Shutdown(t *testing.T) {
	feed := NewLiveFeed(nil, nil)
	srv := httptest.NewServer(http.HandlerFunc(feed.ServeWS))
	defer srv.Close()

	conn := dialFeed(t, srv, nil)
	require.Eventually(t, func() bool { return feed.Clients() == 1 }, time.Second, 5*time.Millisecond)

	feed.Shutdown()

	assert.Equal(t, 0, feed.Clients())
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}
