package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/trick-taking/internal/config"
	"github.com/palemoky/trick-taking/internal/game/table"
	"github.com/palemoky/trick-taking/internal/protocol"
	"github.com/palemoky/trick-taking/internal/protocol/codec"
	"github.com/palemoky/trick-taking/internal/transport"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Game.Seats = []string{"N", "E"}
	cfg.Game.HandSize = 1
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *httptest.Server) {
	t.Helper()
	s, err := NewServer(cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.tables.Close()
	})
	return s, ts
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, ts *httptest.Server) *transport.Client {
	t.Helper()
	c := transport.NewClient(wsURL(ts))
	require.NoError(t, c.Connect(context.Background()))
	t.Cleanup(c.Close)

	waitFor[protocol.ConnectedPayload](t, c, protocol.MsgConnected)
	return c
}

func waitFor[T any](t *testing.T, c *transport.Client, msgType protocol.MessageType) *T {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg, err := c.WaitFor(ctx, msgType)
	require.NoError(t, err, "waiting for %s", msgType)
	p, err := codec.ParsePayload[T](msg)
	require.NoError(t, err)
	return p
}

func waitTurn(t *testing.T, c *transport.Client, seat string) *protocol.PlayTurnPayload {
	t.Helper()
	for {
		turn := waitFor[protocol.PlayTurnPayload](t, c, protocol.MsgPlayTurn)
		if turn.Seat == seat {
			return turn
		}
	}
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, out any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestNewServer_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Game.DefaultRuleSet = "nope"
	_, err := NewServer(cfg)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = "127.0.0.1:1"
	_, err = NewServer(cfg)
	assert.Error(t, err)
}

func TestAPI_Health(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t, testConfig())
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_RuleSets(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RuleSets = []config.RuleSetConfig{{ID: "hearts-trump", Name: "Hearts Trump", FollowSuit: true, Trump: "hearts"}}
	_, ts := newTestServer(t, cfg)

	var list protocol.RuleSetListPayload
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/rule-sets", &list))
	require.Len(t, list.RuleSets, 4)
	assert.Equal(t, "highest-card", list.RuleSets[0].ID)
	assert.Equal(t, 4, list.RuleSets[3].Index)

	var info protocol.RuleSetInfo
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/rule-sets/hearts-trump", &info))
	assert.Equal(t, "hearts", info.Trump)
	assert.True(t, info.FollowSuit)

	var errBody protocol.ErrorPayload
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/rule-sets/nope", &errBody))
	assert.Equal(t, protocol.ErrCodeUnknownRuleSet, errBody.Code)
}

func TestAPI_Resolve(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t, testConfig())

	// ♥ 首引，♦ 垫牌点数更大
	trickBody := `"plays":[
		{"seat":"N","card":{"suit":2,"rank":10}},
		{"seat":"E","card":{"suit":1,"rank":14}},
		{"seat":"S","card":{"suit":2,"rank":12}},
		{"seat":"W","card":{"suit":3,"rank":2}}]`

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantWinner string
		wantCode   int
	}{
		{"最大点数", `{"rule_set_id":"highest-card",` + trickBody + `}`, http.StatusOK, "E", 0},
		{"跟花色", `{"rule_set_id":"suit-follows",` + trickBody + `}`, http.StatusOK, "S", 0},
		{"黑桃将牌", `{"rule_set_id":"spades-trump",` + trickBody + `}`, http.StatusOK, "W", 0},
		{"未知规则集", `{"rule_set_id":"nope",` + trickBody + `}`, http.StatusNotFound, "", protocol.ErrCodeUnknownRuleSet},
		{"空墩", `{"rule_set_id":"highest-card","plays":[]}`, http.StatusBadRequest, "", protocol.ErrCodeIncompleteTrick},
		{"无效 JSON", `{"rule_set_id":`, http.StatusBadRequest, "", protocol.ErrCodeInvalidMsg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.wantStatus == http.StatusOK {
				var result protocol.ResolveResultPayload
				assert.Equal(t, tt.wantStatus, postJSON(t, ts.URL+"/api/resolve", tt.body, &result))
				assert.Equal(t, tt.wantWinner, result.Winner)
				return
			}
			var errBody protocol.ErrorPayload
			assert.Equal(t, tt.wantStatus, postJSON(t, ts.URL+"/api/resolve", tt.body, &errBody))
			assert.Equal(t, tt.wantCode, errBody.Code)
		})
	}
}

func TestWebSocket_PlayRound(t *testing.T) {
	t.Parallel()

	s, ts := newTestServer(t, testConfig())

	alice := dial(t, ts)
	bob := dial(t, ts)
	assert.Equal(t, 2, s.GetOnlineCount())
	assert.NotNil(t, s.GetClientByID(alice.PlayerID))
	assert.NotEmpty(t, alice.PlayerName)

	require.NoError(t, alice.Send(protocol.MsgSelectRuleSet, protocol.SelectRuleSetPayload{Index: 3}))
	errMsg := waitFor[protocol.ErrorPayload](t, alice, protocol.MsgError)
	assert.Equal(t, protocol.ErrCodeNotAtTable, errMsg.Code)

	require.NoError(t, alice.Send(protocol.MsgJoinTable, protocol.JoinTablePayload{}))
	joined := waitFor[protocol.TableJoinedPayload](t, alice, protocol.MsgTableJoined)
	assert.Equal(t, "N", joined.Seat)

	require.NoError(t, bob.Send(protocol.MsgJoinTable, protocol.JoinTablePayload{TableID: joined.TableID}))
	bobJoined := waitFor[protocol.TableJoinedPayload](t, bob, protocol.MsgTableJoined)
	assert.Equal(t, "E", bobJoined.Seat)

	require.NoError(t, alice.Send(protocol.MsgSelectRuleSet, protocol.SelectRuleSetPayload{Index: 3}))
	selected := waitFor[protocol.RuleSetSelectedPayload](t, bob, protocol.MsgRuleSetSelected)
	assert.Equal(t, "spades-trump", selected.RuleSet.ID)

	require.NoError(t, bob.Send(protocol.MsgStartTrick, nil))
	aliceHand := waitFor[protocol.HandDealtPayload](t, alice, protocol.MsgHandDealt)
	assert.Len(t, aliceHand.Cards, 1)
	assert.Equal(t, "N", aliceHand.Leader)

	turn := waitTurn(t, alice, "N")
	require.Len(t, turn.Legal, 1)
	require.NoError(t, alice.Send(protocol.MsgPlayCard, protocol.PlayCardPayload{Card: turn.Legal[0]}))

	turn = waitTurn(t, bob, "E")
	require.Len(t, turn.Legal, 1)
	require.NoError(t, bob.Send(protocol.MsgPlayCard, protocol.PlayCardPayload{Card: turn.Legal[0]}))

	closed := waitFor[protocol.TrickClosedPayload](t, alice, protocol.MsgTrickClosed)
	assert.Len(t, closed.Plays, 2)
	assert.Contains(t, []string{"N", "E"}, closed.Winner)
	assert.Equal(t, closed.Plays[closed.WinningIndex].Seat, closed.Winner)

	over := waitFor[protocol.RoundOverPayload](t, bob, protocol.MsgRoundOver)
	assert.Equal(t, 1, over.TricksPlayed)

	var summaries []table.Summary
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/tables", &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, joined.TableID, summaries[0].ID)
	assert.Equal(t, "spades-trump", summaries[0].RuleSetID)
	assert.False(t, summaries[0].InProgress)

	// 断开后其他玩家收到离座通知
	alice.Close()
	left := waitFor[protocol.PlayerLeftPayload](t, bob, protocol.MsgPlayerLeft)
	assert.Equal(t, "N", left.Seat)
	assert.Eventually(t, func() bool { return s.GetOnlineCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWebSocket_PingAndInvalidMessage(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t, testConfig())

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	readType := func() *protocol.Message {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		msg, err := codec.Decode(data)
		require.NoError(t, err)
		return msg
	}
	assert.Equal(t, protocol.MsgConnected, readType().Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"payload":{}}`)))
	msg := readType()
	require.Equal(t, protocol.MsgError, msg.Type)
	errMsg, err := codec.ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, errMsg.Code)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping","payload":{"timestamp":42}}`)))
	msg = readType()
	require.Equal(t, protocol.MsgPong, msg.Type)
	pong, err := codec.ParsePayload[protocol.PongPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, int64(42), pong.ClientTimestamp)
}

func TestWebSocket_MaxConnections(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Server.MaxConnections = 1
	_, ts := newTestServer(t, cfg)

	first := dial(t, ts)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	// 断开后名额释放
	first.Close()
	assert.Eventually(t, func() bool {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)
}

func TestMaintenanceMode(t *testing.T) {
	t.Parallel()

	s, ts := newTestServer(t, testConfig())
	lobby := dial(t, ts)

	s.EnterMaintenanceMode()
	assert.True(t, s.IsMaintenanceMode())

	notice := waitFor[protocol.ErrorPayload](t, lobby, protocol.MsgError)
	assert.Equal(t, protocol.ErrCodeServerMaintenance, notice.Code)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	var stats StatsResponse
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/stats", &stats))
	assert.True(t, stats.Maintenance)
	assert.Equal(t, 1, stats.Online)
}

func TestGracefulShutdown_RestoresFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig()
	cfg.Game.HandSize = 2
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = mr.Addr()

	s, err := NewServer(cfg)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())

	alice := dial(t, ts)
	bob := dial(t, ts)
	require.NoError(t, alice.Send(protocol.MsgJoinTable, protocol.JoinTablePayload{}))
	joined := waitFor[protocol.TableJoinedPayload](t, alice, protocol.MsgTableJoined)
	require.NoError(t, bob.Send(protocol.MsgJoinTable, protocol.JoinTablePayload{TableID: joined.TableID}))
	waitFor[protocol.TableJoinedPayload](t, bob, protocol.MsgTableJoined)
	require.NoError(t, alice.Send(protocol.MsgStartTrick, nil))
	turn := waitTurn(t, alice, "N")
	require.NoError(t, alice.Send(protocol.MsgPlayCard, protocol.PlayCardPayload{Card: turn.Legal[0]}))
	waitFor[protocol.CardPlayedPayload](t, bob, protocol.MsgCardPlayed)

	// 快照在广播之后写入
	require.Eventually(t, func() bool {
		data, err := s.redisStore.LoadTable(context.Background(), joined.TableID)
		return err == nil && data != nil && data.Round != nil && len(data.Round.Plays) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// 牌局未结束，超时后强制关闭
	s.GracefulShutdown(10 * time.Millisecond)
	ts.Close()

	restarted, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(restarted.tables.Close)

	n, err := restarted.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	tbl := restarted.Tables().GetTable(joined.TableID)
	require.NotNil(t, tbl)
	assert.True(t, tbl.InProgress())
	current, ok := tbl.CurrentTrick()
	require.True(t, ok)
	assert.Equal(t, 1, current.Len())
}

func TestGenerateNickname(t *testing.T) {
	t.Parallel()

	for range 20 {
		name := GenerateNickname()
		assert.GreaterOrEqual(t, len([]rune(name)), 4)
	}
}
