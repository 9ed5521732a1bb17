package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/trick-taking/internal/apperrors"
	"github.com/palemoky/trick-taking/internal/game"
	"github.com/palemoky/trick-taking/internal/game/round"
	"github.com/palemoky/trick-taking/internal/game/ruleset"
	"github.com/palemoky/trick-taking/internal/game/table"
	"github.com/palemoky/trick-taking/internal/game/trick"
	"github.com/palemoky/trick-taking/internal/protocol"
	"github.com/palemoky/trick-taking/internal/protocol/codec"
	"github.com/palemoky/trick-taking/internal/testutil"
)

func newTestHandler(t *testing.T, maintenance bool) (*Handler, *table.TableManager) {
	t.Helper()
	tm := table.NewTableManager(table.Options{
		Engine:         game.NewEngine(ruleset.Default()),
		Seats:          []trick.Seat{"N", "E"},
		HandSize:       2,
		LeadPolicy:     round.WinnerLeads,
		DefaultRuleSet: ruleset.HighestCard,
		Timeout:        time.Minute,
	})
	t.Cleanup(tm.Close)

	srv := new(testutil.MockServer)
	srv.On("IsMaintenanceMode").Return(maintenance).Maybe()

	return NewHandler(HandlerDeps{Server: srv, Tables: tm}), tm
}

func send(h *Handler, c *testutil.SimpleClient, msgType protocol.MessageType, payload any) {
	h.Handle(c, codec.MustNewMessage(msgType, payload))
}

func parse[T any](t *testing.T, msg *protocol.Message) *T {
	t.Helper()
	require.NotNil(t, msg)
	p, err := codec.ParsePayload[T](msg)
	require.NoError(t, err)
	return p
}

func lastErrorCode(t *testing.T, c *testutil.SimpleClient) int {
	t.Helper()
	return parse[protocol.ErrorPayload](t, c.Last(protocol.MsgError)).Code
}

func TestHandle_UnknownType(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, false)
	c := testutil.NewSimpleClient("p1", "Alice")
	h.Handle(c, &protocol.Message{Type: "bid"})
	assert.Equal(t, protocol.ErrCodeInvalidMsg, lastErrorCode(t, c))
}

func TestHandlePing(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, false)
	c := testutil.NewSimpleClient("p1", "Alice")
	send(h, c, protocol.MsgPing, protocol.PingPayload{Timestamp: 123})

	pong := parse[protocol.PongPayload](t, c.Last(protocol.MsgPong))
	assert.Equal(t, int64(123), pong.ClientTimestamp)
	assert.Positive(t, pong.ServerTimestamp)
}

func TestHandleListRuleSets(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, false)
	c := testutil.NewSimpleClient("p1", "Alice")
	send(h, c, protocol.MsgListRuleSets, nil)

	list := parse[protocol.RuleSetListPayload](t, c.Last(protocol.MsgRuleSetList))
	require.Len(t, list.RuleSets, 3)
	assert.Equal(t, "Highest Card Wins", list.RuleSets[0].Name)
	assert.Equal(t, "Suit Follows", list.RuleSets[1].Name)
	assert.Equal(t, "Spades Trump", list.RuleSets[2].Name)
	assert.Equal(t, 3, list.RuleSets[2].Index)
}

func TestHandleJoinTable(t *testing.T) {
	t.Parallel()

	h, tm := newTestHandler(t, false)
	alice := testutil.NewSimpleClient("p1", "Alice")
	bob := testutil.NewSimpleClient("p2", "Bob")

	send(h, alice, protocol.MsgJoinTable, protocol.JoinTablePayload{})
	joined := parse[protocol.TableJoinedPayload](t, alice.Last(protocol.MsgTableJoined))
	assert.Equal(t, "N", joined.Seat)
	assert.Equal(t, ruleset.HighestCard, joined.RuleSet.ID)
	assert.Equal(t, 1, joined.RuleSet.Index)

	send(h, bob, protocol.MsgJoinTable, protocol.JoinTablePayload{TableID: joined.TableID})
	bobJoined := parse[protocol.TableJoinedPayload](t, bob.Last(protocol.MsgTableJoined))
	assert.Equal(t, "E", bobJoined.Seat)
	assert.Len(t, bobJoined.Players, 2)

	carol := testutil.NewSimpleClient("p3", "Carol")
	send(h, carol, protocol.MsgJoinTable, protocol.JoinTablePayload{TableID: joined.TableID})
	assert.Equal(t, protocol.ErrCodeTableFull, lastErrorCode(t, carol))

	send(h, carol, protocol.MsgJoinTable, protocol.JoinTablePayload{TableID: "missing"})
	assert.Equal(t, protocol.ErrCodeTableNotFound, lastErrorCode(t, carol))

	send(h, bob, protocol.MsgLeaveTable, nil)
	assert.Empty(t, bob.GetTable())

	h.HandleDisconnect(alice)
	assert.Equal(t, 0, tm.TableCount())
}

func TestHandleJoinTable_Maintenance(t *testing.T) {
	t.Parallel()

	h, tm := newTestHandler(t, true)
	c := testutil.NewSimpleClient("p1", "Alice")
	send(h, c, protocol.MsgJoinTable, protocol.JoinTablePayload{})
	assert.Equal(t, protocol.ErrCodeServerMaintenance, lastErrorCode(t, c))
	assert.Equal(t, 0, tm.TableCount())
}

func TestHandleSelectRuleSet(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, false)
	alice := testutil.NewSimpleClient("p1", "Alice")

	// 不在牌桌上
	send(h, alice, protocol.MsgSelectRuleSet, protocol.SelectRuleSetPayload{RuleSetID: ruleset.SpadesTrump})
	assert.Equal(t, protocol.ErrCodeNotAtTable, lastErrorCode(t, alice))

	send(h, alice, protocol.MsgJoinTable, protocol.JoinTablePayload{})

	// 按位置（1 起）
	send(h, alice, protocol.MsgSelectRuleSet, protocol.SelectRuleSetPayload{Index: 2})
	selected := parse[protocol.RuleSetSelectedPayload](t, alice.Last(protocol.MsgRuleSetSelected))
	assert.Equal(t, ruleset.SuitFollows, selected.RuleSet.ID)

	// 按 ID
	send(h, alice, protocol.MsgSelectRuleSet, protocol.SelectRuleSetPayload{RuleSetID: ruleset.SpadesTrump})
	selected = parse[protocol.RuleSetSelectedPayload](t, alice.Last(protocol.MsgRuleSetSelected))
	assert.Equal(t, "spades", selected.RuleSet.Trump)

	send(h, alice, protocol.MsgSelectRuleSet, protocol.SelectRuleSetPayload{RuleSetID: "nope"})
	assert.Equal(t, protocol.ErrCodeUnknownRuleSet, lastErrorCode(t, alice))

	send(h, alice, protocol.MsgSelectRuleSet, protocol.SelectRuleSetPayload{Index: 9})
	assert.Equal(t, protocol.ErrCodeUnknownRuleSet, lastErrorCode(t, alice))

	send(h, alice, protocol.MsgSelectRuleSet, protocol.SelectRuleSetPayload{})
	assert.Equal(t, protocol.ErrCodeInvalidMsg, lastErrorCode(t, alice))
}

func TestHandlePlayFlow(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, false)
	alice := testutil.NewSimpleClient("p1", "Alice")
	bob := testutil.NewSimpleClient("p2", "Bob")

	send(h, alice, protocol.MsgStartTrick, nil)
	assert.Equal(t, protocol.ErrCodeNotAtTable, lastErrorCode(t, alice))

	send(h, alice, protocol.MsgJoinTable, protocol.JoinTablePayload{})
	joined := parse[protocol.TableJoinedPayload](t, alice.Last(protocol.MsgTableJoined))

	send(h, alice, protocol.MsgStartTrick, nil)
	assert.Equal(t, protocol.ErrCodeGameNotStart, lastErrorCode(t, alice))

	send(h, bob, protocol.MsgJoinTable, protocol.JoinTablePayload{TableID: joined.TableID})
	send(h, bob, protocol.MsgStartTrick, nil)
	require.NotNil(t, alice.Last(protocol.MsgHandDealt))

	// 无效的牌
	send(h, alice, protocol.MsgPlayCard, protocol.PlayCardPayload{Card: protocol.CardInfo{Suit: 7, Rank: 3}})
	assert.Equal(t, protocol.ErrCodeInvalidMsg, lastErrorCode(t, alice))

	turn := parse[protocol.PlayTurnPayload](t, alice.Last(protocol.MsgPlayTurn))
	require.NotEmpty(t, turn.Legal)
	send(h, alice, protocol.MsgPlayCard, protocol.PlayCardPayload{Card: turn.Legal[0]})

	played := parse[protocol.CardPlayedPayload](t, bob.Last(protocol.MsgCardPlayed))
	assert.Equal(t, "N", played.Seat)
	assert.Equal(t, turn.Legal[0], played.Card)

	// 同一墩内不能再出
	send(h, alice, protocol.MsgPlayCard, protocol.PlayCardPayload{Card: turn.Legal[0]})
	rejected := parse[protocol.PlayRejectedPayload](t, alice.Last(protocol.MsgPlayRejected))
	assert.Equal(t, "not_your_turn", rejected.Reason)

	turn = parse[protocol.PlayTurnPayload](t, bob.Last(protocol.MsgPlayTurn))
	send(h, bob, protocol.MsgPlayCard, protocol.PlayCardPayload{Card: turn.Legal[0]})
	closed := parse[protocol.TrickClosedPayload](t, alice.Last(protocol.MsgTrickClosed))
	assert.Len(t, closed.Plays, 2)
	assert.Contains(t, []string{"N", "E"}, closed.Winner)

	// 未知座位的客户端
	carol := testutil.NewSimpleClient("p3", "Carol")
	send(h, carol, protocol.MsgPlayCard, protocol.PlayCardPayload{Card: turn.Legal[0]})
	assert.Equal(t, protocol.ErrCodeNotAtTable, lastErrorCode(t, carol))
}

func TestHandleResolve(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, false)
	c := testutil.NewSimpleClient("p1", "Alice")

	// 场景：♠ 为将牌时 E 的 2♠ 胜过 N 的 A♣
	plays := []protocol.PlayInfo{
		{Seat: "N", Card: protocol.CardInfo{Suit: 0, Rank: 14}},
		{Seat: "E", Card: protocol.CardInfo{Suit: 3, Rank: 2}},
		{Seat: "S", Card: protocol.CardInfo{Suit: 0, Rank: 13}},
		{Seat: "W", Card: protocol.CardInfo{Suit: 0, Rank: 12}},
	}
	send(h, c, protocol.MsgResolve, protocol.ResolvePayload{RuleSetID: ruleset.SpadesTrump, Plays: plays})
	result := parse[protocol.ResolveResultPayload](t, c.Last(protocol.MsgResolveResult))
	assert.Equal(t, "E", result.Winner)
	assert.Equal(t, 1, result.WinningIndex)

	send(h, c, protocol.MsgResolve, protocol.ResolvePayload{RuleSetID: ruleset.HighestCard, Plays: plays})
	result = parse[protocol.ResolveResultPayload](t, c.Last(protocol.MsgResolveResult))
	assert.Equal(t, "N", result.Winner)

	send(h, c, protocol.MsgResolve, protocol.ResolvePayload{RuleSetID: "nope", Plays: plays})
	assert.Equal(t, protocol.ErrCodeUnknownRuleSet, lastErrorCode(t, c))

	send(h, c, protocol.MsgResolve, protocol.ResolvePayload{RuleSetID: ruleset.HighestCard})
	assert.Equal(t, protocol.ErrCodeIncompleteTrick, lastErrorCode(t, c))

	dup := []protocol.PlayInfo{plays[0], {Seat: "N", Card: protocol.CardInfo{Suit: 1, Rank: 5}}}
	send(h, c, protocol.MsgResolve, protocol.ResolvePayload{RuleSetID: ruleset.HighestCard, Plays: dup})
	assert.Equal(t, protocol.ErrCodeInvalidTrickShape, lastErrorCode(t, c))
}

func TestResolve_InvalidCard(t *testing.T) {
	t.Parallel()

	_, err := Resolve(game.NewEngine(nil), &protocol.ResolvePayload{
		RuleSetID: ruleset.HighestCard,
		Plays:     []protocol.PlayInfo{{Seat: "N", Card: protocol.CardInfo{Suit: 0, Rank: 99}}},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTrickShape)
}

func TestHandle_MalformedPayload(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, false)
	c := testutil.NewSimpleClient("p1", "Alice")

	for _, mt := range []protocol.MessageType{
		protocol.MsgSelectRuleSet,
		protocol.MsgJoinTable,
		protocol.MsgPlayCard,
		protocol.MsgResolve,
	} {
		c.Reset()
		h.Handle(c, &protocol.Message{Type: mt, Payload: []byte(`"oops"`)})
		assert.Equal(t, protocol.ErrCodeInvalidMsg, lastErrorCode(t, c), "type %s", mt)
	}
}

func TestHandle_StaleTable(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, false)

	isError := func(code int) any {
		return mock.MatchedBy(func(msg *protocol.Message) bool {
			if msg.Type != protocol.MsgError {
				return false
			}
			p, err := codec.ParsePayload[protocol.ErrorPayload](msg)
			return err == nil && p.Code == code
		})
	}

	// 客户端记录的牌桌已被清理
	c := new(testutil.MockClient)
	c.On("GetTable").Return("gone")
	c.On("SendMessage", isError(protocol.ErrCodeTableNotFound)).Twice()

	h.Handle(c, codec.MustNewMessage(protocol.MsgStartTrick, nil))
	h.Handle(c, codec.MustNewMessage(protocol.MsgPlayCard, protocol.PlayCardPayload{Card: protocol.CardInfo{Suit: 0, Rank: 2}}))

	c.AssertExpectations(t)
}
