package table

import (
	"fmt"

	"github.com/palemoky/trick-taking/internal/apperrors"
	"github.com/palemoky/trick-taking/internal/game/card"
	"github.com/palemoky/trick-taking/internal/game/round"
	"github.com/palemoky/trick-taking/internal/game/ruleset"
	"github.com/palemoky/trick-taking/internal/game/trick"
	"github.com/palemoky/trick-taking/internal/protocol"
	"github.com/palemoky/trick-taking/internal/protocol/codec"
	"github.com/palemoky/trick-taking/internal/protocol/convert"
	"github.com/palemoky/trick-taking/internal/types"
)

// SelectRuleSet 为客户端所在牌桌切换规则集。id 为空时按 index（0 起）选择。
// 本墩已有人出牌时拒绝切换。
func (tm *TableManager) SelectRuleSet(client types.ClientInterface, id string, index int) (ruleset.RuleSet, error) {
	if _, err := tm.clientTable(client); err != nil {
		return ruleset.RuleSet{}, err
	}

	engine := tm.opts.Engine
	var (
		rs  ruleset.RuleSet
		err error
	)
	if id != "" {
		rs, err = engine.SelectRuleSet(id)
	} else {
		rs, err = engine.SelectRuleSetAt(index)
	}
	if err != nil {
		return ruleset.RuleSet{}, err
	}

	t, err := tm.lockClientTable(client)
	if err != nil {
		return ruleset.RuleSet{}, err
	}
	if t.round != nil {
		if _, err := engine.ChangeRuleSet(t.round, rs.ID); err != nil {
			t.mu.Unlock()
			return ruleset.RuleSet{}, err
		}
	}
	t.ruleSet = rs
	t.touch()

	idx := indexOf(engine.Registry().List(), rs.ID)
	t.Broadcast(codec.MustNewMessage(protocol.MsgRuleSetSelected, protocol.RuleSetSelectedPayload{
		TableID: t.ID,
		RuleSet: convert.RuleSetToInfo(idx, rs),
	}))
	data := t.toTableData()
	t.mu.Unlock()

	tm.persist(t, data)
	return rs, nil
}

// StartTrick 洗牌、发牌并开始一局；需要所有座位都有人且没有进行中的牌局
func (tm *TableManager) StartTrick(client types.ClientInterface) error {
	t, err := tm.lockClientTable(client)
	if err != nil {
		return err
	}

	if t.round != nil {
		t.mu.Unlock()
		return apperrors.ErrTrickInProgress
	}
	if !t.isFull() {
		t.mu.Unlock()
		return fmt.Errorf("%w: 还有空座位", apperrors.ErrGameNotStart)
	}

	deck := card.NewDeck()
	deck.Shuffle()
	dealt, err := deck.Deal(len(t.Seats), tm.opts.HandSize)
	if err != nil {
		t.mu.Unlock()
		return err
	}
	hands := make(map[trick.Seat][]card.Card, len(t.Seats))
	for i, s := range t.Seats {
		hands[s] = dealt[i]
	}

	r, err := tm.opts.Engine.NewRound(t.ruleSet.ID, round.Config{
		TurnOrder:  t.Seats,
		Hands:      hands,
		LeadPolicy: tm.opts.LeadPolicy,
		Observer:   newLogObserver(t.ID),
	})
	if err != nil {
		t.mu.Unlock()
		return err
	}
	t.round = r
	t.touch()

	for _, s := range t.Seats {
		t.sendHand(s)
	}
	t.announceTurn()
	data := t.toTableData()
	t.mu.Unlock()

	tm.persist(t, data)
	return nil
}

// PlayCard 客户端出一张牌。被拒绝时只通知出牌者，牌局状态不变。
func (tm *TableManager) PlayCard(client types.ClientInterface, c card.Card) (round.State, error) {
	t, err := tm.lockClientTable(client)
	if err != nil {
		return round.State{}, err
	}

	seat, ok := t.seatOf(client.GetID())
	if !ok {
		t.mu.Unlock()
		return round.State{}, apperrors.ErrNotAtTable
	}
	if t.round == nil {
		t.mu.Unlock()
		return round.State{}, apperrors.ErrGameNotStart
	}

	st := tm.opts.Engine.SubmitPlay(t.round, seat, c)
	if st.Kind == round.Rejected {
		client.SendMessage(codec.MustNewMessage(protocol.MsgPlayRejected,
			convert.StateToRejected(st, seat, convert.CardToInfo(c))))
		t.mu.Unlock()
		return st, nil
	}

	t.touch()
	t.Broadcast(codec.MustNewMessage(protocol.MsgCardPlayed, protocol.CardPlayedPayload{
		Seat: string(seat),
		Card: convert.CardToInfo(c),
	}))

	if st.Kind == round.TrickClosed {
		t.Broadcast(codec.MustNewMessage(protocol.MsgTrickClosed,
			convert.StateToTrickClosed(st, t.round.RuleSet(), t.round.TricksPlayed())))
	}

	if t.round.Exhausted() {
		t.Broadcast(codec.MustNewMessage(protocol.MsgRoundOver, protocol.RoundOverPayload{
			TricksPlayed: t.round.TricksPlayed(),
		}))
		t.round = nil
	} else {
		t.announceTurn()
	}
	data := t.toTableData()
	t.mu.Unlock()

	tm.persist(t, data)
	return st, nil
}

// sendHand 把手牌发给座位上的玩家（调用方持有锁）
func (t *Table) sendHand(seat trick.Seat) {
	hand := t.round.Hand(seat)
	card.Sort(hand)
	leader, ok := t.round.Trick().Leader()
	if !ok {
		leader = t.round.CurrentSeat()
	}
	t.sendTo(seat, codec.MustNewMessage(protocol.MsgHandDealt, protocol.HandDealtPayload{
		Seat:   string(seat),
		Cards:  convert.CardsToInfos(hand),
		Leader: string(leader),
	}))
}

// announceTurn 广播轮到谁出牌，当前座位额外收到可出的牌（调用方持有锁）
func (t *Table) announceTurn() {
	seat := t.round.CurrentSeat()
	t.sendTo(seat, codec.MustNewMessage(protocol.MsgPlayTurn, protocol.PlayTurnPayload{
		Seat:  string(seat),
		Legal: convert.CardsToInfos(t.round.LegalPlays(seat)),
	}))

	turn := codec.MustNewMessage(protocol.MsgPlayTurn, protocol.PlayTurnPayload{Seat: string(seat)})
	for s, p := range t.Players {
		if s != seat && p.Client != nil {
			p.Client.SendMessage(turn)
		}
	}
}

func indexOf(sets []ruleset.RuleSet, id string) int {
	for i, rs := range sets {
		if rs.ID == id {
			return i
		}
	}
	return -1
}
