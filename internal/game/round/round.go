// Package round 协调一墩牌的出牌流程：按顺序接收出牌、校验、入墩，满墩时结算赢家并开始下一墩。
//
// Round 没有内部并发，也不加锁；同一时刻只能由一个调用方持有（例如一张牌桌）。
package round

import (
	"errors"
	"fmt"
	"slices"

	"github.com/palemoky/trick-taking/internal/apperrors"
	"github.com/palemoky/trick-taking/internal/game/card"
	"github.com/palemoky/trick-taking/internal/game/rule"
	"github.com/palemoky/trick-taking/internal/game/ruleset"
	"github.com/palemoky/trick-taking/internal/game/trick"
)

// Config 创建 Round 的参数
type Config struct {
	RuleSet    ruleset.RuleSet
	TurnOrder  []trick.Seat
	Hands      map[trick.Seat][]card.Card
	Leader     trick.Seat // 为空时由 TurnOrder[0] 先出
	LeadPolicy LeadPolicy
	Observer   Observer
}

// Round 一桌的出牌状态
type Round struct {
	ruleSet    ruleset.RuleSet
	turnOrder  []trick.Seat
	hands      map[trick.Seat][]card.Card
	trick      trick.Trick
	leader     int // 本墩首家在 turnOrder 中的下标
	turn       int // 当前应出牌座位的下标
	leadPolicy LeadPolicy
	observer   Observer

	lastTrick    *trick.Trick
	lastWinner   trick.Seat
	tricksPlayed int
}

// New 创建 Round，校验座位和手牌
func New(cfg Config) (*Round, error) {
	if len(cfg.TurnOrder) < 2 {
		return nil, errors.New("至少需要两个座位")
	}
	seen := make(map[trick.Seat]bool, len(cfg.TurnOrder))
	for _, s := range cfg.TurnOrder {
		if s == "" {
			return nil, errors.New("座位标识不能为空")
		}
		if seen[s] {
			return nil, fmt.Errorf("座位重复: %s", s)
		}
		seen[s] = true
	}

	hands := make(map[trick.Seat][]card.Card, len(cfg.TurnOrder))
	dealt := make(map[card.Card]trick.Seat)
	for _, s := range cfg.TurnOrder {
		hand, ok := cfg.Hands[s]
		if !ok {
			return nil, fmt.Errorf("座位 %s 没有手牌", s)
		}
		for _, c := range hand {
			if !c.IsValid() {
				return nil, fmt.Errorf("座位 %s 的牌无效: %v", s, c)
			}
			if owner, dup := dealt[c]; dup {
				return nil, fmt.Errorf("牌 %s 同时出现在 %s 和 %s", c, owner, s)
			}
			dealt[c] = s
		}
		hands[s] = slices.Clone(hand)
	}
	for s := range cfg.Hands {
		if !seen[s] {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownSeat, s)
		}
	}

	leader := 0
	if cfg.Leader != "" {
		leader = slices.Index(cfg.TurnOrder, cfg.Leader)
		if leader < 0 {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownSeat, cfg.Leader)
		}
	}

	observer := cfg.Observer
	if observer == nil {
		observer = noopObserver{}
	}

	return &Round{
		ruleSet:    cfg.RuleSet,
		turnOrder:  slices.Clone(cfg.TurnOrder),
		hands:      hands,
		trick:      trick.New(len(cfg.TurnOrder)),
		leader:     leader,
		turn:       leader,
		leadPolicy: cfg.LeadPolicy,
		observer:   observer,
	}, nil
}

// Submit 提交一次出牌。被拒绝时状态不变。
func (r *Round) Submit(seat trick.Seat, c card.Card) State {
	idx := slices.Index(r.turnOrder, seat)
	if idx < 0 {
		return r.reject(seat, c, fmt.Errorf("%w: %s", apperrors.ErrUnknownSeat, seat))
	}
	if idx != r.turn {
		return r.reject(seat, c, fmt.Errorf("%w: 应由 %s 出牌", apperrors.ErrNotYourTurn, r.turnOrder[r.turn]))
	}

	hand := r.hands[seat]
	if err := rule.Validate(c, hand, r.trick, r.ruleSet); err != nil {
		return r.reject(seat, c, err)
	}

	next := r.trick.Append(trick.Play{Seat: seat, Card: c})
	if !next.IsClosed() {
		r.accept(seat, c, next)
		r.turn = (r.turn + 1) % len(r.turnOrder)
		return State{Kind: AwaitingPlay, Seat: r.turnOrder[r.turn]}
	}

	// 先结算再落地，结算失败时状态保持不变
	winner, err := rule.ResolveWinner(next, r.ruleSet)
	if err != nil {
		return r.reject(seat, c, err)
	}
	r.accept(seat, c, next)
	r.closeTrick(next, winner)

	return State{Kind: TrickClosed, Seat: r.turnOrder[r.turn], Winner: winner, Closed: next}
}

func (r *Round) accept(seat trick.Seat, c card.Card, next trick.Trick) {
	r.hands[seat], _ = card.Remove(r.hands[seat], c)
	r.trick = next
	r.observer.PlayAccepted(seat, c)
}

func (r *Round) reject(seat trick.Seat, c card.Card, err error) State {
	r.observer.PlayRejected(seat, c, err)
	st := State{Kind: Rejected, Seat: r.turnOrder[r.turn], Err: err}
	var rej *rule.Rejection
	if errors.As(err, &rej) {
		st.Reason = rej.Reason
	}
	return st
}

// closeTrick 归档已结束的墩并按首出约定开始新墩
func (r *Round) closeTrick(closed trick.Trick, winner trick.Seat) {
	r.lastTrick = &closed
	r.lastWinner = winner
	r.tricksPlayed++

	switch r.leadPolicy {
	case RotateLeads:
		r.leader = (r.leader + 1) % len(r.turnOrder)
	default:
		r.leader = slices.Index(r.turnOrder, winner)
	}
	r.turn = r.leader
	r.trick = trick.New(len(r.turnOrder))

	r.observer.TrickClosed(closed, winner)
}

// SelectRuleSet 切换规则集，仅允许在本墩还没人出牌时
func (r *Round) SelectRuleSet(rs ruleset.RuleSet) error {
	if !r.trick.IsEmpty() {
		return apperrors.ErrTrickInProgress
	}
	r.ruleSet = rs
	return nil
}

// Current 当前状态（等待谁出牌）
func (r *Round) Current() State {
	return State{Kind: AwaitingPlay, Seat: r.turnOrder[r.turn]}
}

// CurrentSeat 当前应出牌的座位
func (r *Round) CurrentSeat() trick.Seat {
	return r.turnOrder[r.turn]
}

// RuleSet 当前规则集
func (r *Round) RuleSet() ruleset.RuleSet {
	return r.ruleSet
}

// Trick 当前墩（副本）
func (r *Round) Trick() trick.Trick {
	return trick.Trick{Size: r.trick.Size, Plays: slices.Clone(r.trick.Plays)}
}

// Hand 座位手牌（副本）
func (r *Round) Hand(seat trick.Seat) []card.Card {
	return slices.Clone(r.hands[seat])
}

// TurnOrder 座位顺序（副本）
func (r *Round) TurnOrder() []trick.Seat {
	return slices.Clone(r.turnOrder)
}

// LegalPlays 座位当前可出的牌；未轮到该座位时返回 nil
func (r *Round) LegalPlays(seat trick.Seat) []card.Card {
	if seat != r.turnOrder[r.turn] {
		return nil
	}
	return rule.LegalPlays(r.hands[seat], r.trick, r.ruleSet)
}

// LastTrick 上一墩及其赢家
func (r *Round) LastTrick() (trick.Trick, trick.Seat, bool) {
	if r.lastTrick == nil {
		return trick.Trick{}, "", false
	}
	return *r.lastTrick, r.lastWinner, true
}

// TricksPlayed 已结束的墩数
func (r *Round) TricksPlayed() int {
	return r.tricksPlayed
}

// Exhausted 所有手牌都已打完且当前墩为空
func (r *Round) Exhausted() bool {
	if !r.trick.IsEmpty() {
		return false
	}
	for _, h := range r.hands {
		if len(h) > 0 {
			return false
		}
	}
	return true
}
