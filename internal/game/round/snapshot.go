package round

import (
	"fmt"
	"slices"

	"github.com/palemoky/trick-taking/internal/game/card"
	"github.com/palemoky/trick-taking/internal/game/ruleset"
	"github.com/palemoky/trick-taking/internal/game/trick"
)

// Snapshot Round 的纯数据快照，用于持久化和传输
type Snapshot struct {
	RuleSetID    string
	TurnOrder    []trick.Seat
	Hands        map[trick.Seat][]card.Card
	Plays        []trick.Play
	Leader       trick.Seat
	Turn         trick.Seat
	LeadPolicy   LeadPolicy
	TricksPlayed int
}

// Snapshot 导出当前状态
func (r *Round) Snapshot() Snapshot {
	hands := make(map[trick.Seat][]card.Card, len(r.hands))
	for s, h := range r.hands {
		hands[s] = slices.Clone(h)
	}
	return Snapshot{
		RuleSetID:    r.ruleSet.ID,
		TurnOrder:    slices.Clone(r.turnOrder),
		Hands:        hands,
		Plays:        slices.Clone(r.trick.Plays),
		Leader:       r.turnOrder[r.leader],
		Turn:         r.turnOrder[r.turn],
		LeadPolicy:   r.leadPolicy,
		TricksPlayed: r.tricksPlayed,
	}
}

// Restore 从快照重建 Round，规则集由注册表解析
func Restore(snap Snapshot, registry *ruleset.Registry, observer Observer) (*Round, error) {
	rs, err := registry.Resolve(snap.RuleSetID)
	if err != nil {
		return nil, err
	}

	// 已出的牌需放回手牌参与重复校验，再按原顺序重放
	hands := make(map[trick.Seat][]card.Card, len(snap.Hands))
	for s, h := range snap.Hands {
		hands[s] = slices.Clone(h)
	}
	for _, p := range snap.Plays {
		hands[p.Seat] = append(hands[p.Seat], p.Card)
	}

	r, err := New(Config{
		RuleSet:    rs,
		TurnOrder:  snap.TurnOrder,
		Hands:      hands,
		Leader:     snap.Leader,
		LeadPolicy: snap.LeadPolicy,
		Observer:   observer,
	})
	if err != nil {
		return nil, err
	}

	// 重放期间不通知观察者
	r.observer = noopObserver{}
	for _, p := range snap.Plays {
		if st := r.Submit(p.Seat, p.Card); st.Kind != AwaitingPlay {
			return nil, fmt.Errorf("快照重放失败: %s", st)
		}
	}
	if r.CurrentSeat() != snap.Turn {
		return nil, fmt.Errorf("快照不一致: 应由 %s 出牌，重放后为 %s", snap.Turn, r.CurrentSeat())
	}
	r.tricksPlayed = snap.TricksPlayed
	if observer != nil {
		r.observer = observer
	}
	return r, nil
}
