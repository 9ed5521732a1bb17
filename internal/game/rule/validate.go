package rule

import (
	"fmt"

	"github.com/palemoky/trick-taking/internal/apperrors"
	"github.com/palemoky/trick-taking/internal/game/card"
	"github.com/palemoky/trick-taking/internal/game/ruleset"
	"github.com/palemoky/trick-taking/internal/game/trick"
)

// Reason 出牌被拒绝的原因
type Reason int

const (
	ReasonNone Reason = iota
	CardNotInHand
	MustFollowSuit
)

// reasonNames 原因名称映射表
var reasonNames = map[Reason]string{
	ReasonNone:     "none",
	CardNotInHand:  "card_not_in_hand",
	MustFollowSuit: "must_follow_suit",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// Rejection 出牌被拒绝
type Rejection struct {
	Reason Reason
	Card   card.Card
	Lead   card.Suit // 仅 MustFollowSuit 时有意义
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case CardNotInHand:
		return fmt.Sprintf("%s: %s", apperrors.ErrCardNotInHand.Message, r.Card)
	case MustFollowSuit:
		return fmt.Sprintf("%s %s，不能出 %s", apperrors.ErrMustFollowSuit.Message, r.Lead, r.Card)
	}
	return "出牌无效"
}

func (r *Rejection) Unwrap() error {
	switch r.Reason {
	case CardNotInHand:
		return apperrors.ErrCardNotInHand
	case MustFollowSuit:
		return apperrors.ErrMustFollowSuit
	}
	return nil
}

// check 单条校验：decided 为 true 时 err 即为最终结论
type check func(c card.Card, hand []card.Card, t trick.Trick, rs ruleset.RuleSet) (decided bool, err error)

// checks 按顺序执行，第一条给出结论的规则生效
var checks = []check{
	checkInHand,     // 必须是手里的牌
	checkLead,       // 首家任意出牌
	checkFollowSuit, // 有首引花色必须跟出；缺门可任意出（含将牌）
}

// Validate 判断一次出牌是否合法，nil 表示合法。
// 纯函数，不修改手牌和牌墩。
func Validate(c card.Card, hand []card.Card, t trick.Trick, rs ruleset.RuleSet) error {
	for _, chk := range checks {
		if decided, err := chk(c, hand, t, rs); decided {
			return err
		}
	}
	return nil
}

func checkInHand(c card.Card, hand []card.Card, _ trick.Trick, _ ruleset.RuleSet) (bool, error) {
	if !card.Contains(hand, c) {
		return true, &Rejection{Reason: CardNotInHand, Card: c}
	}
	return false, nil
}

func checkLead(_ card.Card, _ []card.Card, t trick.Trick, _ ruleset.RuleSet) (bool, error) {
	if t.IsEmpty() {
		return true, nil
	}
	return false, nil
}

func checkFollowSuit(c card.Card, hand []card.Card, t trick.Trick, rs ruleset.RuleSet) (bool, error) {
	if !rs.FollowSuitRequired {
		return true, nil
	}
	lead, _ := t.LeadSuit()
	if c.Suit != lead && card.HasSuit(hand, lead) {
		return true, &Rejection{Reason: MustFollowSuit, Card: c, Lead: lead}
	}
	return true, nil
}

// LegalPlays 返回手牌中当前可以合法打出的牌
func LegalPlays(hand []card.Card, t trick.Trick, rs ruleset.RuleSet) []card.Card {
	var legal []card.Card
	for _, c := range hand {
		if Validate(c, hand, t, rs) == nil {
			legal = append(legal, c)
		}
	}
	return legal
}
