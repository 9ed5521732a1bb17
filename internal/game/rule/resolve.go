package rule

import (
	"fmt"

	"github.com/palemoky/trick-taking/internal/apperrors"
	"github.com/palemoky/trick-taking/internal/game/card"
	"github.com/palemoky/trick-taking/internal/game/ruleset"
	"github.com/palemoky/trick-taking/internal/game/trick"
)

// Policy 从一墩牌中挑出赢家下标；不适用时返回 false，交给下一条策略
type Policy func(plays []trick.Play, lead card.Suit) (int, bool)

// Cascade 根据规则集字段组合策略，顺序固定为：将牌 → 跟花色 → 最大点数。
// 将牌必须先于跟花色判断，否则缺门将吃的牌会被当作垫牌。
func Cascade(rs ruleset.RuleSet) []Policy {
	policies := make([]Policy, 0, 3)
	if trump, ok := rs.Trump(); ok {
		policies = append(policies, TrumpPolicy(trump))
	}
	if rs.FollowSuitRequired {
		policies = append(policies, FollowSuitPolicy())
	}
	return append(policies, HighestPolicy())
}

// TrumpPolicy 有将牌时，将牌中点数最大者赢
func TrumpPolicy(trump card.Suit) Policy {
	return func(plays []trick.Play, _ card.Suit) (int, bool) {
		return highestWhere(plays, func(c card.Card) bool { return c.Suit == trump })
	}
}

// FollowSuitPolicy 首引花色中点数最大者赢，垫牌不参与比较
func FollowSuitPolicy() Policy {
	return func(plays []trick.Play, lead card.Suit) (int, bool) {
		return highestWhere(plays, func(c card.Card) bool { return c.Suit == lead })
	}
}

// HighestPolicy 不看花色，点数最大者赢
func HighestPolicy() Policy {
	return func(plays []trick.Play, _ card.Suit) (int, bool) {
		return highestWhere(plays, func(card.Card) bool { return true })
	}
}

// highestWhere 在满足条件的牌中找点数最大者；点数相同时先出者赢
func highestWhere(plays []trick.Play, match func(card.Card) bool) (int, bool) {
	best := -1
	for i, p := range plays {
		if !match(p.Card) {
			continue
		}
		if best < 0 || card.CompareRank(p.Card, plays[best].Card) > 0 {
			best = i
		}
	}
	return best, best >= 0
}

// WinningIndex 返回赢家在墩中的下标
func WinningIndex(t trick.Trick, rs ruleset.RuleSet) (int, error) {
	if t.Size <= 0 || t.Len() != t.Size {
		return -1, fmt.Errorf("%w: %d/%d", apperrors.ErrIncompleteTrick, t.Len(), t.Size)
	}
	if err := t.CheckShape(); err != nil {
		return -1, err
	}

	lead, _ := t.LeadSuit()
	for _, policy := range Cascade(rs) {
		if idx, ok := policy(t.Plays, lead); ok {
			return idx, nil
		}
	}
	// HighestPolicy 对非空墩总会给出结果
	return -1, fmt.Errorf("%w: 无法确定赢家", apperrors.ErrInvalidTrickShape)
}

// ResolveWinner 结算一墩牌的赢家座位。纯函数，可脱离牌局单独用于回放。
func ResolveWinner(t trick.Trick, rs ruleset.RuleSet) (trick.Seat, error) {
	idx, err := WinningIndex(t, rs)
	if err != nil {
		return "", err
	}
	return t.Plays[idx].Seat, nil
}
