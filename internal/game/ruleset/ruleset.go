// Package ruleset 定义出牌规则集及其注册表。
//
// 规则集是纯数据：是否必须跟花色、是否有将牌花色。结算器只根据这些字段组合策略，
// 新增规则集只需提供新的字段值。
package ruleset

import (
	"fmt"

	"github.com/palemoky/trick-taking/internal/apperrors"
	"github.com/palemoky/trick-taking/internal/game/card"
)

// 内置规则集 ID
const (
	HighestCard = "highest-card"
	SuitFollows = "suit-follows"
	SpadesTrump = "spades-trump"
)

// RuleSet 规则集（不可变配置）
type RuleSet struct {
	ID                 string
	Name               string
	Description        string
	FollowSuitRequired bool
	TrumpSuit          *card.Suit // nil 表示无将牌
}

// HasTrump 是否有将牌
func (rs RuleSet) HasTrump() bool {
	return rs.TrumpSuit != nil
}

// Trump 返回将牌花色
func (rs RuleSet) Trump() (card.Suit, bool) {
	if rs.TrumpSuit == nil {
		return 0, false
	}
	return *rs.TrumpSuit, true
}

// IsTrump 判断一张牌是否是将牌
func (rs RuleSet) IsTrump(c card.Card) bool {
	return rs.TrumpSuit != nil && c.Suit == *rs.TrumpSuit
}

func (rs RuleSet) String() string {
	return rs.ID
}

// clone 深拷贝；注册表只对外交出副本，调用方改动将牌不会影响其他牌桌
func (rs RuleSet) clone() RuleSet {
	if rs.TrumpSuit != nil {
		rs.TrumpSuit = WithTrump(*rs.TrumpSuit)
	}
	return rs
}

// WithTrump 返回将牌花色指针，便于构造规则集
func WithTrump(s card.Suit) *card.Suit {
	return &s
}

// Builtin 返回三个内置规则集，按注册顺序
func Builtin() []RuleSet {
	return []RuleSet{
		{
			ID:          HighestCard,
			Name:        "Highest Card Wins",
			Description: "点数最大的牌赢得这一墩，不看花色",
		},
		{
			ID:                 SuitFollows,
			Name:               "Suit Follows",
			Description:        "有首引花色必须跟出，首引花色中点数最大者赢",
			FollowSuitRequired: true,
		},
		{
			ID:                 SpadesTrump,
			Name:               "Spades Trump",
			Description:        "必须跟花色，黑桃为将牌，任意黑桃大过其他花色",
			FollowSuitRequired: true,
			TrumpSuit:          WithTrump(card.Spades),
		},
	}
}

// UnknownRuleSetError 规则集不存在
type UnknownRuleSetError struct {
	ID string
}

func (e *UnknownRuleSetError) Error() string {
	return fmt.Sprintf("%s: %q", apperrors.ErrUnknownRuleSet.Message, e.ID)
}

func (e *UnknownRuleSetError) Unwrap() error {
	return apperrors.ErrUnknownRuleSet
}
