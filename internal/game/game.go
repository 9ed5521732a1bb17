// Package game 是出牌引擎对外的入口：列出/选择规则集、提交出牌、单独结算一墩。
// 展示层（终端界面、WebSocket、HTTP）只通过这里调用引擎。
package game

import (
	"github.com/palemoky/trick-taking/internal/game/card"
	"github.com/palemoky/trick-taking/internal/game/round"
	"github.com/palemoky/trick-taking/internal/game/rule"
	"github.com/palemoky/trick-taking/internal/game/ruleset"
	"github.com/palemoky/trick-taking/internal/game/trick"
)

// RuleSetInfo 规则集的展示信息
type RuleSetInfo struct {
	ID          string
	Name        string
	Description string
}

// Engine 无状态，只持有只读的规则集注册表，可在多个牌桌间共享
type Engine struct {
	registry *ruleset.Registry
}

// NewEngine 创建引擎；registry 为 nil 时使用内置规则集
func NewEngine(registry *ruleset.Registry) *Engine {
	if registry == nil {
		registry = ruleset.Default()
	}
	return &Engine{registry: registry}
}

// Registry 返回规则集注册表
func (e *Engine) Registry() *ruleset.Registry {
	return e.registry
}

// ListRuleSets 按注册顺序列出规则集，下标与界面上的选择位置一一对应
func (e *Engine) ListRuleSets() []RuleSetInfo {
	sets := e.registry.List()
	infos := make([]RuleSetInfo, len(sets))
	for i, rs := range sets {
		infos[i] = RuleSetInfo{ID: rs.ID, Name: rs.Name, Description: rs.Description}
	}
	return infos
}

// SelectRuleSet 按 ID 选择规则集
func (e *Engine) SelectRuleSet(id string) (ruleset.RuleSet, error) {
	return e.registry.Resolve(id)
}

// SelectRuleSetAt 按位置选择规则集（0 起）
func (e *Engine) SelectRuleSetAt(index int) (ruleset.RuleSet, error) {
	return e.registry.At(index)
}

// NewRound 用指定规则集开始一个牌局
func (e *Engine) NewRound(ruleSetID string, cfg round.Config) (*round.Round, error) {
	rs, err := e.registry.Resolve(ruleSetID)
	if err != nil {
		return nil, err
	}
	cfg.RuleSet = rs
	return round.New(cfg)
}

// SubmitPlay 提交出牌
func (e *Engine) SubmitPlay(r *round.Round, seat trick.Seat, c card.Card) round.State {
	return r.Submit(seat, c)
}

// ChangeRuleSet 为进行中的牌局切换规则集；本墩已有人出牌时拒绝，原规则集保持不变
func (e *Engine) ChangeRuleSet(r *round.Round, id string) (ruleset.RuleSet, error) {
	rs, err := e.registry.Resolve(id)
	if err != nil {
		return ruleset.RuleSet{}, err
	}
	if err := r.SelectRuleSet(rs); err != nil {
		return ruleset.RuleSet{}, err
	}
	return rs, nil
}

// ResolveWinner 结算一墩牌，不依赖进行中的牌局
func (e *Engine) ResolveWinner(t trick.Trick, rs ruleset.RuleSet) (trick.Seat, error) {
	return rule.ResolveWinner(t, rs)
}
