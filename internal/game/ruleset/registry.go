package ruleset

import (
	"errors"
	"fmt"
)

// Registry 规则集注册表。构建后只读，可在多个牌桌间并发共享。
type Registry struct {
	order []RuleSet
	byID  map[string]int
}

// NewRegistry 按给定顺序注册规则集
func NewRegistry(sets ...RuleSet) (*Registry, error) {
	r := &Registry{
		order: make([]RuleSet, 0, len(sets)),
		byID:  make(map[string]int, len(sets)),
	}
	for _, rs := range sets {
		if rs.ID == "" {
			return nil, errors.New("规则集 ID 不能为空")
		}
		if _, exists := r.byID[rs.ID]; exists {
			return nil, fmt.Errorf("规则集 ID 重复: %q", rs.ID)
		}
		if rs.TrumpSuit != nil && !rs.TrumpSuit.IsValid() {
			return nil, fmt.Errorf("规则集 %q 的将牌花色无效", rs.ID)
		}
		// 复制将牌指针，注册后外部修改不影响注册表
		r.byID[rs.ID] = len(r.order)
		r.order = append(r.order, rs.clone())
	}
	return r, nil
}

// Default 只包含内置规则集的注册表
func Default() *Registry {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve 根据 ID 查找规则集
func (r *Registry) Resolve(id string) (RuleSet, error) {
	idx, ok := r.byID[id]
	if !ok {
		return RuleSet{}, &UnknownRuleSetError{ID: id}
	}
	return r.order[idx].clone(), nil
}

// List 按注册顺序返回所有规则集的副本
func (r *Registry) List() []RuleSet {
	out := make([]RuleSet, len(r.order))
	for i, rs := range r.order {
		out[i] = rs.clone()
	}
	return out
}

// At 按位置选择规则集（0 起），与 List 的顺序一一对应
func (r *Registry) At(index int) (RuleSet, error) {
	if index < 0 || index >= len(r.order) {
		return RuleSet{}, &UnknownRuleSetError{ID: fmt.Sprintf("#%d", index)}
	}
	return r.order[index].clone(), nil
}

// Len 规则集数量
func (r *Registry) Len() int {
	return len(r.order)
}
