package round

import (
	"fmt"
	"strings"

	"github.com/palemoky/trick-taking/internal/game/card"
	"github.com/palemoky/trick-taking/internal/game/rule"
	"github.com/palemoky/trick-taking/internal/game/trick"
)

// Kind 出牌后的状态类型
type Kind int

const (
	AwaitingPlay Kind = iota // 等待某座位出牌
	Rejected                 // 出牌被拒绝，状态不变
	TrickClosed              // 一墩结束，已结算赢家
)

// kindNames 状态名称映射表
var kindNames = map[Kind]string{
	AwaitingPlay: "awaiting_play",
	Rejected:     "rejected",
	TrickClosed:  "trick_closed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// State 提交出牌后的结果
type State struct {
	Kind Kind
	// Seat 下一个应出牌的座位（Rejected 时仍是原座位；TrickClosed 时是下一墩首家）
	Seat   trick.Seat
	Winner trick.Seat  // 仅 TrickClosed
	Closed trick.Trick // 仅 TrickClosed：刚结束的这一墩
	Reason rule.Reason // 仅 Rejected 且由出牌规则拒绝时
	Err    error       // 仅 Rejected
}

func (s State) String() string {
	switch s.Kind {
	case Rejected:
		return fmt.Sprintf("rejected(%s: %v)", s.Seat, s.Err)
	case TrickClosed:
		return fmt.Sprintf("trick_closed(%s)", s.Winner)
	}
	return fmt.Sprintf("awaiting_play(%s)", s.Seat)
}

// LeadPolicy 下一墩由谁先出
type LeadPolicy int

const (
	WinnerLeads LeadPolicy = iota // 赢家先出（标准约定）
	RotateLeads                   // 按座位顺序轮流先出
)

func (p LeadPolicy) String() string {
	if p == RotateLeads {
		return "rotate"
	}
	return "winner"
}

// ParseLeadPolicy 解析配置中的首出约定
func ParseLeadPolicy(s string) (LeadPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "winner":
		return WinnerLeads, nil
	case "rotate":
		return RotateLeads, nil
	}
	return WinnerLeads, fmt.Errorf("未知的首出约定: %q", s)
}

// Observer 可选的旁路通知（日志、统计等由调用方注入）
type Observer interface {
	PlayAccepted(seat trick.Seat, c card.Card)
	PlayRejected(seat trick.Seat, c card.Card, err error)
	TrickClosed(closed trick.Trick, winner trick.Seat)
}

type noopObserver struct{}

func (noopObserver) PlayAccepted(trick.Seat, card.Card)        {}
func (noopObserver) PlayRejected(trick.Seat, card.Card, error) {}
func (noopObserver) TrickClosed(trick.Trick, trick.Seat)       {}
