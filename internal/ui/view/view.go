// Package view provides UI rendering functions.
// 渲染函数只接收展示数据，不依赖 model 包。
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/trick-taking/internal/game/card"
	"github.com/palemoky/trick-taking/internal/game/trick"
	"github.com/palemoky/trick-taking/internal/ui/common"
)

// RuleSetItem 选择列表中的一项
type RuleSetItem struct {
	Index       int // 从 1 开始
	Name        string
	Description string
	Selected    bool
}

// PickerProps 规则集选择页
type PickerProps struct {
	RuleSets []RuleSetItem
	Input    string
	Error    string
	Width    int
}

// SeatProps 一个座位的概要
type SeatProps struct {
	Seat    trick.Seat
	Cards   int
	Tricks  int
	Current bool
}

// TableProps 出牌页
type TableProps struct {
	RuleSetName string
	Trump       string
	Seats       []SeatProps
	Trick       []trick.Play
	LastTrick   []trick.Play
	LastWinner  trick.Seat
	Turn        trick.Seat
	Hand        []card.Card
	Legal       []card.Card
	Message     string
	Error       string
	Input       string
	Width       int
}

// PickerView 规则集列表，按位置编号
func PickerView(p PickerProps) string {
	var sb strings.Builder

	sb.WriteString(center(p.Width, common.TitleStyle("🃏 选择规则集")))
	sb.WriteString("\n\n")

	var list strings.Builder
	for _, rs := range p.RuleSets {
		marker := "  "
		if rs.Selected {
			marker = common.TurnIcon
		}
		fmt.Fprintf(&list, "%s %d. %s\n", marker, rs.Index, rs.Name)
		if rs.Description != "" {
			list.WriteString(common.HintStyle.Render("      "+rs.Description) + "\n")
		}
	}
	sb.WriteString(center(p.Width, common.BoxStyle.Render(strings.TrimRight(list.String(), "\n"))))
	sb.WriteString("\n")

	sb.WriteString(center(p.Width, common.PromptStyle.Render(p.Input)))
	if p.Error != "" {
		sb.WriteString("\n")
		sb.WriteString(center(p.Width, common.ErrorStyle.Render(p.Error)))
	}
	sb.WriteString("\n")
	sb.WriteString(center(p.Width, common.HintStyle.Render(fmt.Sprintf("输入 1-%d 回车开局，esc 退出", len(p.RuleSets)))))
	return sb.String()
}

// TableView 出牌页：座位、当前墩、当前玩家的手牌和提示
func TableView(p TableProps) string {
	var sb strings.Builder

	title := "规则: " + p.RuleSetName
	if p.Trump != "" {
		title += fmt.Sprintf("  %s 将牌: %s", common.TrumpIcon, p.Trump)
	}
	sb.WriteString(center(p.Width, common.TitleStyle(title)))
	sb.WriteString("\n")

	sb.WriteString(center(p.Width, renderSeats(p.Seats)))
	sb.WriteString("\n")

	sb.WriteString(center(p.Width, renderTrick("本墩", p.Trick, "")))
	if len(p.LastTrick) > 0 {
		sb.WriteString("\n")
		sb.WriteString(center(p.Width, renderTrick("上一墩", p.LastTrick, p.LastWinner)))
	}
	sb.WriteString("\n")

	sb.WriteString(center(p.Width, renderHand(p.Turn, p.Hand, p.Legal)))
	sb.WriteString("\n")

	if p.Message != "" {
		sb.WriteString(center(p.Width, common.SuccessStyle.Render(p.Message)))
		sb.WriteString("\n")
	}
	if p.Error != "" {
		sb.WriteString(center(p.Width, common.ErrorStyle.Render(p.Error)))
		sb.WriteString("\n")
	}
	sb.WriteString(center(p.Width, common.PromptStyle.Render(p.Input)))
	sb.WriteString("\n")
	sb.WriteString(center(p.Width, common.HintStyle.Render("输入牌面出牌，如 7c、10h、Qs；r <序号> 切换规则；esc 退出")))
	return sb.String()
}

// RoundOverView 手牌出完后的赢墩统计
func RoundOverView(seats []SeatProps, message string, width int) string {
	var sb strings.Builder
	sb.WriteString(center(width, common.TitleStyle("🎉 本局结束")))
	sb.WriteString("\n\n")

	best := 0
	for _, s := range seats {
		best = max(best, s.Tricks)
	}
	var list strings.Builder
	for _, s := range seats {
		icon := "  "
		if s.Tricks == best && best > 0 {
			icon = common.WinnerIcon
		}
		fmt.Fprintf(&list, "%s %-3s 赢 %d 墩\n", icon, s.Seat, s.Tricks)
	}
	sb.WriteString(center(width, common.BoxStyle.Render(strings.TrimRight(list.String(), "\n"))))
	sb.WriteString("\n")
	if message != "" {
		sb.WriteString(center(width, common.SuccessStyle.Render(message)))
		sb.WriteString("\n")
	}
	sb.WriteString(center(width, common.HintStyle.Render("回车重新选择规则集，esc 退出")))
	return sb.String()
}

func renderSeats(seats []SeatProps) string {
	boxes := make([]string, len(seats))
	for i, s := range seats {
		content := fmt.Sprintf("%s\n%d 张 | 赢 %d 墩", common.TruncateName(string(s.Seat), 8), s.Cards, s.Tricks)
		style := common.BoxStyle
		if s.Current {
			content = common.TurnIcon + " " + content
			style = common.ActiveBox
		}
		boxes[i] = style.Padding(0, 1).Render(content)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func renderTrick(title string, plays []trick.Play, winner trick.Seat) string {
	if len(plays) == 0 {
		return common.BoxStyle.Render(title + ": (空)")
	}
	parts := make([]string, len(plays))
	for i, p := range plays {
		label := string(p.Seat) + " "
		if winner != "" && p.Seat == winner {
			label = common.WinnerIcon + label
		}
		parts[i] = label + common.CardStyle(p.Card, false).Render(fmt.Sprintf("%-3s", p.Card.String()))
	}
	return common.BoxStyle.Render(title + ": " + strings.Join(parts, "  "))
}

// renderHand 当前玩家的手牌，不能出的牌置灰
func renderHand(seat trick.Seat, hand []card.Card, legal []card.Card) string {
	if len(hand) == 0 {
		return common.BoxStyle.Render("(无手牌)")
	}

	var rankStr, suitStr strings.Builder
	for _, c := range hand {
		style := common.CardStyle(c, !card.Contains(legal, c)).Align(lipgloss.Center).Margin(0, 1)
		rankStr.WriteString(style.Render(fmt.Sprintf("%-2s", c.Rank.String())))
		suitStr.WriteString(style.Render(fmt.Sprintf("%-2s", c.Suit.String())))
	}

	title := fmt.Sprintf("%s 的手牌 (%d张，可出 %d 张)", seat, len(hand), len(legal))
	content := lipgloss.JoinVertical(lipgloss.Center, title, rankStr.String(), suitStr.String())
	return common.BoxStyle.Render(content)
}

func center(width int, s string) string {
	if width <= 0 {
		return s
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
