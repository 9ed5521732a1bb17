// Package common provides shared styles and utilities for the UI.
package common

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/trick-taking/internal/game/card"
)

// Icon constants
const (
	TurnIcon   = "👉"
	WinnerIcon = "🏆"
	TrumpIcon  = "⭐"
)

// Lipgloss Styles
var (
	DocStyle     = lipgloss.NewStyle().Margin(1, 2)
	RedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	BlackStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	GrayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	TitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	BoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	ActiveBox    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("228"))
	PromptStyle  = lipgloss.NewStyle().MarginTop(1)
	HintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

// CardStyle 红桃、方块用红色，其余黑色；dim 用于不能出的牌
func CardStyle(c card.Card, dim bool) lipgloss.Style {
	switch {
	case dim:
		return GrayStyle
	case c.Suit.IsRed():
		return RedStyle
	default:
		return BlackStyle
	}
}
