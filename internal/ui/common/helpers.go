// Package common provides shared styles and helpers for the table UI.
package common

import "github.com/charmbracelet/lipgloss"

// ellipsis 占一列显示宽度
const ellipsis = "…"

// TruncateName 按终端显示宽度截断名字，中文字符占两列。超出时末尾补省略号。
func TruncateName(name string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(name) <= width {
		return name
	}

	budget := width - lipgloss.Width(ellipsis)
	used := 0
	runes := []rune(name)
	end := 0
	for end < len(runes) {
		w := lipgloss.Width(string(runes[end]))
		if used+w > budget {
			break
		}
		used += w
		end++
	}
	return string(runes[:end]) + ellipsis
}
