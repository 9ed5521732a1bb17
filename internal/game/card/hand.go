package card

import (
	"cmp"
	"slices"
	"strings"
)

// Contains 判断手牌中是否有这张牌
func Contains(hand []Card, c Card) bool {
	return slices.Contains(hand, c)
}

// HasSuit 判断手牌中是否有指定花色
func HasSuit(hand []Card, s Suit) bool {
	return slices.ContainsFunc(hand, func(c Card) bool { return c.Suit == s })
}

// OfSuit 返回手牌中指定花色的牌
func OfSuit(hand []Card, s Suit) []Card {
	var result []Card
	for _, c := range hand {
		if c.Suit == s {
			result = append(result, c)
		}
	}
	return result
}

// Remove 从手牌中移除一张牌，返回新切片，不修改原手牌
func Remove(hand []Card, c Card) ([]Card, bool) {
	idx := slices.Index(hand, c)
	if idx < 0 {
		return hand, false
	}
	result := make([]Card, 0, len(hand)-1)
	result = append(result, hand[:idx]...)
	result = append(result, hand[idx+1:]...)
	return result, true
}

// Sort 按花色、点数排序（显示顺序）
func Sort(hand []Card) {
	slices.SortFunc(hand, func(a, b Card) int {
		if a.Suit != b.Suit {
			return cmp.Compare(a.Suit, b.Suit)
		}
		return cmp.Compare(a.Rank, b.Rank)
	})
}

// FormatCards 格式化一组牌，空格分隔
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// ParseCards 解析空格或逗号分隔的牌面
func ParseCards(input string) ([]Card, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool { return r == ' ' || r == ',' })
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
