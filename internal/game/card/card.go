package card

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit 定义花色
type Suit int

// Rank 定义点数，2-14，A 最大
type Rank int

// Card 定义一张牌，按 (Rank, Suit) 判等
type Card struct {
	Suit Suit
	Rank Rank
}

const (
	Clubs    Suit = iota // 梅花
	Diamonds             // 方块
	Hearts               // 红心
	Spades               // 黑桃
)

// suitSymbols 花色符号映射表
var suitSymbols = map[Suit]string{
	Clubs:    "♣",
	Diamonds: "♦",
	Hearts:   "♥",
	Spades:   "♠",
}

// suitNames 花色英文名，用于配置文件与接口
var suitNames = map[Suit]string{
	Clubs:    "clubs",
	Diamonds: "diamonds",
	Hearts:   "hearts",
	Spades:   "spades",
}

func (s Suit) String() string {
	if symbol, ok := suitSymbols[s]; ok {
		return symbol
	}
	return "?"
}

// Name 返回花色英文名
func (s Suit) Name() string {
	return suitNames[s]
}

// IsValid 判断花色是否合法
func (s Suit) IsValid() bool {
	return s >= Clubs && s <= Spades
}

// IsRed 红心和方块为红色
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Suits 返回全部花色（固定顺序）
func Suits() []Suit {
	return []Suit{Clubs, Diamonds, Hearts, Spades}
}

// ParseSuit 解析花色，支持英文名、首字母和符号
func ParseSuit(s string) (Suit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "club", "clubs", "♣":
		return Clubs, nil
	case "d", "diamond", "diamonds", "♦":
		return Diamonds, nil
	case "h", "heart", "hearts", "♥":
		return Hearts, nil
	case "s", "spade", "spades", "♠":
		return Spades, nil
	}
	return -1, fmt.Errorf("无法识别的花色: %q", s)
}

const (
	Rank2 Rank = iota + 2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ // Jack
	RankQ // Queen
	RankK // King
	RankA // Ace
)

// rankNames 牌面值字符串映射表
var rankNames = map[Rank]string{
	RankJ: "J",
	RankQ: "Q",
	RankK: "K",
	RankA: "A",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return strconv.Itoa(int(r))
}

// IsValid 判断点数是否合法
func (r Rank) IsValid() bool {
	return r >= Rank2 && r <= RankA
}

// charToRank 用于快速查找字符对应的 Rank
var charToRank = map[rune]Rank{
	'2': Rank2,
	'3': Rank3,
	'4': Rank4,
	'5': Rank5,
	'6': Rank6,
	'7': Rank7,
	'8': Rank8,
	'9': Rank9,
	'T': Rank10,
	'J': RankJ,
	'Q': RankQ,
	'K': RankK,
	'A': RankA,
}

func RankFromChar(char rune) (Rank, error) {
	if rank, ok := charToRank[char]; ok {
		return rank, nil
	}
	return -1, fmt.Errorf("无法识别的点数: %c", char)
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// IsValid 判断牌是否合法
func (c Card) IsValid() bool {
	return c.Suit.IsValid() && c.Rank.IsValid()
}

// Parse 解析牌面字符串，例如 "7C"、"10H"、"TD"、"K♠"
func Parse(s string) (Card, error) {
	input := strings.ToUpper(strings.TrimSpace(s))
	input = strings.ReplaceAll(input, "10", "T")
	runes := []rune(input)
	if len(runes) != 2 {
		return Card{}, fmt.Errorf("无效的牌: %q", s)
	}

	rank, err := RankFromChar(runes[0])
	if err != nil {
		return Card{}, err
	}
	suit, err := ParseSuit(string(runes[1]))
	if err != nil {
		return Card{}, err
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// MustParse 解析失败时 panic，仅用于测试和常量表
func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RankValue 返回点数值（2-14）
func RankValue(c Card) int {
	return int(c.Rank)
}

// SameSuit 判断两张牌是否同花色
func SameSuit(a, b Card) bool {
	return a.Suit == b.Suit
}

// CompareRank 仅按点数比较，与花色无关
func CompareRank(a, b Card) int {
	switch {
	case a.Rank > b.Rank:
		return 1
	case a.Rank < b.Rank:
		return -1
	default:
		return 0
	}
}
