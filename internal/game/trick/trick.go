// Package trick 定义一墩牌：按出牌顺序记录每个座位打出的牌。
package trick

import (
	"fmt"
	"strings"

	"github.com/palemoky/trick-taking/internal/apperrors"
	"github.com/palemoky/trick-taking/internal/game/card"
)

// Seat 座位标识
type Seat string

// Play 一次出牌
type Play struct {
	Seat Seat
	Card card.Card
}

func (p Play) String() string {
	return fmt.Sprintf("%s:%s", p.Seat, p.Card)
}

// Trick 一墩牌，容量为桌上人数
type Trick struct {
	Size  int
	Plays []Play
}

// New 创建空墩
func New(size int) Trick {
	return Trick{Size: size, Plays: make([]Play, 0, size)}
}

// Of 用给定出牌构造一个满墩（用于回放和测试）
func Of(plays ...Play) Trick {
	return Trick{Size: len(plays), Plays: append([]Play(nil), plays...)}
}

// Len 已出牌数
func (t Trick) Len() int {
	return len(t.Plays)
}

// IsEmpty 是否还没人出牌
func (t Trick) IsEmpty() bool {
	return len(t.Plays) == 0
}

// IsOpen 未满
func (t Trick) IsOpen() bool {
	return len(t.Plays) < t.Size
}

// IsClosed 已满
func (t Trick) IsClosed() bool {
	return t.Size > 0 && len(t.Plays) == t.Size
}

// LeadSuit 首引花色，空墩返回 false
func (t Trick) LeadSuit() (card.Suit, bool) {
	if len(t.Plays) == 0 {
		return 0, false
	}
	return t.Plays[0].Card.Suit, true
}

// Leader 首个出牌的座位
func (t Trick) Leader() (Seat, bool) {
	if len(t.Plays) == 0 {
		return "", false
	}
	return t.Plays[0].Seat, true
}

// Append 返回追加一次出牌后的新墩，不修改原值
func (t Trick) Append(p Play) Trick {
	plays := make([]Play, len(t.Plays), len(t.Plays)+1)
	copy(plays, t.Plays)
	return Trick{Size: t.Size, Plays: append(plays, p)}
}

// Seats 按出牌顺序返回座位
func (t Trick) Seats() []Seat {
	seats := make([]Seat, len(t.Plays))
	for i, p := range t.Plays {
		seats[i] = p.Seat
	}
	return seats
}

// Contains 座位是否已出牌
func (t Trick) Contains(seat Seat) bool {
	for _, p := range t.Plays {
		if p.Seat == seat {
			return true
		}
	}
	return false
}

// CheckShape 检查墩的结构：不超过容量，座位和牌都不重复
func (t Trick) CheckShape() error {
	if len(t.Plays) > t.Size {
		return fmt.Errorf("%w: %d 张牌超过容量 %d", apperrors.ErrInvalidTrickShape, len(t.Plays), t.Size)
	}
	seats := make(map[Seat]bool, len(t.Plays))
	cards := make(map[card.Card]bool, len(t.Plays))
	for _, p := range t.Plays {
		if seats[p.Seat] {
			return fmt.Errorf("%w: 座位 %s 重复出牌", apperrors.ErrInvalidTrickShape, p.Seat)
		}
		if cards[p.Card] {
			return fmt.Errorf("%w: 牌 %s 重复", apperrors.ErrInvalidTrickShape, p.Card)
		}
		seats[p.Seat] = true
		cards[p.Card] = true
	}
	return nil
}

func (t Trick) String() string {
	parts := make([]string, len(t.Plays))
	for i, p := range t.Plays {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
