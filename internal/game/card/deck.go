package card

import (
	"fmt"
	"math/rand/v2"
)

// DeckSize 一副牌的张数（无大小王）
const DeckSize = 52

// Deck 定义一副牌
type Deck []Card

func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	for _, s := range Suits() {
		for r := Rank2; r <= RankA; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

func (d Deck) Shuffle() {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Deal 轮流发牌给 players 个座位，每人 handSize 张
func (d Deck) Deal(players, handSize int) ([][]Card, error) {
	if players <= 0 || handSize <= 0 {
		return nil, fmt.Errorf("无效的发牌参数: players=%d, handSize=%d", players, handSize)
	}
	if players*handSize > len(d) {
		return nil, fmt.Errorf("牌不够: 需要 %d 张，只有 %d 张", players*handSize, len(d))
	}

	hands := make([][]Card, players)
	for i := range hands {
		hands[i] = make([]Card, 0, handSize)
	}
	for i := range players * handSize {
		hands[i%players] = append(hands[i%players], d[i])
	}
	for _, h := range hands {
		Sort(h)
	}
	return hands, nil
}
