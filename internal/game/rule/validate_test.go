package rule

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/trick-taking/internal/apperrors"
	"github.com/palemoky/trick-taking/internal/game/card"
	"github.com/palemoky/trick-taking/internal/game/ruleset"
	"github.com/palemoky/trick-taking/internal/game/trick"
)

func handOf(cards ...string) []card.Card {
	hand := make([]card.Card, len(cards))
	for i, c := range cards {
		hand[i] = card.MustParse(c)
	}
	return hand
}

func openTrick(cards ...string) trick.Trick {
	seats := []trick.Seat{"N", "E", "S", "W"}
	t := trick.New(4)
	for i, c := range cards {
		t = t.Append(trick.Play{Seat: seats[i], Card: card.MustParse(c)})
	}
	return t
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ruleSet  string
		proposed string
		hand     []card.Card
		trick    trick.Trick
		reason   Reason
	}{
		{
			name:     "E: must follow hearts",
			ruleSet:  ruleset.SuitFollows,
			proposed: "2C",
			hand:     handOf("4H", "2C"),
			trick:    openTrick("9H"),
			reason:   MustFollowSuit,
		},
		{
			name:     "Following lead suit is legal",
			ruleSet:  ruleset.SuitFollows,
			proposed: "4H",
			hand:     handOf("4H", "2C"),
			trick:    openTrick("9H"),
		},
		{
			name:     "Card not in hand",
			ruleSet:  ruleset.HighestCard,
			proposed: "AS",
			hand:     handOf("4H", "2C"),
			trick:    openTrick(),
			reason:   CardNotInHand,
		},
		{
			name:     "Card not in hand checked before follow suit",
			ruleSet:  ruleset.SuitFollows,
			proposed: "AS",
			hand:     handOf("4H", "2C"),
			trick:    openTrick("9H"),
			reason:   CardNotInHand,
		},
		{
			name:     "Leading any card is legal",
			ruleSet:  ruleset.SpadesTrump,
			proposed: "AS",
			hand:     handOf("4H", "AS"),
			trick:    openTrick(),
		},
		{
			name:     "Void of lead suit may trump",
			ruleSet:  ruleset.SpadesTrump,
			proposed: "3S",
			hand:     handOf("3S", "2C"),
			trick:    openTrick("9H", "KH"),
		},
		{
			name:     "Void of lead suit may discard",
			ruleSet:  ruleset.SpadesTrump,
			proposed: "2C",
			hand:     handOf("3S", "2C"),
			trick:    openTrick("9H"),
		},
		{
			name:     "Trump must follow when holding lead suit",
			ruleSet:  ruleset.SpadesTrump,
			proposed: "3S",
			hand:     handOf("3S", "4H"),
			trick:    openTrick("9H"),
			reason:   MustFollowSuit,
		},
		{
			name:     "Highest card has no follow obligation",
			ruleSet:  ruleset.HighestCard,
			proposed: "2C",
			hand:     handOf("4H", "2C"),
			trick:    openTrick("9H"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rs := mustRuleSet(t, tt.ruleSet)
			before := append([]card.Card(nil), tt.hand...)
			beforeLen := tt.trick.Len()

			err := Validate(card.MustParse(tt.proposed), tt.hand, tt.trick, rs)

			assert.Equal(t, before, tt.hand, "不应修改手牌")
			assert.Equal(t, beforeLen, tt.trick.Len(), "不应修改牌墩")

			if tt.reason == ReasonNone {
				assert.NoError(t, err)
				return
			}
			var rej *Rejection
			require.ErrorAs(t, err, &rej)
			assert.Equal(t, tt.reason, rej.Reason)
		})
	}
}

func TestRejection_Unwrap(t *testing.T) {
	t.Parallel()

	err := Validate(card.MustParse("2C"), handOf("4H", "2C"), openTrick("9H"), mustRuleSet(t, ruleset.SuitFollows))
	assert.ErrorIs(t, err, apperrors.ErrMustFollowSuit)
	assert.Equal(t, "must_follow_suit", MustFollowSuit.String())

	err = Validate(card.MustParse("AS"), handOf("4H"), openTrick(), mustRuleSet(t, ruleset.SuitFollows))
	assert.ErrorIs(t, err, apperrors.ErrCardNotInHand)
}

func TestLegalPlays(t *testing.T) {
	t.Parallel()

	hand := handOf("4H", "9H", "2C", "3S")

	assert.Equal(t, hand, LegalPlays(hand, openTrick(), mustRuleSet(t, ruleset.SpadesTrump)))
	assert.Equal(t, handOf("4H", "9H"), LegalPlays(hand, openTrick("KH"), mustRuleSet(t, ruleset.SuitFollows)))
	assert.Equal(t, hand, LegalPlays(hand, openTrick("KD"), mustRuleSet(t, ruleset.SpadesTrump)))
	assert.Equal(t, hand, LegalPlays(hand, openTrick("KH"), mustRuleSet(t, ruleset.HighestCard)))
}

func TestValidate_FollowSuitProperties(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(3, 11))
	follow := []ruleset.RuleSet{mustRuleSet(t, ruleset.SuitFollows), mustRuleSet(t, ruleset.SpadesTrump)}

	for range 1000 {
		deck := card.NewDeck()
		r.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
		led := trick.New(4).Append(trick.Play{Seat: "N", Card: deck[0]})
		hand := deck[1 : 1+1+r.IntN(8)]
		lead, _ := led.LeadSuit()
		holdsLead := card.HasSuit(hand, lead)

		for _, rs := range follow {
			for _, c := range hand {
				err := Validate(c, hand, led, rs)
				switch {
				case !holdsLead:
					// 缺门：任意手牌都合法（含将牌）
					assert.NoError(t, err)
				case c.Suit == lead:
					assert.NoError(t, err)
				default:
					assert.ErrorIs(t, err, apperrors.ErrMustFollowSuit)
				}
			}
		}
	}
}
