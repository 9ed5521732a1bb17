package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/trick-taking/internal/apperrors"
	"github.com/palemoky/trick-taking/internal/game/card"
	"github.com/palemoky/trick-taking/internal/game/round"
	"github.com/palemoky/trick-taking/internal/game/ruleset"
	"github.com/palemoky/trick-taking/internal/game/trick"
)

func TestEngine_ListAndSelect(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)
	infos := e.ListRuleSets()
	require.Len(t, infos, 3)
	assert.Equal(t, "Highest Card Wins", infos[0].Name)
	assert.Equal(t, "Suit Follows", infos[1].Name)
	assert.Equal(t, "Spades Trump", infos[2].Name)

	for i, info := range infos {
		rs, err := e.SelectRuleSetAt(i)
		require.NoError(t, err)
		assert.Equal(t, info.ID, rs.ID)

		byID, err := e.SelectRuleSet(info.ID)
		require.NoError(t, err)
		assert.Equal(t, rs, byID)
	}

	_, err := e.SelectRuleSet("nope")
	assert.ErrorIs(t, err, apperrors.ErrUnknownRuleSet)
}

func TestEngine_RoundFlow(t *testing.T) {
	t.Parallel()

	e := NewEngine(ruleset.Default())
	r, err := e.NewRound(ruleset.SuitFollows, round.Config{
		TurnOrder: []trick.Seat{"N", "E", "S", "W"},
		Hands: map[trick.Seat][]card.Card{
			"N": {card.MustParse("7C")},
			"E": {card.MustParse("KS")},
			"S": {card.MustParse("2D")},
			"W": {card.MustParse("9C")},
		},
	})
	require.NoError(t, err)

	// 本墩未开始时可以切换
	_, err = e.ChangeRuleSet(r, ruleset.HighestCard)
	require.NoError(t, err)
	_, err = e.ChangeRuleSet(r, ruleset.SuitFollows)
	require.NoError(t, err)
	_, err = e.ChangeRuleSet(r, "unknown")
	assert.ErrorIs(t, err, apperrors.ErrUnknownRuleSet)
	assert.Equal(t, ruleset.SuitFollows, r.RuleSet().ID)

	e.SubmitPlay(r, "N", card.MustParse("7C"))
	_, err = e.ChangeRuleSet(r, ruleset.HighestCard)
	assert.ErrorIs(t, err, apperrors.ErrTrickInProgress)

	e.SubmitPlay(r, "E", card.MustParse("KS"))
	e.SubmitPlay(r, "S", card.MustParse("2D"))
	st := e.SubmitPlay(r, "W", card.MustParse("9C"))
	require.Equal(t, round.TrickClosed, st.Kind)
	assert.Equal(t, trick.Seat("W"), st.Winner)

	// 回放同一墩，不同规则集
	closed, _, _ := r.LastTrick()
	hc, _ := e.SelectRuleSet(ruleset.HighestCard)
	winner, err := e.ResolveWinner(closed, hc)
	require.NoError(t, err)
	assert.Equal(t, trick.Seat("E"), winner)
}

func TestEngine_NewRoundUnknownRuleSet(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(nil).NewRound("missing", round.Config{})
	assert.ErrorIs(t, err, apperrors.ErrUnknownRuleSet)
}
