package game

import (
	"testing"

	"github.com/principality/principality-server-go/internal/game/cards"
	"github.com/principality/principality-server-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubsetsDedupeByMultiset(t *testing.T) {
	got := subsets([]string{cards.Copper, cards.Copper, cards.Estate}, 0, 3)
	want := [][]string{
		{},
		{cards.Copper},
		{cards.Copper, cards.Copper},
		{cards.Estate},
		{cards.Copper, cards.Estate},
		{cards.Copper, cards.Copper, cards.Estate},
	}
	assert.Equal(t, want, got)
}

func TestSubsetsRespectsBounds(t *testing.T) {
	hand := []string{cards.Copper, cards.Copper, cards.Estate, cards.Silver}

	exact := subsets(hand, 2, 2)
	assert.Equal(t, [][]string{
		{cards.Copper, cards.Copper},
		{cards.Copper, cards.Silver},
		{cards.Copper, cards.Estate},
		{cards.Silver, cards.Estate},
	}, exact)

	assert.Len(t, subsets(hand, 0, 0), 1)
	assert.Len(t, subsets(nil, 0, 4), 1)
}

func TestContainsMultiset(t *testing.T) {
	hand := []string{cards.Copper, cards.Estate, cards.Copper}

	ok, _, _ := containsMultiset(hand, []string{cards.Copper, cards.Copper})
	assert.True(t, ok)

	ok, short, have := containsMultiset(hand, []string{cards.Estate, cards.Estate})
	assert.False(t, ok)
	assert.Equal(t, cards.Estate, short)
	assert.Equal(t, 1, have)
}

func TestValidMovesActionPhase(t *testing.T) {
	e, s := newTestGame(t, 2, []string{cards.Village, cards.Copper, cards.Smithy, cards.Village, cards.Estate}, nil)

	moves := e.ValidMoves(s)
	assert.Equal(t, []Move{
		PlayAction(cards.Village),
		PlayAction(cards.Smithy),
		EndPhase(),
	}, moves)

	s.Players[0].Actions = 0
	assert.Equal(t, []Move{EndPhase()}, e.ValidMoves(s))
}

func TestValidMovesBuyPhase(t *testing.T) {
	e, s := newTestGame(t, 2, []string{cards.Copper, cards.Silver, cards.Estate, cards.Copper}, nil)
	s = toBuy(t, e, s)
	s.Players[0].Coins = 2

	moves := e.ValidMoves(s)
	require.NotEmpty(t, moves)
	assert.Equal(t, PlayTreasure(cards.Copper), moves[0])
	assert.Equal(t, PlayTreasure(cards.Silver), moves[1])
	assert.Equal(t, PlayAllTreasures(), moves[2])
	assert.Equal(t, EndPhase(), moves[len(moves)-1])

	assert.True(t, containsMove(moves, Buy(cards.Copper)))
	assert.True(t, containsMove(moves, Buy(cards.Estate)))
	assert.True(t, containsMove(moves, Buy(cards.Cellar)))
	assert.True(t, containsMove(moves, Buy(cards.Curse)))
	assert.False(t, containsMove(moves, Buy(cards.Silver)), "Silver costs 3")

	s.Supply[cards.Estate] = 0
	assert.False(t, containsMove(e.ValidMoves(s), Buy(cards.Estate)), "empty piles are not offered")

	s.Players[0].Buys = 0
	for _, m := range e.ValidMoves(s) {
		assert.NotEqual(t, MoveBuy, m.Type)
	}
}

func TestValidMovesBuyPhaseWithoutTreasures(t *testing.T) {
	e, s := newTestGame(t, 2, []string{cards.Estate}, nil)
	s = toBuy(t, e, s)

	for _, m := range e.ValidMoves(s) {
		assert.NotEqual(t, MovePlayAllTreasures, m.Type)
		assert.NotEqual(t, MovePlayTreasure, m.Type)
	}
}

func TestValidMovesCleanup(t *testing.T) {
	e, s := newTestGame(t, 2, nil, nil)
	s.Phase = rules.PhaseCleanup
	assert.Equal(t, []Move{EndPhase()}, e.ValidMoves(s))
}

func TestValidMovesGameOver(t *testing.T) {
	e, s := newTestGame(t, 2, []string{cards.Village}, nil)
	s.Supply[cards.Province] = 0
	assert.Empty(t, e.ValidMoves(s))
	assert.NotNil(t, e.ValidMoves(s))
}

func TestValidMovesCellarPending(t *testing.T) {
	e, s := newTestGame(t, 2, []string{cards.Cellar, cards.Copper, cards.Copper, cards.Estate}, []string{cards.Gold, cards.Gold})
	s = mustExecute(t, e, s, PlayAction(cards.Cellar))

	moves := e.ValidMoves(s)
	require.Len(t, moves, 6)
	for _, m := range moves {
		assert.Equal(t, MoveDiscardForCellar, m.Type)
	}
	assert.Empty(t, moves[0].Cards)
}

func TestValidMovesChapelCapsAtFour(t *testing.T) {
	hand := []string{cards.Chapel, cards.Copper, cards.Estate, cards.Silver, cards.Gold, cards.Duchy}
	e, s := newTestGame(t, 2, hand, nil)
	s = mustExecute(t, e, s, PlayAction(cards.Chapel))

	moves := e.ValidMoves(s)
	// 5 distinct cards, subsets of size 0..4: 2^5 - 1.
	assert.Len(t, moves, 31)
	for _, m := range moves {
		assert.LessOrEqual(t, len(m.Cards), ChapelMaxTrash)
	}
}

func TestValidMovesEmptyDomainsOfferSkip(t *testing.T) {
	t.Run("mine without treasure", func(t *testing.T) {
		e, s := newTestGame(t, 2, []string{cards.Mine, cards.Estate}, nil)
		s = mustExecute(t, e, s, PlayAction(cards.Mine))
		assert.Equal(t, []Move{{Type: MoveSelectTreasure}}, e.ValidMoves(s))
		s = mustExecute(t, e, s, Move{Type: MoveSelectTreasure})
		assert.Nil(t, s.Pending)
	})

	t.Run("remodel with empty hand", func(t *testing.T) {
		e, s := newTestGame(t, 2, []string{cards.Remodel}, nil)
		s = mustExecute(t, e, s, PlayAction(cards.Remodel))
		moves := e.ValidMoves(s)
		require.Len(t, moves, 1)
		assert.Empty(t, moves[0].Cards)
		s = mustExecute(t, e, s, moves[0])
		assert.Nil(t, s.Pending)
	})

	t.Run("mine with no treasure to gain", func(t *testing.T) {
		e, s := newTestGame(t, 2, []string{cards.Mine, cards.Copper}, nil)
		s.Supply[cards.Copper] = 0
		s.Supply[cards.Silver] = 0
		s = mustExecute(t, e, s, PlayAction(cards.Mine))
		s = mustExecute(t, e, s, Move{Type: MoveSelectTreasure, Card: cards.Copper})
		assert.Equal(t, []Move{{Type: MoveGainCard}}, e.ValidMoves(s))
		s = mustExecute(t, e, s, Move{Type: MoveGainCard})
		assert.Nil(t, s.Pending)
	})

	t.Run("throne room always offers skip", func(t *testing.T) {
		e, s := newTestGame(t, 2, []string{cards.ThroneRoom, cards.Copper}, nil)
		s = mustExecute(t, e, s, PlayAction(cards.ThroneRoom))
		assert.Equal(t, []Move{{Type: MoveSelectThrone}}, e.ValidMoves(s))
	})
}

func TestValidMovesThroneRoomChoices(t *testing.T) {
	e, s := newTestGame(t, 2, []string{cards.ThroneRoom, cards.Smithy, cards.Village, cards.Smithy}, nil)
	s = mustExecute(t, e, s, PlayAction(cards.ThroneRoom))

	assert.Equal(t, []Move{
		{Type: MoveSelectThrone, Card: cards.Village},
		{Type: MoveSelectThrone, Card: cards.Smithy},
		{Type: MoveSelectThrone},
	}, e.ValidMoves(s))
}

func TestValidMovesMineGainsOnlyTreasures(t *testing.T) {
	e, s := newTestGame(t, 2, []string{cards.Mine, cards.Copper}, nil)
	s = mustExecute(t, e, s, PlayAction(cards.Mine))
	s = mustExecute(t, e, s, Move{Type: MoveSelectTreasure, Card: cards.Copper})

	assert.Equal(t, []Move{
		{Type: MoveGainCard, Card: cards.Copper},
		{Type: MoveGainCard, Card: cards.Silver},
	}, e.ValidMoves(s))
}

func TestValidMovesDeterministic(t *testing.T) {
	e, s := newTestGame(t, 2, []string{cards.Cellar, cards.Copper, cards.Estate, cards.Copper, cards.Village}, nil)
	first := e.ValidMoves(s)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.ValidMoves(s.Clone()))
	}
}
