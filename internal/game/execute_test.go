package game

import (
	"testing"

	"github.com/principality/principality-server-go/internal/game/cards"
	"github.com/principality/principality-server-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	e := newTestEngine(t)
	s, err := e.NewGame("seed-1", 3)
	require.NoError(t, err)

	assert.Equal(t, 0, s.CurrentPlayer)
	assert.Equal(t, 1, s.TurnNumber)
	assert.Equal(t, rules.PhaseAction, s.Phase)
	assert.Nil(t, s.Pending)
	assert.Empty(t, s.Trash)
	require.Len(t, s.Players, 3)
	for i, p := range s.Players {
		assert.Len(t, p.Hand, HandSize, "seat %d", i)
		assert.Len(t, p.DrawPile, 5, "seat %d", i)
		assert.Equal(t, 1, p.Actions)
		assert.Equal(t, 1, p.Buys)
		assert.Equal(t, 0, p.Coins)
		assert.ElementsMatch(t, cards.StartingDeck(), p.AllCards())
	}
	assert.Equal(t, 12, s.Supply[cards.Province])
	assert.Equal(t, 20, s.Supply[cards.Curse])
}

func TestNewGameDeterministic(t *testing.T) {
	e := newTestEngine(t)
	a, err := e.NewGame("same", 2)
	require.NoError(t, err)
	b, err := e.NewGame("same", 2)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := e.NewGame("different", 2)
	require.NoError(t, err)
	assert.NotEqual(t, a.Checksum(), c.Checksum())
}

func TestNewGameRejectsPlayerCount(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.NewGame("x", 0)
	assert.ErrorIs(t, err, rules.ErrPlayerCount)
	_, err = e.NewGame("x", 5)
	assert.ErrorIs(t, err, rules.ErrPlayerCount)
}

func TestNewGameRandomKingdom(t *testing.T) {
	e := NewEngine(nil, Options{RandomKingdom: true})
	a, err := e.NewGame("kingdom", 2)
	require.NoError(t, err)
	b, err := e.NewGame("kingdom", 2)
	require.NoError(t, err)
	assert.Equal(t, a.SupplyNames(), b.SupplyNames())

	kingdom := 0
	for _, name := range a.SupplyNames() {
		if cards.MustGet(name).IsKingdom() {
			kingdom++
		}
	}
	assert.Equal(t, RandomKingdomSize, kingdom)
}

func TestExecuteDoesNotMutateInput(t *testing.T) {
	e, s := newTestGame(t, 2, []string{cards.Smithy, cards.Copper}, []string{cards.Gold, cards.Silver, cards.Estate, cards.Copper})
	before := s.Clone()

	next := mustExecute(t, e, s, PlayAction(cards.Smithy))
	assert.Equal(t, before, s)
	assert.NotEqual(t, before, next)

	// The result shares no backing arrays with the input.
	next.Players[0].Hand[0] = "mutated"
	next.Supply[cards.Copper] = -1
	assert.Equal(t, before, s)
}

func TestPlayActionGuards(t *testing.T) {
	e, s := newTestGame(t, 2, []string{cards.Village, cards.Copper}, nil)

	requireRejected(t, e, s, PlayAction("Wizard"), ErrUnknownCard)
	requireRejected(t, e, s, PlayAction(cards.Copper), ErrWrongCardType)
	merr := requireRejected(t, e, s, PlayAction(cards.Smithy), ErrCardNotInHand)
	assert.Contains(t, merr.Reason, cards.Smithy)

	s.Players[0].Actions = 0
	requireRejected(t, e, s, PlayAction(cards.Village), ErrInsufficient)
}

func TestPhaseGuards(t *testing.T) {
	e, s := newTestGame(t, 2, []string{cards.Village, cards.Copper}, nil)

	merr := requireRejected(t, e, s, PlayTreasure(cards.Copper), ErrWrongPhase)
	assert.Equal(t, CategoryPhase, CategoryOf(merr))
	requireRejected(t, e, s, Buy(cards.Copper), ErrWrongPhase)
	requireRejected(t, e, s, PlayAllTreasures(), ErrWrongPhase)
	requireRejected(t, e, s, Move{Type: MoveGainCard, Card: cards.Silver}, ErrNoPending)
	requireRejected(t, e, s, Move{Type: "teleport"}, ErrInvalidMove)

	s = toBuy(t, e, s)
	requireRejected(t, e, s, PlayAction(cards.Village), ErrWrongPhase)
}

func TestPendingEffectBlocksOtherMoves(t *testing.T) {
	e, s := newTestGame(t, 2, []string{cards.Chapel, cards.Copper}, nil)
	s = mustExecute(t, e, s, PlayAction(cards.Chapel))
	require.NotNil(t, s.Pending)

	merr := requireRejected(t, e, s, EndPhase(), ErrPendingEffect)
	assert.Contains(t, merr.Reason, string(MoveTrashCards))
	assert.Equal(t, CategoryPhase, CategoryOf(merr))
	requireRejected(t, e, s, Move{Type: MoveDiscardForCellar}, ErrPendingEffect)
}

func TestPlayTreasures(t *testing.T) {
	e, s := newTestGame(t, 2, []string{cards.Copper, cards.Silver, cards.Gold, cards.Estate}, nil)
	s = toBuy(t, e, s)

	requireRejected(t, e, s, PlayTreasure(cards.Estate), ErrWrongCardType)

	one := mustExecute(t, e, s, PlayTreasure(cards.Silver))
	assert.Equal(t, 2, one.Players[0].Coins)
	assert.Equal(t, []string{cards.Silver}, one.Players[0].InPlay)
	requireRejected(t, e, one, PlayTreasure(cards.Silver), ErrCardNotInHand)

	all := mustExecute(t, e, s, PlayAllTreasures())
	assert.Equal(t, 6, all.Players[0].Coins)
	assert.Equal(t, []string{cards.Estate}, all.Players[0].Hand)
	assert.ElementsMatch(t, []string{cards.Copper, cards.Silver, cards.Gold}, all.Players[0].InPlay)

	requireRejected(t, e, all, PlayAllTreasures(), ErrCardNotInHand)
}

func TestBuy(t *testing.T) {
	e, s := newTestGame(t, 2, []string{cards.Gold, cards.Gold}, nil)
	s = toBuy(t, e, s)
	s = mustExecute(t, e, s, PlayAllTreasures())
	before := s.Supply[cards.Gold]

	s = mustExecute(t, e, s, Buy(cards.Gold))
	p := s.Players[0]
	assert.Equal(t, before-1, s.Supply[cards.Gold])
	assert.Equal(t, []string{cards.Gold}, p.Discard)
	assert.Equal(t, 0, p.Coins)
	assert.Equal(t, 0, p.Buys)

	merr := requireRejected(t, e, s, Buy(cards.Copper), ErrInsufficient)
	assert.Contains(t, merr.Reason, "No buys")
}

func TestBuyRejections(t *testing.T) {
	e, s := newTestGame(t, 2, []string{cards.Copper, cards.Copper}, nil)
	s = toBuy(t, e, s)
	s = mustExecute(t, e, s, PlayAllTreasures())

	merr := requireRejected(t, e, s, Buy(cards.Province), ErrInsufficient)
	assert.Equal(t, "Not enough coins to buy Province. Need 8, have 2", merr.Reason)
	assert.Equal(t, CategoryResource, CategoryOf(merr))

	s.Supply[cards.Cellar] = 0
	merr = requireRejected(t, e, s, Buy(cards.Cellar), ErrPileEmpty)
	assert.Equal(t, "Cellar pile is empty", merr.Reason)

	delete(s.Supply, cards.Moat)
	merr = requireRejected(t, e, s, Buy(cards.Moat), ErrNotInSupply)
	assert.Equal(t, "Moat not available in supply", merr.Reason)

	merr = requireRejected(t, e, s, Buy("Platinum"), ErrUnknownCard)
	assert.Equal(t, CategoryCatalog, CategoryOf(merr))
}

func TestEndPhaseAndCleanup(t *testing.T) {
	deck := []string{cards.Silver, cards.Silver, cards.Silver, cards.Silver, cards.Silver, cards.Gold, cards.Gold}
	e, s := newTestGame(t, 2, []string{cards.Village, cards.Copper, cards.Estate}, deck)

	s = mustExecute(t, e, s, PlayAction(cards.Village))
	s = mustExecute(t, e, s, EndPhase())
	assert.Equal(t, rules.PhaseBuy, s.Phase)
	s = mustExecute(t, e, s, PlayAllTreasures())

	s = mustExecute(t, e, s, EndPhase())
	assert.Equal(t, rules.PhaseAction, s.Phase)
	assert.Equal(t, 1, s.CurrentPlayer)
	assert.Equal(t, 2, s.TurnNumber)

	p := s.Players[0]
	assert.Empty(t, p.InPlay)
	assert.Len(t, p.Hand, HandSize)
	assert.Equal(t, []string{cards.Gold}, p.DrawPile)
	assert.Equal(t, 1, p.Actions)
	assert.Equal(t, 1, p.Buys)
	assert.Equal(t, 0, p.Coins)
	// Village drew the first Silver; cleanup drew the next four plus Gold.
	assert.ElementsMatch(t, []string{cards.Silver, cards.Silver, cards.Silver, cards.Silver, cards.Gold}, p.Hand)
	assert.ElementsMatch(t, []string{cards.Village, cards.Copper, cards.Estate, cards.Silver}, p.Discard)

	// The second seat's turn wraps back to seat 0.
	s = mustExecute(t, e, s, EndPhase())
	s = mustExecute(t, e, s, EndPhase())
	assert.Equal(t, 0, s.CurrentPlayer)
	assert.Equal(t, 3, s.TurnNumber)
}

func TestCleanupReshufflesMidDraw(t *testing.T) {
	e, s := newTestGame(t, 1, []string{cards.Estate}, []string{cards.Gold, cards.Gold})
	s.Players[0].Discard = []string{cards.Copper, cards.Copper, cards.Copper, cards.Copper}
	baseline := s.CardCounts()

	s = mustExecute(t, e, s, EndPhase())
	s = mustExecute(t, e, s, EndPhase())

	p := s.Players[0]
	assert.Len(t, p.Hand, HandSize)
	assert.Equal(t, 2, countOf(p.Hand, cards.Gold), "cards left on the deck are drawn before the reshuffle")
	assert.Len(t, p.DrawPile, 2)
	assert.Empty(t, p.Discard)
	requireConserved(t, baseline, s)
}

func TestCleanupWithTooFewCards(t *testing.T) {
	e, s := newTestGame(t, 1, []string{cards.Estate}, []string{cards.Gold})
	s = mustExecute(t, e, s, EndPhase())
	s = mustExecute(t, e, s, EndPhase())

	p := s.Players[0]
	assert.ElementsMatch(t, []string{cards.Gold, cards.Estate}, p.Hand)
	assert.Empty(t, p.DrawPile)
	assert.Empty(t, p.Discard)
}

func TestGameOverOnProvinces(t *testing.T) {
	e, s := newTestGame(t, 2, repeat(cards.Gold, 3), nil)
	s.Supply[cards.Province] = 1
	s = toBuy(t, e, s)
	s = mustExecute(t, e, s, PlayAllTreasures())
	s.Players[0].Buys = 2

	s = mustExecute(t, e, s, Buy(cards.Province))
	assert.Equal(t, 0, s.Supply[cards.Province])
	assert.True(t, s.IsGameOver())

	for _, m := range []Move{Buy(cards.Copper), EndPhase(), PlayAction(cards.Village), {Type: "nonsense"}} {
		merr := requireRejected(t, e, s, m, ErrGameOver)
		assert.Equal(t, CategoryTerminal, CategoryOf(merr))
	}
	assert.Empty(t, e.ValidMoves(s))

	v := e.Outcome(s)
	assert.True(t, v.GameOver)
	assert.Equal(t, 0, v.Winner)
	assert.Equal(t, 6, v.Scores[0])
}

func TestGameOverOnThirdEmptyPile(t *testing.T) {
	e, s := newTestGame(t, 2, repeat(cards.Copper, 5), nil)
	s.Supply[cards.Cellar] = 0
	s.Supply[cards.Chapel] = 0
	s.Supply[cards.Moat] = 1
	s = toBuy(t, e, s)
	s = mustExecute(t, e, s, PlayAllTreasures())
	s.Players[0].Buys = 2
	require.False(t, s.IsGameOver())

	s = mustExecute(t, e, s, Buy(cards.Moat))
	assert.True(t, s.IsGameOver())
	requireRejected(t, e, s, Buy(cards.Copper), ErrGameOver)
}

func TestOutcomeWhileRunning(t *testing.T) {
	e, s := newTestGame(t, 2, nil, nil)
	v := e.Outcome(s)
	assert.False(t, v.GameOver)
	assert.Equal(t, -1, v.Winner)
	assert.Equal(t, []int{0, 3}, v.Scores)
}

func TestApply(t *testing.T) {
	e, s := newTestGame(t, 2, []string{cards.Copper}, nil)

	ok := e.Apply(s, EndPhase())
	assert.True(t, ok.Success)
	require.NotNil(t, ok.NewState)
	assert.Empty(t, ok.Error)

	bad := e.Apply(s, Buy(cards.Copper))
	assert.False(t, bad.Success)
	assert.Nil(t, bad.NewState)
	assert.Equal(t, "Cannot buy cards in action phase", bad.Error)
}

func TestExecuteNilState(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Execute(nil, EndPhase())
	assert.ErrorIs(t, err, ErrInvalidMove)
}
