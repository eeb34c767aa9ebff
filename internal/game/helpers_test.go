package game

import (
	"errors"
	"testing"

	"github.com/principality/principality-server-go/internal/game/cards"
	"github.com/principality/principality-server-go/internal/game/rules"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// newTestEngine returns an engine playing every kingdom card.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(zaptest.NewLogger(t), Options{AllCards: true})
}

// newTestGame deals a game and then replaces seat 0's zones so each test
// controls exactly what is in hand and on the deck. Other seats keep their
// dealt cards.
func newTestGame(t *testing.T, players int, hand []string, deck []string) (*Engine, *GameState) {
	t.Helper()
	e := newTestEngine(t)
	s, err := e.NewGame("test-seed", players)
	require.NoError(t, err)

	p := &s.Players[0]
	p.Hand = append([]string{}, hand...)
	p.DrawPile = append([]string{}, deck...)
	p.Discard = []string{}
	p.InPlay = []string{}
	return e, s
}

// setPlayer replaces a seat's hand and deck.
func setPlayer(s *GameState, seat int, hand, deck []string) {
	p := &s.Players[seat]
	p.Hand = append([]string{}, hand...)
	p.DrawPile = append([]string{}, deck...)
	p.Discard = []string{}
	p.InPlay = []string{}
}

// mustExecute applies move and fails the test on rejection.
func mustExecute(t *testing.T, e *Engine, s *GameState, move Move) *GameState {
	t.Helper()
	next, err := e.Execute(s, move)
	require.NoError(t, err, "move %s", move)
	require.NotNil(t, next)
	return next
}

// requireRejected asserts move fails with sentinel.
func requireRejected(t *testing.T, e *Engine, s *GameState, move Move, sentinel error) *MoveError {
	t.Helper()
	next, err := e.Execute(s, move)
	require.Error(t, err, "move %s", move)
	require.Nil(t, next)
	require.True(t, errors.Is(err, sentinel), "want %v, got %v", sentinel, err)
	var merr *MoveError
	require.True(t, errors.As(err, &merr))
	return merr
}

// toBuy moves a state into the buy phase.
func toBuy(t *testing.T, e *Engine, s *GameState) *GameState {
	t.Helper()
	require.Equal(t, rules.PhaseAction, s.Phase)
	return mustExecute(t, e, s, EndPhase())
}

func repeat(card string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = card
	}
	return out
}

func containsMove(moves []Move, want Move) bool {
	for _, m := range moves {
		if m.Equal(want) {
			return true
		}
	}
	return false
}

// requireConserved checks that every card total matches the baseline.
func requireConserved(t *testing.T, baseline map[string]int, s *GameState) {
	t.Helper()
	counts := s.CardCounts()
	for _, name := range cards.Kingdom() {
		require.Equal(t, baseline[name], counts[name], "count of %s", name)
	}
	for _, name := range []string{cards.Copper, cards.Silver, cards.Gold, cards.Estate, cards.Duchy, cards.Province, cards.Curse} {
		require.Equal(t, baseline[name], counts[name], "count of %s", name)
	}
}
