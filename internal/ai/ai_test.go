package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/principality/principality-server-go/internal/game"
	"github.com/principality/principality-server-go/internal/game/cards"
	"github.com/principality/principality-server-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newState(t *testing.T, players int) *game.GameState {
	t.Helper()
	s, err := game.NewEngine(nil, game.Options{}).NewGame("ai", players)
	require.NoError(t, err)
	return s
}

func TestNewPolicy(t *testing.T) {
	p, err := NewPolicy(PolicyBigMoney, "x")
	require.NoError(t, err)
	assert.Equal(t, PolicyBigMoney, p.Name())

	p, err = NewPolicy(PolicyRandom, "x")
	require.NoError(t, err)
	assert.Equal(t, PolicyRandom, p.Name())

	_, err = NewPolicy("greedy", "x")
	assert.Error(t, err)
}

func TestBigMoneyBuys(t *testing.T) {
	buyMoves := []game.Move{
		game.Buy(cards.Copper),
		game.Buy(cards.Silver),
		game.Buy(cards.Gold),
		game.Buy(cards.Province),
		game.EndPhase(),
	}
	tests := []struct {
		coins int
		want  game.Move
	}{
		{coins: 9, want: game.Buy(cards.Province)},
		{coins: 8, want: game.Buy(cards.Province)},
		{coins: 7, want: game.Buy(cards.Gold)},
		{coins: 6, want: game.Buy(cards.Gold)},
		{coins: 4, want: game.Buy(cards.Silver)},
		{coins: 3, want: game.Buy(cards.Silver)},
		{coins: 2, want: game.EndPhase()},
		{coins: 0, want: game.EndPhase()},
	}

	p := &BigMoneyPolicy{}
	for _, tt := range tests {
		s := newState(t, 2)
		s.Phase = rules.PhaseBuy
		s.Players[0].Coins = tt.coins
		got, err := p.Choose(s, buyMoves)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "coins=%d", tt.coins)
	}
}

func TestBigMoneyPlaysTreasuresFirst(t *testing.T) {
	s := newState(t, 2)
	s.Phase = rules.PhaseBuy
	moves := []game.Move{game.PlayTreasure(cards.Copper), game.PlayAllTreasures(), game.EndPhase()}
	got, err := (&BigMoneyPolicy{}).Choose(s, moves)
	require.NoError(t, err)
	assert.Equal(t, game.PlayAllTreasures(), got)
}

func TestBigMoneySkipsMissingPile(t *testing.T) {
	s := newState(t, 2)
	s.Phase = rules.PhaseBuy
	s.Players[0].Coins = 8
	moves := []game.Move{game.Buy(cards.Silver), game.Buy(cards.Gold), game.EndPhase()}
	got, err := (&BigMoneyPolicy{}).Choose(s, moves)
	require.NoError(t, err)
	assert.Equal(t, game.Buy(cards.Gold), got)
}

func TestBigMoneyActions(t *testing.T) {
	s := newState(t, 2)
	moves := []game.Move{
		game.PlayAction(cards.Smithy),
		game.PlayAction(cards.Village),
		game.EndPhase(),
	}
	got, err := (&BigMoneyPolicy{}).Choose(s, moves)
	require.NoError(t, err)
	assert.Equal(t, game.PlayAction(cards.Village), got)

	got, err = (&BigMoneyPolicy{}).Choose(s, []game.Move{game.EndPhase()})
	require.NoError(t, err)
	assert.Equal(t, game.EndPhase(), got)

	_, err = (&BigMoneyPolicy{}).Choose(s, nil)
	assert.ErrorIs(t, err, ErrNoMoves)
}

func TestBigMoneyPending(t *testing.T) {
	p := &BigMoneyPolicy{}

	tests := []struct {
		name    string
		pending game.PendingEffect
		moves   []game.Move
		want    game.Move
	}{
		{
			name:    "discard down keeps treasure",
			pending: game.PendingEffect{Card: cards.Militia, Effect: game.EffectDiscardToHandSize, TargetPlayer: 1, TargetHandSize: 3},
			moves: []game.Move{
				{Type: game.MoveDiscardToHandSize, Cards: []string{cards.Copper, cards.Copper}},
				{Type: game.MoveDiscardToHandSize, Cards: []string{cards.Copper, cards.Estate}},
				{Type: game.MoveDiscardToHandSize, Cards: []string{cards.Estate, cards.Curse}},
			},
			want: game.Move{Type: game.MoveDiscardToHandSize, Cards: []string{cards.Estate, cards.Curse}},
		},
		{
			name:    "chapel trashes only dead cards",
			pending: game.PendingEffect{Card: cards.Chapel, Effect: game.EffectTrashCards, MaxTrash: 4},
			moves: []game.Move{
				{Type: game.MoveTrashCards, Cards: []string{}},
				{Type: game.MoveTrashCards, Cards: []string{cards.Copper}},
				{Type: game.MoveTrashCards, Cards: []string{cards.Estate}},
				{Type: game.MoveTrashCards, Cards: []string{cards.Copper, cards.Estate}},
			},
			want: game.Move{Type: game.MoveTrashCards, Cards: []string{cards.Estate}},
		},
		{
			name:    "gain the most expensive card",
			pending: game.PendingEffect{Card: cards.Workshop, Effect: game.EffectGainCard, MaxGainCost: 4},
			moves: []game.Move{
				{Type: game.MoveGainCard, Card: cards.Copper},
				{Type: game.MoveGainCard, Card: cards.Silver},
				{Type: game.MoveGainCard, Card: cards.Curse},
			},
			want: game.Move{Type: game.MoveGainCard, Card: cards.Silver},
		},
		{
			name:    "mine upgrades silver",
			pending: game.PendingEffect{Card: cards.Mine, Effect: game.EffectSelectTreasure},
			moves: []game.Move{
				{Type: game.MoveSelectTreasure, Card: cards.Copper},
				{Type: game.MoveSelectTreasure, Card: cards.Silver},
				{Type: game.MoveSelectTreasure, Card: cards.Gold},
			},
			want: game.Move{Type: game.MoveSelectTreasure, Card: cards.Silver},
		},
		{
			name:    "thief takes gold",
			pending: game.PendingEffect{Card: cards.Thief, Effect: game.EffectSelectTreasure, TargetPlayer: 1},
			moves: []game.Move{
				{Type: game.MoveSelectTreasure, Card: cards.Copper},
				{Type: game.MoveSelectTreasure, Card: cards.Gold},
			},
			want: game.Move{Type: game.MoveSelectTreasure, Card: cards.Gold},
		},
		{
			name:    "reveal moat",
			pending: game.PendingEffect{Card: cards.Militia, Effect: game.EffectRevealReaction, TargetPlayer: 1},
			moves: []game.Move{
				{Type: game.MoveRevealReaction, Card: cards.Moat},
				{Type: game.MoveRevealReaction},
			},
			want: game.Move{Type: game.MoveRevealReaction, Card: cards.Moat},
		},
		{
			name:    "chancellor keeps deck",
			pending: game.PendingEffect{Card: cards.Chancellor, Effect: game.EffectChancellor},
			moves: []game.Move{
				{Type: game.MoveChancellor, Choice: true},
				{Type: game.MoveChancellor, Choice: false},
			},
			want: game.Move{Type: game.MoveChancellor, Choice: false},
		},
		{
			name:    "spy discards own estate",
			pending: game.PendingEffect{Card: cards.Spy, Effect: game.EffectSpy, TargetPlayer: 0, RevealedCard: cards.Estate},
			moves: []game.Move{
				{Type: game.MoveSpy, Choice: true},
				{Type: game.MoveSpy, Choice: false},
			},
			want: game.Move{Type: game.MoveSpy, Choice: true},
		},
		{
			name:    "spy leaves opponent estate",
			pending: game.PendingEffect{Card: cards.Spy, Effect: game.EffectSpy, TargetPlayer: 1, RevealedCard: cards.Estate},
			moves: []game.Move{
				{Type: game.MoveSpy, Choice: true},
				{Type: game.MoveSpy, Choice: false},
			},
			want: game.Move{Type: game.MoveSpy, Choice: false},
		},
		{
			name:    "library sets aside actions",
			pending: game.PendingEffect{Card: cards.Library, Effect: game.EffectLibrarySetAside, DrawnCard: cards.Smithy},
			moves: []game.Move{
				{Type: game.MoveLibrarySetAside, Choice: true},
				{Type: game.MoveLibrarySetAside, Choice: false},
			},
			want: game.Move{Type: game.MoveLibrarySetAside, Choice: true},
		},
		{
			name:    "throne room picks the best action",
			pending: game.PendingEffect{Card: cards.ThroneRoom, Effect: game.EffectSelectThrone},
			moves: []game.Move{
				{Type: game.MoveSelectThrone, Card: cards.Smithy},
				{Type: game.MoveSelectThrone, Card: cards.Laboratory},
				{Type: game.MoveSelectThrone},
			},
			want: game.Move{Type: game.MoveSelectThrone, Card: cards.Laboratory},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newState(t, 2)
			pe := tt.pending
			s.Pending = &pe
			got, err := p.Choose(s, tt.moves)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRandomPolicyDeterministic(t *testing.T) {
	moves := []game.Move{
		game.Buy(cards.Copper), game.Buy(cards.Silver), game.Buy(cards.Estate), game.EndPhase(),
	}
	a := NewRandomPolicy(42)
	b := NewRandomPolicy(42)
	for i := 0; i < 50; i++ {
		ma, err := a.Choose(nil, moves)
		require.NoError(t, err)
		mb, err := b.Choose(nil, moves)
		require.NoError(t, err)
		require.Equal(t, ma, mb)
		assert.Contains(t, moves, ma)
	}

	_, err := a.Choose(nil, nil)
	assert.ErrorIs(t, err, ErrNoMoves)
}

func TestSeedFrom(t *testing.T) {
	assert.Equal(t, SeedFrom("abc"), SeedFrom("abc"))
	assert.NotEqual(t, SeedFrom("abc"), SeedFrom("abd"))
}

func TestDecider(t *testing.T) {
	s := newState(t, 3)
	assert.Equal(t, 0, Decider(s))
	s.Pending = &game.PendingEffect{Card: cards.Militia, Effect: game.EffectDiscardToHandSize, TargetPlayer: 2}
	assert.Equal(t, 2, Decider(s))
	s.Pending = &game.PendingEffect{Card: cards.Cellar, Effect: game.EffectDiscardForCellar, TargetPlayer: 2}
	assert.Equal(t, 0, Decider(s))
}

func TestPlayBigMoneyFinishes(t *testing.T) {
	engine := game.NewEngine(zaptest.NewLogger(t), game.Options{KingdomCards: cards.DefaultKingdom})
	state, err := engine.NewGame("big-money", 2)
	require.NoError(t, err)

	policies := []Policy{&BigMoneyPolicy{}, &BigMoneyPolicy{}}
	out, err := Play(context.Background(), engine, state, policies, 5000)
	require.NoError(t, err)
	assert.True(t, out.Final.IsGameOver())
	assert.Equal(t, state.CardCounts(), out.Final.CardCounts())

	outcome := engine.Outcome(out.Final)
	assert.True(t, outcome.GameOver)
	assert.GreaterOrEqual(t, outcome.Winner, 0)

	again, err := Play(context.Background(), engine, state, policies, 5000)
	require.NoError(t, err)
	assert.Equal(t, out.Final.Checksum(), again.Final.Checksum())
	assert.Equal(t, out.Moves, again.Moves)
}

func TestPlayMixedPolicies(t *testing.T) {
	engine := game.NewEngine(nil, game.Options{AllCards: true})
	for _, seed := range []string{"mixed-1", "mixed-2", "mixed-3"} {
		state, err := engine.NewGame(seed, 3)
		require.NoError(t, err)

		policies := []Policy{NewRandomPolicy(SeedFrom(seed)), &BigMoneyPolicy{}}
		out, err := Play(context.Background(), engine, state, policies, 3000)
		if err != nil {
			require.True(t, errors.Is(err, ErrMoveLimit), "seed %s: %v", seed, err)
			assert.Len(t, out.Moves, 3000)
		} else {
			assert.True(t, out.Final.IsGameOver())
		}
		assert.Equal(t, state.CardCounts(), out.Final.CardCounts(), "seed %s", seed)
	}
}

func TestPlayMoveLimit(t *testing.T) {
	engine := game.NewEngine(nil, game.Options{})
	state, err := engine.NewGame("limit", 2)
	require.NoError(t, err)

	out, err := Play(context.Background(), engine, state, []Policy{&BigMoneyPolicy{}}, 10)
	assert.ErrorIs(t, err, ErrMoveLimit)
	assert.Len(t, out.Moves, 10)
}

func TestPlayCancelled(t *testing.T) {
	engine := game.NewEngine(nil, game.Options{})
	state, err := engine.NewGame("cancel", 2)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := Play(ctx, engine, state, []Policy{&BigMoneyPolicy{}}, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.Moves)

	_, err = Play(context.Background(), engine, state, nil, 0)
	assert.ErrorIs(t, err, ErrNoPolicies)
}
