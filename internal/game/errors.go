package game

import (
	"errors"
	"fmt"

	"github.com/principality/principality-server-go/internal/game/cards"
)

// Sentinel errors. Every rejected move wraps exactly one of these so callers
// can branch with errors.Is.
var (
	ErrGameOver       = errors.New("game is over")
	ErrWrongPhase     = errors.New("move not allowed in this phase")
	ErrPendingEffect  = errors.New("a pending effect must be resolved first")
	ErrNoPending      = errors.New("no pending effect to resolve")
	ErrInvalidMove    = errors.New("invalid move")
	ErrCardNotInHand  = errors.New("card not in hand")
	ErrNotInSupply    = errors.New("card not in supply")
	ErrPileEmpty      = errors.New("supply pile empty")
	ErrInsufficient   = errors.New("insufficient resources")
	ErrCostExceeded   = errors.New("cost exceeds allowed maximum")
	ErrWrongCardType  = errors.New("wrong card type")
	ErrTooManyCards   = errors.New("too many cards")
	ErrWrongCardCount = errors.New("wrong number of cards")
	ErrUnknownCard    = cards.ErrUnknownCard
)

// MoveError is returned by Execute. Reason is the human readable message
// naming the offending card or quantity.
type MoveError struct {
	Move   Move
	Err    error
	Reason string
}

func (e *MoveError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return e.Err.Error()
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

func reject(move Move, sentinel error, format string, args ...interface{}) *MoveError {
	return &MoveError{
		Move:   move,
		Err:    sentinel,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Category groups rejection reasons the way a caller presents them.
type Category int

const (
	CategoryNone Category = iota
	// CategoryPhase covers moves that do not fit the phase or pending effect.
	CategoryPhase
	// CategoryResource covers missing cards, empty piles and exhausted counters.
	CategoryResource
	// CategoryConstraint covers cost caps, type requirements and count caps.
	CategoryConstraint
	// CategoryTerminal means the game is over.
	CategoryTerminal
	// CategoryCatalog means a card name is not in the catalog.
	CategoryCatalog
)

var categoryNames = map[Category]string{
	CategoryNone:       "none",
	CategoryPhase:      "phase_mismatch",
	CategoryResource:   "resource_unavailable",
	CategoryConstraint: "constraint_violation",
	CategoryTerminal:   "terminal_state",
	CategoryCatalog:    "catalog_lookup",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CATEGORY_%d", int(c))
}

// CategoryOf classifies err. Errors that wrap none of the sentinels map to
// CategoryNone.
func CategoryOf(err error) Category {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, ErrGameOver):
		return CategoryTerminal
	case errors.Is(err, ErrUnknownCard):
		return CategoryCatalog
	case errors.Is(err, ErrWrongPhase), errors.Is(err, ErrPendingEffect),
		errors.Is(err, ErrNoPending), errors.Is(err, ErrInvalidMove):
		return CategoryPhase
	case errors.Is(err, ErrCardNotInHand), errors.Is(err, ErrNotInSupply),
		errors.Is(err, ErrPileEmpty), errors.Is(err, ErrInsufficient):
		return CategoryResource
	case errors.Is(err, ErrCostExceeded), errors.Is(err, ErrWrongCardType),
		errors.Is(err, ErrTooManyCards), errors.Is(err, ErrWrongCardCount):
		return CategoryConstraint
	}
	return CategoryNone
}
