package rules

import (
	"fmt"
	"strings"
)

// Phase is one of the three phases of a Principality turn.
type Phase int

const (
	PhaseAction Phase = iota
	PhaseBuy
	PhaseCleanup
)

var phaseNames = map[Phase]string{
	PhaseAction:  "action",
	PhaseBuy:     "buy",
	PhaseCleanup: "cleanup",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// ParsePhase is the inverse of String.
func ParsePhase(s string) (Phase, error) {
	for p, name := range phaseNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// turnSequence is the fixed phase order within one turn.
var turnSequence = []Phase{PhaseAction, PhaseBuy, PhaseCleanup}

// NextPhase returns the phase after p. wraps is true when p closes the turn
// and play passes to the next player.
func NextPhase(p Phase) (next Phase, wraps bool) {
	for i, entry := range turnSequence {
		if entry != p {
			continue
		}
		if i+1 < len(turnSequence) {
			return turnSequence[i+1], false
		}
		return turnSequence[0], true
	}
	return turnSequence[0], true
}

// NextPlayer returns the seat after current.
func NextPlayer(current, players int) int {
	if players <= 0 {
		return 0
	}
	return (current + 1) % players
}

// Opponents returns every other seat in turn order, starting left of current.
func Opponents(current, players int) []int {
	out := make([]int, 0, players)
	for i := 1; i < players; i++ {
		out = append(out, (current+i)%players)
	}
	return out
}
