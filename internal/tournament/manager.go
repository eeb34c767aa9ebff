package tournament

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TournamentState represents the state of a tournament
type TournamentState int

const (
	TournamentStateWaiting TournamentState = iota
	TournamentStateInProgress
	TournamentStateFinished
)

func (s TournamentState) String() string {
	switch s {
	case TournamentStateWaiting:
		return "WAITING"
	case TournamentStateInProgress:
		return "IN_PROGRESS"
	case TournamentStateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

var (
	ErrAlreadyStarted  = errors.New("tournament already started")
	ErrNotStarted      = errors.New("tournament not in progress")
	ErrNotEnough       = errors.New("not enough entrants")
	ErrDuplicate       = errors.New("entrant already joined")
	ErrUnknownEntrant  = errors.New("entrant not found")
	ErrPairingNotFound = errors.New("pairing not found")
	ErrRoundOpen       = errors.New("current round has unplayed pairings")
)

// Points per match result.
const (
	PointsWin  = 3
	PointsDraw = 1
)

// Entrant is an AI strategy taking part in a tournament.
type Entrant struct {
	Name     string
	Strategy string
	Points   int
	Wins     int
	Losses   int
	Draws    int
	Byes     int
}

// Pairing is one game between two entrants. Entrant1 takes the first seat.
type Pairing struct {
	Entrant1 string
	Entrant2 string
	Seed     string
	Checksum string // final state of the game
	Winner   string // empty for a draw
	Scores   []int
	Moves    int
	Played   bool
}

// Round represents a tournament round
type Round struct {
	Number   int
	Pairings []*Pairing
	Bye      string
	Finished bool
}

// Tournament is a round robin between strategies: every round pairs each
// entrant with a different opponent until all pairs have met.
type Tournament struct {
	ID         string
	Name       string
	Seed       string
	State      TournamentState
	entrants   map[string]*Entrant
	order      []string
	Rounds     []*Round
	NumRounds  int
	CreateTime time.Time
	StartTime  *time.Time
	EndTime    *time.Time
	mu         sync.RWMutex
}

// NewTournament creates a tournament. numRounds <= 0 plays a full round
// robin.
func NewTournament(name, seed string, numRounds int) *Tournament {
	return &Tournament{
		ID:         uuid.New().String(),
		Name:       name,
		Seed:       seed,
		State:      TournamentStateWaiting,
		entrants:   make(map[string]*Entrant),
		NumRounds:  numRounds,
		CreateTime: time.Now(),
	}
}

// AddEntrant adds a strategy under a unique name.
func (t *Tournament) AddEntrant(name, strategy string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TournamentStateWaiting {
		return ErrAlreadyStarted
	}
	if _, exists := t.entrants[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}

	t.entrants[name] = &Entrant{Name: name, Strategy: strategy}
	t.order = append(t.order, name)
	return nil
}

// RemoveEntrant drops an entrant before the tournament starts.
func (t *Tournament) RemoveEntrant(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TournamentStateWaiting {
		return ErrAlreadyStarted
	}
	if _, exists := t.entrants[name]; !exists {
		return fmt.Errorf("%w: %s", ErrUnknownEntrant, name)
	}

	delete(t.entrants, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

// Entrant returns a copy of one entrant.
func (t *Tournament) Entrant(name string) (Entrant, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entrants[name]
	if !ok {
		return Entrant{}, false
	}
	return *e, true
}

// Entrants returns copies of all entrants in joining order.
func (t *Tournament) Entrants() []Entrant {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entrant, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, *t.entrants[name])
	}
	return out
}

// GetState returns the current tournament state
func (t *Tournament) GetState() TournamentState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.State
}

// fullRounds is the number of rounds in which every pair meets once.
func (t *Tournament) fullRounds() int {
	n := len(t.order)
	if n%2 == 1 {
		n++
	}
	return n - 1
}

// Start freezes the entrant list and opens round 1.
func (t *Tournament) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TournamentStateWaiting {
		return ErrAlreadyStarted
	}
	if len(t.order) < 2 {
		return ErrNotEnough
	}
	if t.NumRounds <= 0 || t.NumRounds > t.fullRounds() {
		t.NumRounds = t.fullRounds()
	}

	now := time.Now()
	t.StartTime = &now
	t.State = TournamentStateInProgress
	t.Rounds = append(t.Rounds, t.newRound(1))
	return nil
}

// NextRound opens the next round once the current one is fully played. It
// returns nil and finishes the tournament after the last round.
func (t *Tournament) NextRound() (*Round, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TournamentStateInProgress {
		return nil, ErrNotStarted
	}
	current := t.Rounds[len(t.Rounds)-1]
	if !current.Finished {
		return nil, ErrRoundOpen
	}
	if current.Number >= t.NumRounds {
		now := time.Now()
		t.EndTime = &now
		t.State = TournamentStateFinished
		return nil, nil
	}

	round := t.newRound(current.Number + 1)
	t.Rounds = append(t.Rounds, round)
	return round, nil
}

// CurrentRound returns the open round, or nil before the start.
func (t *Tournament) CurrentRound() *Round {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.Rounds) == 0 {
		return nil
	}
	return t.Rounds[len(t.Rounds)-1]
}

// newRound pairs entrants with the circle method: the first entrant stays
// put and the rest rotate one place per round. An odd field gets a bye slot,
// and seats alternate between rounds.
func (t *Tournament) newRound(number int) *Round {
	slots := append([]string(nil), t.order...)
	if len(slots)%2 == 1 {
		slots = append(slots, "")
	}
	n := len(slots)
	rest := slots[1:]
	shift := (number - 1) % len(rest)
	arranged := make([]string, 0, n)
	arranged = append(arranged, slots[0])
	for i := range rest {
		arranged = append(arranged, rest[(i+shift)%len(rest)])
	}

	round := &Round{Number: number}
	for i := 0; i < n/2; i++ {
		a, b := arranged[i], arranged[n-1-i]
		if number%2 == 0 {
			a, b = b, a
		}
		switch {
		case a == "":
			round.Bye = b
		case b == "":
			round.Bye = a
		default:
			round.Pairings = append(round.Pairings, &Pairing{
				Entrant1: a,
				Entrant2: b,
				Seed:     fmt.Sprintf("%s/r%d/%s-%s", t.Seed, number, a, b),
			})
		}
	}

	if round.Bye != "" {
		e := t.entrants[round.Bye]
		e.Byes++
		e.Wins++
		e.Points += PointsWin
	}
	if len(round.Pairings) == 0 {
		round.Finished = true
	}
	return round
}

// RecordResult stores the outcome of a pairing in the open round. An empty
// winner is a draw.
func (t *Tournament) RecordResult(entrant1, entrant2, winner, checksum string, scores []int, moves int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TournamentStateInProgress {
		return ErrNotStarted
	}
	round := t.Rounds[len(t.Rounds)-1]

	var pairing *Pairing
	for _, p := range round.Pairings {
		if p.Entrant1 == entrant1 && p.Entrant2 == entrant2 && !p.Played {
			pairing = p
			break
		}
	}
	if pairing == nil {
		return fmt.Errorf("%w: %s vs %s in round %d", ErrPairingNotFound, entrant1, entrant2, round.Number)
	}
	if winner != "" && winner != entrant1 && winner != entrant2 {
		return fmt.Errorf("%w: winner %s", ErrUnknownEntrant, winner)
	}

	pairing.Winner = winner
	pairing.Checksum = checksum
	pairing.Scores = append([]int(nil), scores...)
	pairing.Moves = moves
	pairing.Played = true

	e1, e2 := t.entrants[entrant1], t.entrants[entrant2]
	switch winner {
	case entrant1:
		e1.Wins++
		e1.Points += PointsWin
		e2.Losses++
	case entrant2:
		e2.Wins++
		e2.Points += PointsWin
		e1.Losses++
	default:
		e1.Draws++
		e1.Points += PointsDraw
		e2.Draws++
		e2.Points += PointsDraw
	}

	round.Finished = true
	for _, p := range round.Pairings {
		if !p.Played {
			round.Finished = false
			break
		}
	}
	return nil
}

// Standings ranks entrants by points, then wins, then name.
func (t *Tournament) Standings() []Entrant {
	out := t.Entrants()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// RoundSnapshot captures round data for external use.
type RoundSnapshot struct {
	Number   int
	Finished bool
	Bye      string
	Pairings []Pairing
}

// TournamentSnapshot captures a consistent view of a tournament.
type TournamentSnapshot struct {
	ID         string
	Name       string
	Seed       string
	State      TournamentState
	Entrants   []Entrant
	Rounds     []RoundSnapshot
	NumRounds  int
	CreateTime time.Time
	StartTime  *time.Time
	EndTime    *time.Time
}

// Snapshot returns a consistent copy of the tournament state.
func (t *Tournament) Snapshot() TournamentSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entrants := make([]Entrant, 0, len(t.order))
	for _, name := range t.order {
		entrants = append(entrants, *t.entrants[name])
	}

	rounds := make([]RoundSnapshot, 0, len(t.Rounds))
	for _, r := range t.Rounds {
		pairings := make([]Pairing, 0, len(r.Pairings))
		for _, p := range r.Pairings {
			cp := *p
			cp.Scores = append([]int(nil), p.Scores...)
			pairings = append(pairings, cp)
		}
		rounds = append(rounds, RoundSnapshot{
			Number:   r.Number,
			Finished: r.Finished,
			Bye:      r.Bye,
			Pairings: pairings,
		})
	}

	return TournamentSnapshot{
		ID:         t.ID,
		Name:       t.Name,
		Seed:       t.Seed,
		State:      t.State,
		Entrants:   entrants,
		Rounds:     rounds,
		NumRounds:  t.NumRounds,
		CreateTime: t.CreateTime,
		StartTime:  cloneTime(t.StartTime),
		EndTime:    cloneTime(t.EndTime),
	}
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}

// Manager manages tournaments
type Manager struct {
	tournaments map[string]*Tournament
	mu          sync.RWMutex
	logger      *zap.Logger
}

// NewManager creates a new tournament manager
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		tournaments: make(map[string]*Tournament),
		logger:      logger,
	}
}

// CreateTournament creates and registers a tournament.
func (m *Manager) CreateTournament(name, seed string, numRounds int) *Tournament {
	m.mu.Lock()
	defer m.mu.Unlock()

	tournament := NewTournament(name, seed, numRounds)
	m.tournaments[tournament.ID] = tournament

	m.logger.Info("tournament created",
		zap.String("tournament_id", tournament.ID),
		zap.String("name", name),
		zap.String("seed", seed),
	)
	return tournament
}

// GetTournament retrieves a tournament by ID
func (m *Manager) GetTournament(tournamentID string) (*Tournament, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tournament, ok := m.tournaments[tournamentID]
	return tournament, ok
}

// RemoveTournament removes a tournament
func (m *Manager) RemoveTournament(tournamentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tournaments, tournamentID)

	m.logger.Info("tournament removed", zap.String("tournament_id", tournamentID))
}

// GetActiveTournamentCount returns the count of tournaments not yet finished.
func (m *Manager) GetActiveTournamentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, tournament := range m.tournaments {
		if tournament.GetState() != TournamentStateFinished {
			count++
		}
	}
	return count
}
