// Package game is the turn engine. A Game is a reducer: every change to
// the board, the bag, the racks, and the scores comes from a message
// passed to Apply, and peers that apply the same messages in the same
// order end up in the same state.
package game

import (
	"encoding/hex"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/Prior99/frabble/board"
	"github.com/Prior99/frabble/message"
	"github.com/Prior99/frabble/tilemapping"
)

const (
	// RackTileLimit is the size of a full rack.
	RackTileLimit = tilemapping.MaxLetters
	// BingoBonus is awarded for playing a full rack in one turn.
	BingoBonus = 50
)

// Game holds the state of one session as seen by one peer. It is not safe
// for concurrent use; the peer owns it and feeds it from a single loop.
type Game struct {
	localID string

	config message.GameConfig
	phase  message.Phase

	board              *board.Board
	letterDistribution *tilemapping.LetterDistribution
	bag                *tilemapping.Bag

	turnOrder   []string
	players     playerStates
	turn        int
	passedTurns map[int]bool

	deadline      *message.Deadline
	timeoutIssued int
	passing       *exchange

	disconnected map[string]bool
	clock        func() time.Time
	listener     Listener
}

// NewGame creates a game in the lobby for the local player with the given
// id.
func NewGame(localID string) *Game {
	ld := tilemapping.Canonical()
	return &Game{
		localID:            localID,
		phase:              message.PhaseLobby,
		board:              board.NewBoard(),
		letterDistribution: ld,
		bag:                tilemapping.NewBag(ld),
		players:            playerStates{},
		passedTurns:        map[int]bool{},
		timeoutIssued:      -1,
		disconnected:       map[string]bool{},
		clock:              time.Now,
	}
}

// NewSeed returns a random seed for a new game.
func NewSeed() string {
	return hex.EncodeToString(frand.Bytes(8))
}

// SetListener registers the function that receives every Event.
func (g *Game) SetListener(l Listener) {
	g.listener = l
}

// SetClock replaces the wall clock used for deadlines.
func (g *Game) SetClock(clock func() time.Time) {
	g.clock = clock
}

// SetDisconnected records whether a peer is currently unreachable. While
// anyone is disconnected the turn timer does not fire.
func (g *Game) SetDisconnected(playerID string, disconnected bool) {
	if disconnected {
		g.disconnected[playerID] = true
	} else {
		delete(g.disconnected, playerID)
	}
}

// Apply is the reducer. A message either applies completely or, if an
// error is returned, leaves the game untouched.
func (g *Game) Apply(origin string, m message.Message) error {
	if m == nil {
		return fmt.Errorf("%w: %w: nil message", ErrInconsistent, message.ErrUnknownKind)
	}
	log.Debug().Str("kind", string(m.Kind())).Str("origin", origin).
		Int("turn", g.turn).Msg("applying-message")

	var err error
	switch v := m.(type) {
	case message.GameStart:
		err = g.start(v)
	case message.CellMove:
		err = g.cellMove(origin, v.Source, v.Target)
	case message.Pass:
		err = g.pass(origin, v)
	case message.EndTurn:
		err = g.endTurn(origin)
	case message.Restart:
		err = g.restart()
	case message.Snapshot:
		err = g.Restore(v)
	default:
		err = fmt.Errorf("%w: %w: %s", ErrInconsistent, message.ErrUnknownKind, m.Kind())
	}
	if err != nil {
		log.Debug().Err(err).Str("kind", string(m.Kind())).Msg("message-rejected")
	}
	return err
}

func (g *Game) start(gs message.GameStart) error {
	ids := slices.Clone(gs.Players)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return ErrNoPlayers
	}
	rule, err := message.ParsePenaltyRule(string(gs.Config.PenaltyRule))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInconsistent, err)
	}

	g.config = gs.Config
	g.config.PenaltyRule = rule
	g.board.Initialize()
	g.bag.Initialize(g.config.Seed)
	g.turnOrder = shuffledTurnOrder(g.config.Seed, ids)
	g.deal()
	g.phase = message.PhaseStarted
	g.startDeadline()

	log.Info().Strs("turn-order", g.turnOrder).Int("bag", g.bag.Count()).
		Msg("game-started")
	g.emit(Event{Type: EventStarted, Turn: g.turn, PlayerID: g.CurrentPlayer()})
	return nil
}

// shuffledTurnOrder is a seeded Fisher-Yates pass over the sorted ids, so
// every peer arrives at the same order no matter when it saw each player
// connect.
func shuffledTurnOrder(seed string, sorted []string) []string {
	order := slices.Clone(sorted)
	rng := tilemapping.SeededRNG(seed, "turn-order")
	for i := len(order) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// deal gives every player in turn order a fresh full rack and zeroes the
// turn state.
func (g *Game) deal() {
	g.players = playerStates{}
	for _, id := range g.turnOrder {
		p := newPlayerState(id)
		p.rack.Add(g.bag.TakeMany(RackTileLimit)...)
		g.players[id] = p
	}
	g.turn = 0
	g.passedTurns = map[int]bool{}
	g.passing = nil
	g.timeoutIssued = -1
}

func (g *Game) restart() error {
	if g.phase == message.PhaseLobby {
		return ErrNotStarted
	}
	g.board.Initialize()
	g.bag.Refill()
	g.deal()
	g.phase = message.PhaseStarted
	g.startDeadline()

	log.Info().Int("bag", g.bag.Count()).Msg("game-restarted")
	g.emit(Event{Type: EventRestarted, Turn: g.turn, PlayerID: g.CurrentPlayer()})
	return nil
}

func (g *Game) startDeadline() {
	if g.config.TimeLimit <= 0 || g.phase != message.PhaseStarted {
		g.deadline = nil
		return
	}
	g.deadline = &message.Deadline{
		At:       g.clock().Add(g.config.TurnDuration()),
		FromTurn: g.turn,
	}
}

func (g *Game) player(id string) (*playerState, error) {
	p, ok := g.players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, id)
	}
	return p, nil
}

func (g *Game) requireTurn(origin string) (*playerState, error) {
	if g.phase != message.PhaseStarted {
		return nil, ErrNotStarted
	}
	if origin != g.CurrentPlayer() {
		return nil, fmt.Errorf("%w: %q, current is %q", ErrNotYourTurn, origin, g.CurrentPlayer())
	}
	return g.player(origin)
}

// LocalID is the id of the player this game belongs to.
func (g *Game) LocalID() string {
	return g.localID
}

// CurrentPlayer is the id of the player on turn, or "" before the first
// game started.
func (g *Game) CurrentPlayer() string {
	if len(g.turnOrder) == 0 {
		return ""
	}
	return g.turnOrder[g.turn%len(g.turnOrder)]
}

// IsLocalTurn reports whether the local player is on turn in a running
// game.
func (g *Game) IsLocalTurn() bool {
	return g.phase == message.PhaseStarted && g.CurrentPlayer() == g.localID
}

func (g *Game) Turn() int {
	return g.turn
}

func (g *Game) Phase() message.Phase {
	return g.phase
}

func (g *Game) IsGameOver() bool {
	return g.phase == message.PhaseGameOver
}

func (g *Game) Config() message.GameConfig {
	return g.config
}

// TurnOrder returns a copy of the turn order.
func (g *Game) TurnOrder() []string {
	return slices.Clone(g.turnOrder)
}

func (g *Game) Board() *board.Board {
	return g.board
}

func (g *Game) Bag() *tilemapping.Bag {
	return g.bag
}

func (g *Game) BagCount() int {
	return g.bag.Count()
}

func (g *Game) LetterDistribution() *tilemapping.LetterDistribution {
	return g.letterDistribution
}

// Rack returns the rack of the given player, or nil if there is no such
// player.
func (g *Game) Rack(playerID string) *tilemapping.Rack {
	p, ok := g.players[playerID]
	if !ok {
		return nil
	}
	return p.rack
}

// PointsFor returns the score of the player.
func (g *Game) PointsFor(playerID string) int {
	p, ok := g.players[playerID]
	if !ok {
		return 0
	}
	return p.points
}

// BingosFor returns how many bingos the player has played.
func (g *Game) BingosFor(playerID string) int {
	p, ok := g.players[playerID]
	if !ok {
		return 0
	}
	return p.bingos
}

// Deadline returns the running turn deadline, if any.
func (g *Game) Deadline() (message.Deadline, bool) {
	if g.deadline == nil {
		return message.Deadline{}, false
	}
	return *g.deadline, true
}

// PassedTurns returns the turns that ended with a pass, ascending.
func (g *Game) PassedTurns() []int {
	out := make([]int, 0, len(g.passedTurns))
	for t := range g.passedTurns {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// CurrentTurnValid checks the letters placed so far on this turn.
func (g *Game) CurrentTurnValid() board.Validity {
	return g.board.IsTurnValid(g.turn)
}

// CurrentTurnScore is what ending the turn now would award, bingo bonus
// included.
func (g *Game) CurrentTurnScore() int {
	score := g.board.TurnScore(g.turn, g.letterDistribution)
	if len(g.board.LettersForTurn(g.turn)) == RackTileLimit {
		score += BingoBonus
	}
	return score
}
