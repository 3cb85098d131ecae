package shell

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Prior99/frabble/game"
	"github.com/Prior99/frabble/message"
	"github.com/Prior99/frabble/move"
	"github.com/Prior99/frabble/peer"
)

type handler func(sc *ShellController, cmd *shellcmd) (*Response, error)

var commands map[string]handler

func init() {
	commands = map[string]handler{
		"help":     (*ShellController).help,
		"start":    (*ShellController).start,
		"restart":  (*ShellController).restart,
		"board":    (*ShellController).board,
		"rack":     (*ShellController).rack,
		"scores":   (*ShellController).scores,
		"status":   (*ShellController).status,
		"users":    (*ShellController).users,
		"move":     (*ShellController).move,
		"pass":     (*ShellController).pass,
		"mark":     (*ShellController).mark,
		"unmark":   (*ShellController).unmark,
		"confirm":  (*ShellController).confirm,
		"cancel":   (*ShellController).cancel,
		"end":      (*ShellController).end,
		"valid":    (*ShellController).valid,
		"snapshot": (*ShellController).snapshot,
		"exit":     func(*ShellController, *shellcmd) (*Response, error) { return nil, errExit },
	}
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return &Response{message: usage()}, nil
	}
	return &Response{message: usageTopic(cmd.args[0])}, nil
}

func (sc *ShellController) start(cmd *shellcmd) (*Response, error) {
	cfg := sc.gameConfig
	if len(cmd.args) > 0 {
		cfg.Seed = cmd.args[0]
	}
	if v, ok := cmd.options["time-limit"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("bad time limit %q", v)
		}
		cfg.TimeLimit = n
	}
	if v, ok := cmd.options["penalty-rule"]; ok {
		rule, err := message.ParsePenaltyRule(v)
		if err != nil {
			return nil, err
		}
		cfg.PenaltyRule = rule
	}
	if err := sc.peer.StartGame(cfg); err != nil {
		return nil, err
	}
	return sc.status(cmd)
}

func (sc *ShellController) restart(cmd *shellcmd) (*Response, error) {
	if err := sc.peer.Restart(); err != nil {
		return nil, err
	}
	return sc.status(cmd)
}

func (sc *ShellController) view(f func(g *game.Game) string) (*Response, error) {
	var s string
	if err := sc.peer.View(func(g *game.Game) { s = f(g) }); err != nil {
		return nil, err
	}
	return &Response{message: s}, nil
}

func (sc *ShellController) board(*shellcmd) (*Response, error) {
	return sc.view(func(g *game.Game) string { return g.Board().ToDisplayText(g.Turn()) })
}

func (sc *ShellController) status(*shellcmd) (*Response, error) {
	return sc.view(func(g *game.Game) string { return g.ToDisplayText() })
}

func (sc *ShellController) rack(*shellcmd) (*Response, error) {
	return sc.view(func(g *game.Game) string {
		var sb strings.Builder
		marked := map[int]bool{}
		for _, i := range g.Marked() {
			marked[i] = true
		}
		r := g.Rack(g.LocalID())
		if r == nil {
			return "you are not in this game"
		}
		for _, s := range r.Slots() {
			star := ""
			if marked[s.Index] {
				star = "*"
			}
			fmt.Fprintf(&sb, "r:%d %s%s (%d)\n", s.Index, s.Letter.UserVisible(), star, g.LetterDistribution().Score(s.Letter))
		}
		return strings.TrimSuffix(sb.String(), "\n")
	})
}

func (sc *ShellController) scores(*shellcmd) (*Response, error) {
	roster := sc.peer.Roster()
	return sc.view(func(g *game.Game) string {
		var sb strings.Builder
		for _, s := range g.Scoreboard() {
			fmt.Fprintf(&sb, "%d. %-20s %4d", s.Rank, roster.Name(s.PlayerID), s.Score)
			if b := g.BingosFor(s.PlayerID); b > 0 {
				fmt.Fprintf(&sb, "  bingos: %d", b)
			}
			sb.WriteString("\n")
		}
		return strings.TrimSuffix(sb.String(), "\n")
	})
}

func (sc *ShellController) users(*shellcmd) (*Response, error) {
	roster := sc.peer.Roster()
	var sb strings.Builder
	for _, u := range roster.Users() {
		state := "connected"
		if !roster.Connected(u.ID) {
			state = "disconnected"
		}
		me := ""
		if u.ID == sc.peer.ID() {
			me = " (you)"
		}
		fmt.Fprintf(&sb, "%s %s %s%s\n", u.ID, u.Name, state, me)
	}
	return &Response{message: strings.TrimSuffix(sb.String(), "\n")}, nil
}

func (sc *ShellController) move(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 {
		return nil, fmt.Errorf("usage: move <from> <to>, e.g. move r:0 b:0,0")
	}
	src, err := move.ParsePosition(cmd.args[0], sc.peer.ID())
	if err != nil {
		return nil, err
	}
	dst, err := move.ParsePosition(cmd.args[1], sc.peer.ID())
	if err != nil {
		return nil, err
	}
	if err := sc.peer.Move(sc.ctx, src, dst); err != nil {
		return nil, err
	}
	return nil, nil
}

func slotArg(cmd *shellcmd) (int, error) {
	if len(cmd.args) != 1 {
		return 0, fmt.Errorf("usage: %s <slot>", cmd.cmd)
	}
	s := strings.TrimPrefix(cmd.args[0], "r:")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("bad slot %q", cmd.args[0])
	}
	return n, nil
}

func (sc *ShellController) pass(*shellcmd) (*Response, error) {
	if err := sc.peer.StartPassing(); err != nil {
		return nil, err
	}
	return msg("Mark the letters to exchange, then confirm. Confirm with nothing marked to pass."), nil
}

func (sc *ShellController) mark(cmd *shellcmd) (*Response, error) {
	n, err := slotArg(cmd)
	if err != nil {
		return nil, err
	}
	if err := sc.peer.Mark(n); err != nil {
		return nil, err
	}
	return sc.rack(cmd)
}

func (sc *ShellController) unmark(cmd *shellcmd) (*Response, error) {
	n, err := slotArg(cmd)
	if err != nil {
		return nil, err
	}
	if err := sc.peer.Unmark(n); err != nil {
		return nil, err
	}
	return sc.rack(cmd)
}

func (sc *ShellController) confirm(*shellcmd) (*Response, error) {
	return nil, sc.peer.ConfirmPassing(sc.ctx)
}

func (sc *ShellController) cancel(*shellcmd) (*Response, error) {
	return nil, sc.peer.CancelPassing()
}

func (sc *ShellController) end(*shellcmd) (*Response, error) {
	var v struct {
		ok     bool
		reason string
	}
	err := sc.peer.View(func(g *game.Game) {
		tv := g.CurrentTurnValid()
		v.ok, v.reason = tv.Valid, tv.Reason
	})
	if err != nil {
		return nil, err
	}
	if !v.ok {
		return nil, fmt.Errorf("cannot end turn: %s", v.reason)
	}
	return nil, sc.peer.EndTurn(sc.ctx)
}

func (sc *ShellController) valid(*shellcmd) (*Response, error) {
	return sc.view(func(g *game.Game) string {
		v := g.CurrentTurnValid()
		if !v.Valid {
			return v.Reason
		}
		var words []string
		for _, w := range g.Board().Words(g.Turn()) {
			words = append(words, w.String())
		}
		return fmt.Sprintf("valid, %d points: %s", g.CurrentTurnScore(), strings.Join(words, ", "))
	})
}

func (sc *ShellController) snapshot(*shellcmd) (*Response, error) {
	var s message.Snapshot
	if err := sc.peer.View(func(g *game.Game) { s = g.Snapshot() }); err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, err
	}
	return &Response{message: string(out)}, nil
}

// describe turns a peer event into a line for the user.
func describe(e peer.Event, roster *peer.Roster) string {
	switch e.Type {
	case peer.EventUserConnected:
		return e.User.Name + " joined"
	case peer.EventUserDisconnected:
		return e.User.Name + " left"
	case peer.EventDesynchronized:
		return "out of sync with the host, reloading: " + e.Err.Error()
	case peer.EventRejected:
		return "the host refused: " + e.Err.Error()
	case peer.EventGame:
		ge := e.Game
		name := roster.Name(ge.PlayerID)
		switch ge.Type {
		case game.EventStarted:
			return "the game has started"
		case game.EventRestarted:
			return "the game was restarted"
		case game.EventTurnEnded:
			s := fmt.Sprintf("%s scored %d", name, ge.Score)
			if ge.Bingo {
				s += " (bingo!)"
			}
			return s
		case game.EventPassed:
			return name + " passed"
		case game.EventGameOver:
			return "game over"
		case game.EventResynced:
			return "state reloaded from the host"
		}
	}
	return ""
}
