package game

import (
	"fmt"
	"strings"

	"github.com/Prior99/frabble/message"
)

func splitSubN(s string, n int) []string {
	sub := ""
	subs := []string{}

	runes := []rune(s)
	l := len(runes)
	for i, r := range runes {
		sub = sub + string(r)
		if (i+1)%n == 0 {
			subs = append(subs, sub)
			sub = ""
		} else if (i + 1) == l {
			subs = append(subs, sub)
		}
	}

	return subs
}

func addText(lines []string, row int, hpad int, text string) {
	maxTextSize := 42
	sp := splitSubN(text, maxTextSize)

	for _, chunk := range sp {
		if row >= len(lines) {
			return
		}
		lines[row] = lines[row] + strings.Repeat(" ", hpad) + chunk
		row++
	}
}

// ToDisplayText renders the board with the scoreboard, the local rack and
// the state of the turn next to it. Only the local player's rack is shown.
func (g *Game) ToDisplayText() string {
	bt := g.board.ToDisplayText(g.turn)
	bts := strings.Split(bt, "\n")
	hpadding := 3
	vpadding := 3

	for i, id := range g.turnOrder {
		p := g.players[id]
		addText(bts, vpadding+i, hpadding,
			p.stateString(g.phase == message.PhaseStarted && id == g.CurrentPlayer(), id == g.localID))
	}

	row := vpadding + len(g.turnOrder) + 1
	addText(bts, row, hpadding, fmt.Sprintf("Bag: %d", g.bag.Count()))
	addText(bts, row+1, hpadding, fmt.Sprintf("Turn %d:", g.turn))

	switch g.phase {
	case message.PhaseLobby:
		addText(bts, row+2, hpadding, "Waiting for the game to start.")
	case message.PhaseGameOver:
		addText(bts, row+2, hpadding, "Game is over.")
	default:
		v := g.CurrentTurnValid()
		if v.Valid {
			addText(bts, row+2, hpadding, fmt.Sprintf("Placed letters score %d", g.CurrentTurnScore()))
		} else {
			addText(bts, row+2, hpadding, v.Reason)
		}
		if g.passing != nil {
			addText(bts, row+3, hpadding, fmt.Sprintf("Exchanging slots %v", g.passing.marked))
		}
		if d, ok := g.Deadline(); ok {
			addText(bts, row+4, hpadding, fmt.Sprintf("Deadline %s", d.At.Format("15:04:05")))
		}
	}
	return strings.Join(bts, "\n")
}
