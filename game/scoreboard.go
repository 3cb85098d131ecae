package game

import (
	"sort"

	"github.com/samber/lo"

	"github.com/Prior99/frabble/message"
)

// Standing is one row of the scoreboard.
type Standing struct {
	PlayerID string `json:"player_id" yaml:"player_id"`
	Score    int    `json:"score" yaml:"score"`
	Rank     int    `json:"rank" yaml:"rank"`
}

// Scoreboard ranks the players by score, highest first. Tied players share
// a rank and the next rank is skipped (1, 1, 3). Ties keep turn order.
func (g *Game) Scoreboard() []Standing {
	rows := lo.Map(g.Scores(), func(s message.Score, _ int) Standing {
		return Standing{PlayerID: s.PlayerID, Score: s.Score}
	})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })
	for i := range rows {
		if i > 0 && rows[i].Score == rows[i-1].Score {
			rows[i].Rank = rows[i-1].Rank
		} else {
			rows[i].Rank = i + 1
		}
	}
	return rows
}

// Rank returns the rank of the player, or 0 for an unknown player.
func (g *Game) Rank(playerID string) int {
	row, ok := lo.Find(g.Scoreboard(), func(s Standing) bool { return s.PlayerID == playerID })
	if !ok {
		return 0
	}
	return row.Rank
}
