package game

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Prior99/frabble/tilemapping"
)

type playerState struct {
	id     string
	rack   *tilemapping.Rack
	points int
	bingos int
	turns  int
}

func newPlayerState(id string) *playerState {
	return &playerState{id: id, rack: tilemapping.NewRack()}
}

func (p *playerState) resetScore() {
	p.points = 0
	p.bingos = 0
	p.turns = 0
}

// drawUpTo tops the rack up to a full rack from the bag, as far as the bag
// allows.
func (p *playerState) drawUpTo(bag *tilemapping.Bag) []tilemapping.Letter {
	missing := p.rack.MissingCount()
	if missing <= 0 {
		return nil
	}
	drawn := bag.TakeMany(missing)
	p.rack.Add(drawn...)
	log.Debug().Str("player", p.id).Int("drawn", len(drawn)).
		Stringer("rack", p.rack).Msg("rack-refilled")
	return drawn
}

func (p *playerState) stateString(onturn, showRack bool) string {
	marker := ""
	if onturn {
		marker = "-> "
	}
	rack := ""
	if showRack {
		rack = p.rack.String()
	}
	return fmt.Sprintf("%4v%20v%12v %4v", marker, p.id, rack, p.points)
}

type playerStates map[string]*playerState

func (ps playerStates) resetScore() {
	for _, p := range ps {
		p.resetScore()
	}
}
