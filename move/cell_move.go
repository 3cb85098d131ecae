package move

import (
	"encoding/json"
	"fmt"
)

// CellMove carries whatever tile is at Source to Target. Any combination
// of board and rack positions is allowed.
type CellMove struct {
	Source Position
	Target Position
}

// New creates a cell move.
func New(source, target Position) CellMove {
	return CellMove{Source: source, Target: target}
}

func (m CellMove) String() string {
	return fmt.Sprintf("%v -> %v", m.Source, m.Target)
}

type wireCellMove struct {
	Source json.RawMessage `json:"source"`
	Target json.RawMessage `json:"target"`
}

func (m CellMove) MarshalJSON() ([]byte, error) {
	src, err := MarshalPosition(m.Source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	dst, err := MarshalPosition(m.Target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	return json.Marshal(wireCellMove{Source: src, Target: dst})
}

func (m *CellMove) UnmarshalJSON(data []byte) error {
	var w wireCellMove
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	src, err := UnmarshalPosition(w.Source)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	dst, err := UnmarshalPosition(w.Target)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	m.Source, m.Target = src, dst
	return nil
}
