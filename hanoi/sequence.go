package hanoi

import (
	"encoding/json"
	"fmt"
	"io"
)

const movementType = "movement"

// Movement is one step of an animation sequence. Pegs are numbered from 1.
type Movement struct {
	Type     string `json:"type"`
	Disk     int    `json:"disk"`
	PegStart int    `json:"peg_start"`
	PegEnd   int    `json:"peg_end"`
}

// InitialDocument describes the configuration a sequence starts from.
type InitialDocument struct {
	Pegs  [][]int `json:"pegs"`
	Disks int     `json:"disks"`
}

// Sequence converts actions into movements.
func Sequence(actions []Action) []Movement {
	moves := make([]Movement, len(actions))
	for i, a := range actions {
		moves[i] = Movement{Type: movementType, Disk: a.Disk, PegStart: a.From + 1, PegEnd: a.To + 1}
	}
	return moves
}

// WriteSequence encodes actions as an indented JSON array of movements.
func WriteSequence(w io.Writer, actions []Action) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(Sequence(actions))
}

// ReadSequence decodes a movement array back into actions.
func ReadSequence(r io.Reader) ([]Action, error) {
	var moves []Movement
	if err := json.NewDecoder(r).Decode(&moves); err != nil {
		return nil, fmt.Errorf("decode sequence: %w", err)
	}
	actions := make([]Action, 0, len(moves))
	for i, m := range moves {
		if m.Type != movementType {
			return nil, fmt.Errorf("sequence step %d: unsupported type %q", i, m.Type)
		}
		actions = append(actions, Action{Disk: m.Disk, From: m.PegStart - 1, To: m.PegEnd - 1})
	}
	return actions, nil
}

// Document returns the initial-state document for s.
func Document(s State) InitialDocument {
	return InitialDocument{Pegs: s.Pegs(), Disks: s.NumDisks()}
}

// WriteDocument encodes the initial-state document for s.
func WriteDocument(w io.Writer, s State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(Document(s))
}

// ReadDocument decodes an initial-state document and validates it.
func ReadDocument(r io.Reader) (State, error) {
	var doc InitialDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return State{}, fmt.Errorf("decode document: %w", err)
	}
	s, err := NewState(doc.Pegs...)
	if err != nil {
		return State{}, err
	}
	if doc.Disks != 0 && doc.Disks != s.NumDisks() {
		return State{}, fmt.Errorf("document declares %d disks but holds %d", doc.Disks, s.NumDisks())
	}
	return s, nil
}

// Replay applies actions to initial in order and returns the final state.
// Peg numbers outside initial are reported as errors rather than panics
// because sequences come from files.
func Replay(initial State, actions []Action) (State, error) {
	current := initial
	for i, a := range actions {
		if a.From < 0 || a.From >= current.NumPegs() || a.To < 0 || a.To >= current.NumPegs() {
			return State{}, fmt.Errorf("step %d: %w: %s", i, ErrInvalidPegIndex, a)
		}
		next, err := Apply(current, a)
		if err != nil {
			return State{}, fmt.Errorf("step %d: %w", i, err)
		}
		current = next
	}
	return current, nil
}
