package hanoi

import "fmt"

// Action moves Disk from the top of peg From to the top of peg To.
type Action struct {
	Disk int `json:"disk"`
	From int `json:"from"`
	To   int `json:"to"`
}

func (a Action) String() string {
	return fmt.Sprintf("disk %d: peg%d→peg%d", a.Disk, a.From, a.To)
}

// Inverse moves the same disk back.
func (a Action) Inverse() Action {
	return Action{Disk: a.Disk, From: a.To, To: a.From}
}

// Actions lists every legal single-disk move in s: the top disk of a source
// peg onto a peg that is empty or topped by a larger disk. Sources and then
// destinations are enumerated in ascending peg order.
func Actions(s State) []Action {
	var actions []Action
	for from := range s.pegs {
		disk, ok := s.Top(from)
		if !ok {
			continue
		}
		for to := range s.pegs {
			if to != from && s.canPlace(to, disk) {
				actions = append(actions, Action{Disk: disk, From: from, To: to})
			}
		}
	}
	return actions
}

// Apply returns the state reached by performing a on s. s is not modified.
// Peg indexes out of range panic with ErrInvalidPegIndex.
func Apply(s State, a Action) (State, error) {
	s.checkPeg(a.From)
	s.checkPeg(a.To)
	if a.From == a.To {
		return State{}, fmt.Errorf("%w: %s", ErrSamePeg, a)
	}
	top, ok := s.Top(a.From)
	if !ok {
		return State{}, fmt.Errorf("%w: %s", ErrEmptySourcePeg, a)
	}
	if top != a.Disk {
		return State{}, fmt.Errorf("%w: %s, top is %d", ErrDiskMismatch, a, top)
	}
	if !s.canPlace(a.To, top) {
		dest, _ := s.Top(a.To)
		return State{}, fmt.Errorf("%w: %s onto %d", ErrDestinationTooSmall, a, dest)
	}

	pegs := make([][]int, len(s.pegs))
	for i, peg := range s.pegs {
		switch i {
		case a.From:
			pegs[i] = append([]int(nil), peg[:len(peg)-1]...)
		case a.To:
			pegs[i] = append(append(make([]int, 0, len(peg)+1), peg...), top)
		default:
			// Untouched pegs are shared; states never mutate their slices.
			pegs[i] = peg
		}
	}
	return newState(pegs), nil
}
