package hanoi

import (
	"fmt"
	"strconv"
	"strings"
)

// State is a configuration of disks on pegs. Each peg lists its disks from
// bottom to top, so the largest disk comes first. A State is immutable and
// carries no cost.
type State struct {
	pegs [][]int
	key  string
}

// NewState validates and copies pegs. Every disk must be positive, appear
// once across all pegs, and sit on a larger disk.
func NewState(pegs ...[]int) (State, error) {
	if len(pegs) == 0 {
		return State{}, ErrNoPegs
	}
	seen := make(map[int]int)
	copied := make([][]int, len(pegs))
	for i, peg := range pegs {
		for j, disk := range peg {
			if disk <= 0 {
				return State{}, fmt.Errorf("%w: %d on peg %d", ErrNonPositiveDisk, disk, i)
			}
			if other, ok := seen[disk]; ok {
				return State{}, fmt.Errorf("%w: %d on pegs %d and %d", ErrDuplicateDisk, disk, other, i)
			}
			seen[disk] = i
			if j > 0 && peg[j-1] <= disk {
				return State{}, fmt.Errorf("%w: peg %d %v", ErrUnsortedPeg, i, peg)
			}
		}
		copied[i] = append([]int(nil), peg...)
	}
	return newState(copied), nil
}

// newState takes ownership of pegs, which must already be valid.
func newState(pegs [][]int) State {
	return State{pegs: pegs, key: encodeKey(pegs)}
}

func encodeKey(pegs [][]int) string {
	var b strings.Builder
	for i, peg := range pegs {
		if i > 0 {
			b.WriteByte('|')
		}
		for j, disk := range peg {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(disk))
		}
	}
	return b.String()
}

// Classic returns disks 1..n stacked on peg from out of pegs pegs.
func Classic(n, pegs, from int) (State, error) {
	if pegs <= 0 {
		return State{}, ErrNoPegs
	}
	if from < 0 || from >= pegs {
		return State{}, fmt.Errorf("%w: %d (pegs: %d)", ErrInvalidPegIndex, from, pegs)
	}
	layout := make([][]int, pegs)
	for disk := n; disk >= 1; disk-- {
		layout[from] = append(layout[from], disk)
	}
	return NewState(layout...)
}

// Key encodes the peg contents exactly, e.g. "3,2|1|".
func (s State) Key() string { return s.key }

func (s State) NumPegs() int { return len(s.pegs) }

func (s State) NumDisks() int {
	n := 0
	for _, peg := range s.pegs {
		n += len(peg)
	}
	return n
}

// Peg returns a copy of peg i, bottom first.
func (s State) Peg(i int) []int {
	s.checkPeg(i)
	peg := make([]int, len(s.pegs[i]))
	copy(peg, s.pegs[i])
	return peg
}

// Pegs returns a copy of every peg.
func (s State) Pegs() [][]int {
	pegs := make([][]int, len(s.pegs))
	for i := range s.pegs {
		pegs[i] = s.Peg(i)
	}
	return pegs
}

// Top returns the disk on top of peg i.
func (s State) Top(i int) (int, bool) {
	s.checkPeg(i)
	peg := s.pegs[i]
	if len(peg) == 0 {
		return 0, false
	}
	return peg[len(peg)-1], true
}

// Equal reports whether s and other hold the same disks on the same pegs.
func (s State) Equal(other State) bool { return s.key == other.key && len(s.pegs) == len(other.pegs) }

func (s State) String() string {
	parts := make([]string, len(s.pegs))
	for i, peg := range s.pegs {
		parts[i] = fmt.Sprint(peg)
	}
	return strings.Join(parts, " ")
}

func (s State) checkPeg(i int) {
	if i < 0 || i >= len(s.pegs) {
		panic(fmt.Errorf("%w: %d (pegs: %d)", ErrInvalidPegIndex, i, len(s.pegs)))
	}
}

// canPlace reports whether disk may be put on peg i.
func (s State) canPlace(i, disk int) bool {
	top, ok := s.Top(i)
	return !ok || disk < top
}
