// Package render draws Hanoi boards for the terminal.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/pdrpinto/astar-hanoi/hanoi"
)

const cellWidth = 5

// Disk colours from smallest to largest; larger disks reuse the last one.
var palette = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6", "#fb7185"}

// Board writes s as one column per peg, top row first.
func Board(w io.Writer, s hanoi.State, profile termenv.Profile) error {
	pegs := s.Pegs()

	headers := make([]string, len(pegs))
	height := 0
	for i, peg := range pegs {
		headers[i] = center(fmt.Sprintf("Peg %d", i+1), cellWidth+2)
		height = max(height, len(peg))
	}

	var b strings.Builder
	b.WriteString(strings.Join(headers, "|"))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", len(pegs)*(cellWidth+3)-1))
	b.WriteByte('\n')

	for row := height - 1; row >= 0; row-- {
		cells := make([]string, len(pegs))
		for i, peg := range pegs {
			if row >= len(peg) {
				cells[i] = strings.Repeat(" ", cellWidth+2)
				continue
			}
			cells[i] = " " + disk(peg[row], profile) + " "
		}
		b.WriteString(strings.Join(cells, "|"))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

// Solution writes the initial board followed by the board after each move.
func Solution(w io.Writer, initial hanoi.State, moves []hanoi.Action, profile termenv.Profile) error {
	if err := Board(w, initial, profile); err != nil {
		return err
	}
	state := initial
	for i, m := range moves {
		next, err := hanoi.Apply(state, m)
		if err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
		header := profile.String(fmt.Sprintf("Move %d: %s", i+1, m)).Bold()
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
		if err := Board(w, next, profile); err != nil {
			return err
		}
		state = next
	}
	return nil
}

func disk(n int, profile termenv.Profile) string {
	colour := palette[min(n, len(palette))-1]
	return profile.String(center(strconv.Itoa(n), cellWidth)).Foreground(profile.Color(colour)).String()
}

func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
