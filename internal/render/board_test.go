package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/astar-hanoi/hanoi"
)

func TestBoard(t *testing.T) {
	s, err := hanoi.NewState([]int{3, 1}, []int{2}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Board(&buf, s, termenv.Ascii))

	want := strings.Join([]string{
		" Peg 1 | Peg 2 | Peg 3 ",
		"-----------------------",
		"   1   |       |       ",
		"   3   |   2   |       ",
		"",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestBoard_Empty(t *testing.T) {
	s, err := hanoi.NewState(nil, nil, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Board(&buf, s, termenv.Ascii))
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
}

func TestBoard_Colour(t *testing.T) {
	s, err := hanoi.Classic(2, 3, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Board(&buf, s, termenv.TrueColor))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestSolution(t *testing.T) {
	initial, err := hanoi.Classic(2, 3, 0)
	require.NoError(t, err)
	moves := []hanoi.Action{
		{Disk: 1, From: 0, To: 1},
		{Disk: 2, From: 0, To: 2},
		{Disk: 1, From: 1, To: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, Solution(&buf, initial, moves, termenv.Ascii))
	out := buf.String()
	assert.Equal(t, 4, strings.Count(out, "Peg 1"))
	assert.Contains(t, out, "Move 3: disk 1: peg1→peg2")

	err = Solution(&bytes.Buffer{}, initial, []hanoi.Action{{Disk: 2, From: 0, To: 1}}, termenv.Ascii)
	assert.ErrorIs(t, err, hanoi.ErrDiskMismatch)
}

func TestCenter(t *testing.T) {
	assert.Equal(t, "  7  ", center("7", 5))
	assert.Equal(t, " 12  ", center("12", 5))
	assert.Equal(t, "123456", center("123456", 5))
}
