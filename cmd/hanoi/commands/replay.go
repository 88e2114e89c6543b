package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/astar-hanoi/hanoi"
	"github.com/pdrpinto/astar-hanoi/internal/render"
)

func newReplayCommand(a *app) *cobra.Command {
	var (
		initialPath string
		goalPeg     int
		show        bool
	)

	cmd := &cobra.Command{
		Use:   "replay <sequence.json>",
		Short: "Check a movement sequence against an initial configuration",
		Long: `Replay applies every movement of a sequence file and reports the final
configuration. The starting configuration is read from --initial, or built
from the puzzle section of the config file when --initial is not given.

Replay fails on the first illegal move. It also reports whether every disk
ended up on the goal peg, given by --to or the configured destination.`,
		Example: `  hanoi solve --disks 4 --sequence-out seq.json --document-out initial.json
  hanoi replay --initial initial.json seq.json
  hanoi solve --to 1 --sequence-out seq.json && hanoi replay --to 1 seq.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			puzzle := a.cfg.Puzzle
			if !cmd.Flags().Changed("to") {
				goalPeg = puzzle.To
			}

			var initial hanoi.State
			if initialPath != "" {
				f, err := os.Open(initialPath)
				if err != nil {
					return err
				}
				defer f.Close()
				if initial, err = hanoi.ReadDocument(f); err != nil {
					return fmt.Errorf("%s: %w", initialPath, err)
				}
			} else {
				var err error
				if initial, err = hanoi.Classic(puzzle.Disks, puzzle.Pegs, puzzle.From); err != nil {
					return err
				}
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			moves, err := hanoi.ReadSequence(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if goalPeg < 0 || goalPeg >= initial.NumPegs() {
				return fmt.Errorf("goal peg: %w: %d", hanoi.ErrInvalidPegIndex, goalPeg)
			}
			final, err := hanoi.Replay(initial, moves)
			if err != nil {
				return err
			}
			goalReached := len(final.Peg(goalPeg)) == final.NumDisks()

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return encodeJSON(out, map[string]any{
					"moves":        len(moves),
					"final":        hanoi.Document(final),
					"goal_reached": goalReached,
				})
			}
			if show {
				if err := render.Solution(out, initial, moves, profile(out)); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "Replayed %d moves\nFinal: %s\n", len(moves), final)
			if goalReached {
				fmt.Fprintf(out, "Goal reached: all disks on peg %d\n", goalPeg)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&initialPath, "initial", "", "initial state JSON (defaults to the configured puzzle)")
	cmd.Flags().IntVar(&goalPeg, "to", 2, "goal peg (0-based, defaults to the configured destination)")
	cmd.Flags().BoolVar(&show, "show", false, "render the board after every move")
	return cmd
}
