package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/astar-hanoi/hanoi"
	"github.com/pdrpinto/astar-hanoi/internal/render"
	"github.com/pdrpinto/astar-hanoi/internal/solver"
	"github.com/pdrpinto/astar-hanoi/internal/store"
	"github.com/pdrpinto/astar-hanoi/internal/telemetry"
)

type solveReport struct {
	RunID       string           `json:"run_id"`
	Disks       int              `json:"disks"`
	Pegs        int              `json:"pegs"`
	Found       bool             `json:"found"`
	Outcome     string           `json:"outcome"`
	Moves       int              `json:"moves"`
	Optimal     int              `json:"optimal,omitempty"`
	Expanded    int              `json:"expanded"`
	Generated   int              `json:"generated"`
	Stale       int              `json:"stale"`
	MaxFrontier int              `json:"max_frontier"`
	Seconds     float64          `json:"seconds"`
	Sequence    []hanoi.Movement `json:"sequence"`
}

func newSolveCommand(a *app) *cobra.Command {
	var (
		req         solver.Request
		sequenceOut string
		documentOut string
		show        bool
		record      bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a classic Towers of Hanoi instance",
		Long: `Solve moves a full stack of disks from one peg to another with the fewest
moves. Pegs are numbered from 0 on the command line and from 1 in the
exported sequence.

Flags override the puzzle and search sections of the config file.`,
		Example: `  # Three disks from peg 0 to peg 2
  hanoi solve

  # Five disks on four pegs, showing every board
  hanoi solve --disks 5 --pegs 4 --to 3 --show

  # Export the animation sequence and record the run
  hanoi solve --disks 4 --sequence-out movimientos.json --record`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("disks") {
				req.Disks = a.cfg.Puzzle.Disks
			}
			if !flags.Changed("pegs") {
				req.Pegs = a.cfg.Puzzle.Pegs
			}
			if !flags.Changed("from") {
				req.From = a.cfg.Puzzle.From
			}
			if !flags.Changed("to") {
				req.To = a.cfg.Puzzle.To
			}
			if !flags.Changed("max-expansions") {
				req.MaxExpansions = a.cfg.Search.MaxExpansions
			}
			if err := req.Validate(0); err != nil {
				return err
			}

			tracer, err := telemetry.NewTracer(a.cfg.Tracing, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				if err := tracer.Shutdown(cmd.Context()); err != nil {
					a.logger.Warn().Err(err).Msg("Tracer shutdown failed")
				}
			}()

			runner := &solver.Runner{Logger: a.logger, Tracer: tracer}
			if record {
				s, err := store.Open(cmd.Context(), a.cfg.Store.Path)
				if err != nil {
					return err
				}
				defer s.Close()
				runner.Recorder = s
			}

			report, err := runner.Solve(cmd.Context(), req)
			if err != nil {
				return err
			}

			moves := report.Result.Solution()
			if sequenceOut != "" {
				if err := writeFile(sequenceOut, func(w io.Writer) error { return hanoi.WriteSequence(w, moves) }); err != nil {
					return err
				}
				a.logger.Info().Str("path", sequenceOut).Int("moves", len(moves)).Msg("Wrote sequence")
			}
			if documentOut != "" {
				if err := writeFile(documentOut, func(w io.Writer) error { return hanoi.WriteDocument(w, report.Problem.Initial) }); err != nil {
					return err
				}
				a.logger.Info().Str("path", documentOut).Msg("Wrote initial state")
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return writeSolveJSON(out, req, report)
			}
			return writeSolveText(out, req, report, show)
		},
	}

	cmd.Flags().IntVarP(&req.Disks, "disks", "n", 3, "number of disks")
	cmd.Flags().IntVar(&req.Pegs, "pegs", 3, "number of pegs")
	cmd.Flags().IntVar(&req.From, "from", 0, "source peg (0-based)")
	cmd.Flags().IntVar(&req.To, "to", 2, "destination peg (0-based)")
	cmd.Flags().IntVar(&req.MaxExpansions, "max-expansions", 0, "stop after this many expansions (0 means no limit)")
	cmd.Flags().StringVar(&sequenceOut, "sequence-out", "", "write the movement sequence JSON to this file")
	cmd.Flags().StringVar(&documentOut, "document-out", "", "write the initial state JSON to this file")
	cmd.Flags().BoolVar(&show, "show", false, "render the board after every move")
	cmd.Flags().BoolVar(&record, "record", false, "record the run in the run store")

	return cmd
}

func writeSolveJSON(w io.Writer, req solver.Request, report solver.Report) error {
	result := report.Result
	moves := result.Solution()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(solveReport{
		RunID:       report.RunID,
		Disks:       req.Disks,
		Pegs:        req.Pegs,
		Found:       result.Found,
		Outcome:     result.Outcome.String(),
		Moves:       len(moves),
		Optimal:     report.Optimal,
		Expanded:    result.Stats.Expanded,
		Generated:   result.Stats.Generated,
		Stale:       result.Stats.Stale,
		MaxFrontier: result.Stats.MaxFrontier,
		Seconds:     result.Stats.Duration.Seconds(),
		Sequence:    hanoi.Sequence(moves),
	})
}

func writeSolveText(w io.Writer, req solver.Request, report solver.Report, show bool) error {
	result := report.Result
	if !result.Found {
		_, err := fmt.Fprintf(w, "No solution for %d disks on %d pegs (%s after %d expansions)\n",
			req.Disks, req.Pegs, result.Outcome, result.Stats.Expanded)
		return err
	}

	moves := result.Solution()
	fmt.Fprintf(w, "Solved %d disks on %d pegs in %s\n", req.Disks, req.Pegs, result.Stats.Duration)
	if report.Optimal > 0 {
		fmt.Fprintf(w, "Moves: %d (optimal %d)\n", len(moves), report.Optimal)
	} else {
		fmt.Fprintf(w, "Moves: %d\n", len(moves))
	}
	fmt.Fprintf(w, "Expanded: %d  Generated: %d  Stale: %d  Max frontier: %d\n\n",
		result.Stats.Expanded, result.Stats.Generated, result.Stats.Stale, result.Stats.MaxFrontier)

	if show {
		return render.Solution(w, report.Problem.Initial, moves, profile(w))
	}
	for i, m := range moves {
		if _, err := fmt.Fprintf(w, "%3d. %s\n", i+1, m); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return write(f)
}
