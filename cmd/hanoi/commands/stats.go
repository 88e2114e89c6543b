package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/astar-hanoi/internal/store"
)

func newStatsCommand(a *app) *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded runs",
		Long: `Stats groups the runs recorded with "hanoi solve --record" by disks and
pegs, and reports the mean and standard deviation of the search time, the
number of moves and the number of expansions, together with the share of
runs that matched the known optimum.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(cmd.Context(), a.cfg.Store.Path)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			if recent > 0 {
				runs, err := s.ListRuns(cmd.Context(), recent)
				if err != nil {
					return err
				}
				if a.jsonOutput {
					return encodeJSON(out, runs)
				}
				return writeRuns(out, runs)
			}

			sums, err := s.Summaries(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return encodeJSON(out, sums)
			}
			return writeSummaries(out, sums)
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 0, "list this many recent runs instead of summaries")
	return cmd
}

func writeSummaries(w io.Writer, sums []store.Summary) error {
	if len(sums) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DISKS\tPEGS\tRUNS\tFOUND\tTIME\tMOVES\tEXPANDED\tNODES\tOPTIMAL")
	for _, s := range sums {
		optimal := "-"
		if s.Known > 0 {
			optimal = fmt.Sprintf("%.2f%%", 100*s.OptimalRate)
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s ± %s\t%.2f ± %.2f\t%.1f ± %.1f\t%.1f ± %.1f\t%s\n",
			s.Disks, s.Pegs, s.Runs, s.Found,
			s.MeanDuration().Round(time.Microsecond),
			time.Duration(s.Duration.StdDev*float64(time.Second)).Round(time.Microsecond),
			s.Moves.Mean, s.Moves.StdDev,
			s.Expanded.Mean, s.Expanded.StdDev,
			s.Nodes.Mean, s.Nodes.StdDev,
			optimal,
		)
	}
	return tw.Flush()
}

func writeRuns(w io.Writer, runs []store.Run) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tDISKS\tPEGS\tOUTCOME\tMOVES\tEXPANDED\tTIME")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%d\t%d\t%s\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Disks, r.Pegs, r.Outcome,
			r.Moves, r.Expanded, r.Duration.Round(time.Microsecond))
	}
	return tw.Flush()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
