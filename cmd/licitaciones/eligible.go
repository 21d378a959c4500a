package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/licitaciones/internal/eligibility"
)

func newEligibleCmd(c *cli) *cobra.Command {
	var openOnly bool
	cmd := &cobra.Command{
		Use:   "eligible [close-date...]",
		Short: "Report whether biddings are still open",
		Long: `Report whether each close date is today or later. Dates come from the
arguments, or one per line on stdin. Blank and "No disponible" dates count
as open.

Examples:
  licitaciones eligible 11/20/2025 "3 de diciembre"
  cut -f3 cierres.tsv | licitaciones eligible --open`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dates := args
			if len(dates) == 0 {
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					dates = append(dates, sc.Text())
				}
				if err := sc.Err(); err != nil {
					return err
				}
			}

			eval := eligibility.Evaluator{Logger: c.logger}
			out := cmd.OutOrStdout()
			for _, d := range dates {
				open := eval.IsOpen(d)
				switch {
				case openOnly && open:
					fmt.Fprintln(out, d)
				case !openOnly:
					state := "closed"
					if open {
						state = "open"
					}
					fmt.Fprintf(out, "%s\t%s\n", state, d)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&openOnly, "open", false, "print only the open dates")
	return cmd
}
