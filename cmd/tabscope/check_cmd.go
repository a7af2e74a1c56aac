package main

import (
	"fmt"

	"github.com/nikbrunner/tabscope/internal/tabcheck"
	"github.com/nikbrunner/tabscope/internal/tabstore"
	"github.com/spf13/cobra"
)

func newTabCheckCmd(c *cli) *cobra.Command {
	var context string
	var closeDead bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report tabs whose pages are gone",
		Long: `Requests every tab URL of a context and lists the tabs that answered
404 or 410. Hosts in check.exclude_domains are reported as possibly
private instead of dead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if context == "" {
				context = c.app.profiles.ContextTag()
			}
			tabs := c.app.tabs.TabsInContext(context)

			results := tabcheck.Check(cmd.Context(), tabs, tabcheck.Params{
				Concurrency:    c.cfg.Check.Concurrency,
				Timeout:        c.cfg.Check.Timeout,
				ExcludeDomains: c.cfg.Check.ExcludeDomains,
				Logger:         c.app.logger.Named("check"),
			})

			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Status == tabcheck.Healthy || r.Status == tabcheck.Skipped {
					continue
				}
				detail := r.Error
				if r.Status == tabcheck.Dead {
					detail = fmt.Sprintf("HTTP %d", r.StatusCode)
				}
				fmt.Fprintf(out, "%-11s %s %s (%s)\n", r.Status, r.Tab.ID, r.Tab.URL, detail)
			}

			dead := tabcheck.DeadTabIDs(results)
			fmt.Fprintf(out, "Checked %d tabs, %d dead\n", len(results), len(dead))

			if closeDead {
				for _, id := range dead {
					if err := c.app.tabs.Dispatch(tabstore.RemoveTab{ID: id}); err != nil {
						return err
					}
				}
				if len(dead) > 0 {
					fmt.Fprintf(out, "Closed %d tabs\n", len(dead))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&context, "context", "", "Context tag to check (defaults to the current one)")
	cmd.Flags().BoolVar(&closeDead, "close", false, "Close dead tabs")
	return cmd
}
