package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newPrivateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "private",
		Short: "Switch private mode",
		Long: `While private mode is on, new tabs are tagged "private" and are not
attributed to any profile. The active profile is kept.`,
	}

	setter := func(on bool) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if err := c.app.profiles.SetPrivateMode(on); err != nil {
				return err
			}
			writePrivateStatus(cmd.OutOrStdout(), on)
			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "on", Short: "Turn private mode on", Args: cobra.NoArgs, RunE: setter(true)},
		&cobra.Command{Use: "off", Short: "Turn private mode off", Args: cobra.NoArgs, RunE: setter(false)},
		&cobra.Command{
			Use:   "status",
			Short: "Show whether private mode is on",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				writePrivateStatus(cmd.OutOrStdout(), c.app.profiles.IsPrivateMode())
				return nil
			},
		},
	)
	return cmd
}

func writePrivateStatus(w io.Writer, on bool) {
	state := "off"
	if on {
		state = "on"
	}
	fmt.Fprintf(w, "Private mode: %s\n", state)
}
