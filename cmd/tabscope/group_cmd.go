package main

import (
	"fmt"
	"strings"

	"github.com/nikbrunner/tabscope/internal/dragdrop"
	"github.com/spf13/cobra"
)

func newGroupCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Inspect and rearrange tab groups",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List groups in display order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				out := cmd.OutOrStdout()
				for _, g := range c.app.groups.Groups() {
					fmt.Fprintf(out, "%s %s\n", g.ID, g.Name)
					for _, id := range g.TabIDs {
						title := id
						if t, ok := c.app.tabs.TabByID(id); ok {
							title = t.Title
						}
						fmt.Fprintf(out, "    %s %s\n", id, title)
					}
				}
				return nil
			},
		},
		newGroupDropCmd(c),
	)
	return cmd
}

func newGroupDropCmd(c *cli) *cobra.Command {
	var kind, from, targetKind, target string

	cmd := &cobra.Command{
		Use:   "drop <id>",
		Short: "Apply a finished drag gesture",
		Long: `Drop the dragged tab or group <id> on a target.

  tab on tab              create a group of both
  tab on group            move the tab into the group
  tab on root             ungroup the tab
  group on root + anchor  move the group to the anchor's position

Other combinations do nothing.`,
		Example: `  tabscope group drop TAB_A --target-kind TAB --target TAB_B
  tabscope group drop GROUP_A --kind GROUP --target-kind ROOT --target GROUP_B`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := dragdrop.ParsePayload(
				dragdrop.Kind(strings.ToUpper(kind)), args[0], optional(cmd, "from", from))
			if err != nil {
				return err
			}
			dropTarget := dragdrop.ParseTarget(
				dragdrop.Kind(strings.ToUpper(targetKind)), optional(cmd, "target", target))

			command, err := c.app.coordinator.Drop(payload, dropTarget)
			if err != nil {
				return err
			}
			if command == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to do")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %T\n", command)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(dragdrop.KindTab), "Dragged item kind: TAB or GROUP")
	cmd.Flags().StringVar(&from, "from", "", "Group the dragged tab came from")
	cmd.Flags().StringVar(&targetKind, "target-kind", string(dragdrop.KindRoot), "Drop target kind: TAB, GROUP or ROOT")
	cmd.Flags().StringVar(&target, "target", "", "Drop target id, the anchor group for ROOT")
	return cmd
}

// optional returns nil for an unset flag.
func optional(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}
