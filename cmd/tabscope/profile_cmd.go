package main

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/tabscope/internal/model"
	"github.com/nikbrunner/tabscope/internal/picker"
	"github.com/nikbrunner/tabscope/internal/search"
	"github.com/spf13/cobra"
)

func newProfileCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage profiles",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List profiles, the active one marked with *",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				active := c.app.profiles.ActiveProfile()
				for _, p := range c.app.profiles.AllProfiles() {
					writeProfile(cmd.OutOrStdout(), p, p.ID == active.ID)
				}
				return nil
			},
		},
		newProfileCreateCmd(c),
		newProfileUpdateCmd(c),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a profile and its storage area",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.profiles.DeleteProfile(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "use <query>",
			Short: "Activate a profile by id or fuzzy name",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, ok, err := pickProfile(cmd, c.app.profiles.AllProfiles(), strings.Join(args, " "))
				if err != nil || !ok {
					return err
				}
				if err := c.app.profiles.SetActiveProfile(p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Active profile: %s (%s)\n", p.Name, p.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "active",
			Short: "Show the active profile and the context new tabs get",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				p := c.app.profiles.ActiveProfile()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Profile: %s %s (%s)\n", p.Emoji, p.Name, p.ID)
				fmt.Fprintf(out, "Context: %s\n", c.app.profiles.ContextTag())
				return nil
			},
		},
	)
	return cmd
}

func newProfileCreateCmd(c *cli) *cobra.Command {
	var color, emoji string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a profile",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.app.profiles.CreateProfile(model.NewProfileParams{
				Name:  strings.Join(args, " "),
				Color: color,
				Emoji: emoji,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created profile %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Display color, e.g. #FF9500")
	cmd.Flags().StringVar(&emoji, "emoji", "", "Display emoji")
	return cmd
}

func newProfileUpdateCmd(c *cli) *cobra.Command {
	var name, color, emoji string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a profile's name, color or emoji",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := c.app.profiles.ProfileByID(args[0])
			if !ok {
				p = model.Profile{ID: args[0]}
			}
			if cmd.Flags().Changed("name") {
				p.Name = name
			}
			if cmd.Flags().Changed("color") {
				p.Color = color
			}
			if cmd.Flags().Changed("emoji") {
				p.Emoji = emoji
			}

			outcome, err := c.app.profiles.UpdateProfile(p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], outcome)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&color, "color", "", "New color")
	cmd.Flags().StringVar(&emoji, "emoji", "", "New emoji")
	return cmd
}

// pickProfile resolves query to one profile. Several matches open the
// interactive picker; ok is false when nothing was chosen.
func pickProfile(cmd *cobra.Command, profiles []model.Profile, query string) (model.Profile, bool, error) {
	results := search.FuzzySearchProfiles(profiles, query)

	switch len(results) {
	case 0:
		return model.Profile{}, false, fmt.Errorf("no profile matches %q", query)
	case 1:
		return results[0].Profile, true, nil
	}

	program := tea.NewProgram(
		picker.New(results, query),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	finalModel, err := program.Run()
	if err != nil {
		return model.Profile{}, false, fmt.Errorf("run picker: %w", err)
	}

	finalPicker := finalModel.(picker.Picker)
	if finalPicker.Cancelled() {
		return model.Profile{}, false, nil
	}
	p, ok := finalPicker.SelectedProfile()
	return p, ok, nil
}

func writeProfile(w io.Writer, p model.Profile, active bool) {
	marker := " "
	if active {
		marker = "*"
	}
	fmt.Fprintf(w, "%s %-36s %s %s %s\n", marker, p.ID, p.Emoji, p.Name, p.Color)
}
