package main

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/nikbrunner/tabscope/internal/exporter"
	"github.com/nikbrunner/tabscope/internal/importer"
	"github.com/nikbrunner/tabscope/internal/model"
	"github.com/nikbrunner/tabscope/internal/profile"
	"github.com/nikbrunner/tabscope/internal/tabstore"
	"github.com/spf13/cobra"
)

func newTabCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tab",
		Short: "Open, list and move tabs",
	}

	cmd.AddCommand(
		newTabOpenCmd(c),
		newTabListCmd(c),
		&cobra.Command{
			Use:   "close <id>",
			Short: "Close a tab",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.app.tabs.Dispatch(tabstore.RemoveTab{ID: args[0]})
			},
		},
		&cobra.Command{
			Use:   "select <id>",
			Short: "Select a tab",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.app.tabs.Dispatch(tabstore.SelectTab{ID: args[0]})
			},
		},
		newTabMigrateCmd(c),
		newTabImportCmd(c),
		newTabExportCmd(c),
		newTabCheckCmd(c),
	)
	return cmd
}

func newTabOpenCmd(c *cli) *cobra.Command {
	var title string
	var background bool

	cmd := &cobra.Command{
		Use:   "open <url>",
		Short: "Open a tab in the current context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab := model.NewTab(model.NewTabParams{URL: args[0], Title: title})
			if err := c.app.tabs.Dispatch(tabstore.AddTab{Tab: tab, Select: !background}); err != nil {
				return err
			}

			opened, _ := c.app.tabs.TabByID(tab.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Opened %s in %s\n", opened.ID, opened.ContextID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Tab title (defaults to the url)")
	cmd.Flags().BoolVar(&background, "background", false, "Do not select the new tab")
	return cmd
}

func newTabListCmd(c *cli) *cobra.Command {
	var all bool
	var context string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tabs of the current context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var tabs []model.Tab
			switch {
			case all:
				tabs = c.app.tabs.Tabs()
			case context != "":
				tabs = c.app.tabs.TabsInContext(context)
			default:
				tabs = c.app.tabs.TabsInContext(c.app.profiles.ContextTag())
			}

			selected := c.app.tabs.SelectedID()
			for _, t := range tabs {
				writeTab(cmd.OutOrStdout(), t, t.ID == selected)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List tabs of every context")
	cmd.Flags().StringVar(&context, "context", "", "List tabs of this context tag")
	return cmd
}

func newTabMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <profile-id|private> <tab-id>...",
		Short: "Move tabs to another profile or to private mode",
		Long: `Each tab is recreated in the target context and the original is closed.
The new tab gets a new id. Tabs already in the target are left alone.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, ids := args[0], args[1:]
			out := cmd.OutOrStdout()

			if len(ids) == 1 {
				res, err := c.app.migrator.MigrateTab(ids[0], target)
				if err != nil {
					return err
				}
				if res.Outcome == profile.Migrated {
					fmt.Fprintf(out, "%s: %s as %s\n", ids[0], res.Outcome, res.NewTabID)
				} else {
					fmt.Fprintf(out, "%s: %s\n", ids[0], res.Outcome)
				}
				return nil
			}

			n, err := c.app.migrator.MigrateTabs(ids, target)
			fmt.Fprintf(out, "Migrated %d of %d tabs to %s\n", n, len(ids), profile.TargetContextTag(target))
			return err
		},
	}
}

func newTabImportCmd(c *cli) *cobra.Command {
	var group bool

	cmd := &cobra.Command{
		Use:   "import <file.html>",
		Short: "Open every link of a bookmark export as a tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer file.Close()

			seeds, err := importer.ParseHTMLTabs(file)
			if err != nil {
				return fmt.Errorf("parse import file: %w", err)
			}

			byFolder := map[string][]string{}
			var folders []string
			for _, seed := range seeds {
				tab := model.NewTab(model.NewTabParams{URL: seed.URL, Title: seed.Title})
				if err := c.app.tabs.Dispatch(tabstore.AddTab{Tab: tab}); err != nil {
					return err
				}
				if seed.Folder == "" {
					continue
				}
				if _, seen := byFolder[seed.Folder]; !seen {
					folders = append(folders, seed.Folder)
				}
				byFolder[seed.Folder] = append(byFolder[seed.Folder], tab.ID)
			}

			groups := 0
			if group {
				for _, folder := range folders {
					ok, err := groupTabs(c, byFolder[folder])
					if err != nil {
						return err
					}
					if ok {
						groups++
					}
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tabs into %s", len(seeds), c.app.profiles.ContextTag())
			if groups > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " (%d groups)", groups)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().BoolVar(&group, "group", false, "Group tabs that shared a folder")
	return cmd
}

// groupTabs puts ids into one new group. Fewer than two tabs form no group.
func groupTabs(c *cli, ids []string) (bool, error) {
	if len(ids) < 2 {
		return false, nil
	}
	if err := c.app.groups.CreateGroupFromTabs(ids[0], ids[1]); err != nil {
		return false, err
	}
	groupID, _ := c.app.groups.GroupOf(ids[0])
	for _, id := range ids[2:] {
		if err := c.app.groups.AddTabToGroup(id, groupID, nil); err != nil {
			return false, err
		}
	}
	return true, nil
}

func newTabExportCmd(c *cli) *cobra.Command {
	var context string
	var toClipboard bool

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Export tabs of a context as bookmark HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if context == "" {
				context = c.app.profiles.ContextTag()
			}
			tabs := c.app.tabs.TabsInContext(context)

			html := exporter.ExportHTML(exporter.ExportParams{
				Title:  context,
				Tabs:   tabs,
				Groups: c.app.groups.Groups(),
			})

			if toClipboard {
				if err := clipboard.WriteAll(html); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Copied %d tabs to clipboard\n", len(tabs))
				return nil
			}

			var outputPath string
			if len(args) == 1 {
				outputPath = args[0]
			} else {
				var err error
				outputPath, err = exporter.DefaultExportPath(context)
				if err != nil {
					return fmt.Errorf("default export path: %w", err)
				}
			}

			if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tabs to %s\n", len(tabs), outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&context, "context", "", "Context tag to export (defaults to the current one)")
	cmd.Flags().BoolVar(&toClipboard, "clipboard", false, "Copy the HTML instead of writing a file")
	return cmd
}

func writeTab(w io.Writer, t model.Tab, selected bool) {
	marker := " "
	if selected {
		marker = "*"
	}
	fmt.Fprintf(w, "%s %-36s %-44s %s %s\n", marker, t.ID, t.ContextID, t.Title, t.URL)
}
