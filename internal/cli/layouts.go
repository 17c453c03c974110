package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeviz/pkg/layout"
)

// layoutsCommand lists the registered layouts.
func (c *CLI) layoutsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "layouts",
		Aliases: []string{"ls"},
		Short:   "List available layouts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(layout.All()))
			for _, l := range layout.All() {
				rows = append(rows, layoutRow(l))
			}
			fmt.Fprintln(stdout, layoutTable(rows, false, func(row, col int) lipgloss.Style {
				if col == 0 {
					return StyleHighlight
				}
				return lipgloss.NewStyle()
			}).Render())
			printNextStep("Show settings", appName+" layouts show <name>")
			return nil
		},
	}

	cmd.AddCommand(c.layoutsShowCommand())
	return cmd
}

// layoutsShowCommand prints one layout's settings schema, merged with any
// values from the config file.
func (c *CLI) layoutsShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show a layout's settings",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: completeLayouts,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := layout.Get(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(l.Schema())
			}

			configured := c.Config.LayoutSettings(l.Name(), nil)
			printKeyValue("Name", l.Name())
			printKeyValue("Display", l.DisplayName())
			printKeyValue("Shaders", shaderList(l.RequiredShaders()))
			if l.Thumbnail() != "" {
				printKeyValue("Thumbnail", StyleLink.Render(l.Thumbnail()))
			}
			printNewline()

			rows := make([][]string, 0, len(l.Schema()))
			for _, f := range l.Schema() {
				rows = append(rows, fieldRow(f, configured))
			}
			fmt.Fprintln(stdout, schemaTable(rows).Render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the schema as JSON")
	return cmd
}

// fieldRow renders a schema field: name, label, default, range and the
// configured value if the config file sets one.
func fieldRow(f layout.Field, configured layout.Settings) []string {
	rng := ""
	if f.Kind == layout.KindNumber {
		rng = fmt.Sprintf("%v – %v", f.Min, f.Max)
		if f.Step > 0 {
			rng += fmt.Sprintf(" (step %v)", f.Step)
		}
	}
	value := ""
	if v, ok := configured[f.Name]; ok {
		value = fmt.Sprintf("%v", v)
	}
	return []string{f.Name, f.Label, fmt.Sprintf("%v", f.Default), rng, value}
}

func schemaTable(rows [][]string) *table.Table {
	return newTable([]string{"Field", "Label", "Default", "Range", "Configured"}, rows,
		func(row, col int) lipgloss.Style {
			switch col {
			case 0:
				return StyleHighlight
			case 2:
				return StyleNumber
			case 4:
				return StyleSuccess
			}
			return lipgloss.NewStyle()
		})
}
