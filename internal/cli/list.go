package cli

import (
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/babelgo/internal/babel"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	PresetsDir string
}

// ListEntry is one available preset or plugin.
type ListEntry struct {
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Source string `json:"source"` // "builtin" | "cue"
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available presets and plugins",
		Long: `List the presets and plugins options can name: the builtins plus any
presets defined with --presets-dir.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.PresetsDir, "presets-dir", "", "directory or file of CUE preset definitions")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	b, err := newCompiler(opts.RootOptions, opts.PresetsDir)
	if err != nil {
		return formatter.Fail(ErrCodeInvalidConfig, "failed to load presets", err)
	}
	entries := listEntries(b, babel.New())

	if formatter.Format == "json" {
		return formatter.Success(entries)
	}
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{e.Kind, e.Name, e.Source}
	}
	formatter.Table(table.Row{"Kind", "Name", "Source"}, rows)
	return nil
}

// listEntries lists what b offers, presets first, marking names builtins
// does not have as defined in CUE.
func listEntries(b, builtins *babel.Babel) []ListEntry {
	entries := []ListEntry{}
	add := func(kind string, names, builtin []string) {
		for _, name := range names {
			source := "cue"
			if slices.Contains(builtin, name) {
				source = "builtin"
			}
			entries = append(entries, ListEntry{Kind: kind, Name: name, Source: source})
		}
	}
	add("preset", b.AvailablePresets(), builtins.AvailablePresets())
	add("plugin", b.AvailablePlugins(), builtins.AvailablePlugins())
	return entries
}
