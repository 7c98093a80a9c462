package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/babelgo/internal/htmlscript"
)

// HTMLOptions holds flags for the html command.
type HTMLOptions struct {
	*RootOptions
	Output     string
	PresetsDir string
}

// NewHTMLCommand creates the html command.
func NewHTMLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HTMLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "html <file>",
		Short: "Compile the Babel script tags of an HTML page",
		Long: `Compile every <script type="text/babel"> and <script type="text/jsx">
of an HTML page into plain JavaScript.

Presets and plugins come from the data-presets and data-plugins attributes
of each tag; tags without either use react and es2015. A src attribute is
read relative to the page.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHTML(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "write output to file instead of stdout")
	cmd.Flags().StringVar(&opts.PresetsDir, "presets-dir", "", "directory or file of CUE preset definitions")

	return cmd
}

func runHTML(opts *HTMLOptions, file string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	page, err := readInput(file, cmd.InOrStdin())
	if err != nil {
		return formatter.Fail(ErrCodeReadFailed, "failed to read page", err)
	}
	b, err := newCompiler(opts.RootOptions, opts.PresetsDir)
	if err != nil {
		return formatter.Fail(ErrCodeInvalidConfig, "failed to load presets", err)
	}

	out, err := htmlscript.TransformScriptTags(string(page), b, htmlscript.Options{BaseDir: filepath.Dir(file)})
	if err != nil {
		return formatter.Fail(ErrCodeCompileFailed, "transform failed", err)
	}

	if opts.Output != "" {
		if err := writeFile(opts.Output, []byte(out)); err != nil {
			return formatter.Fail(ErrCodeWriteFailed, "failed to write output", err)
		}
		if formatter.Format == "json" {
			return formatter.Success(map[string]string{"output": opts.Output})
		}
		return nil
	}
	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"html": out})
	}
	fmt.Fprint(formatter.Writer, out)
	return nil
}
