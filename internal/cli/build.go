package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgtree/pkg/observability"
	"github.com/matzehuels/orgtree/pkg/pipeline"
)

// buildOpts holds flags for the build command.
type buildOpts struct {
	includeInactive bool
	formats         string
	output          string
	detailed        bool
	noCache         bool
	refresh         bool
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{formats: pipeline.FormatText}

	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Build the organization tree",
		Long: `Build the organization tree from a positions/relationships document.

The input is a JSON or TOML file, - for stdin, or the source configured in
the config file when no argument is given. A single format is written to
stdout unless --output is set; several formats are written next to the
output base path, one file per format.`,
		Example: `  # Print the tree as an outline
  orgtree build org.json

  # Include inactive positions and render an SVG
  orgtree build org.json --inactive -f svg -o org.svg

  # Several formats at once (writes org.json, org.dot, org.svg)
  orgtree build export.toml -f json,dot,svg -o org

  # Use the configured MongoDB or REST source
  orgtree build -f json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runBuild(cmd, input, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.includeInactive, "inactive", false, "include inactive positions and relationships")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "output formats, comma-separated: "+strings.Join(pipeline.ValidFormats, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple formats)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show ids, relationship ids and attributes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached trees and artifacts")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, input string, opts buildOpts) error {
	ctx := cmd.Context()
	out := ui{w: cmd.ErrOrStderr()}

	formats := pipeline.ParseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if c.verbose() {
		restore := observability.Install(observability.All(observability.NewLogHooks(c.Logger)))
		defer restore()
	}

	loader, closeLoader, err := newLoader(ctx, cfg, input, c.Logger)
	if err != nil {
		return err
	}
	defer closeLoader()

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, loader, pipeline.Options{
		IncludeInactive: opts.includeInactive,
		Formats:         formats,
		Detailed:        opts.detailed,
		Refresh:         opts.refresh,
	})
	if err != nil {
		return err
	}

	if len(formats) == 1 && opts.output == "" {
		_, err := cmd.OutOrStdout().Write(result.Artifacts[formats[0]])
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, formats, opts.output)
	if err != nil {
		return err
	}

	out.success("Built organization tree from %s", result.Source)
	out.stats(result.Stats, result.CacheInfo.BuildHit)
	out.diagnostics(result.Result, c.verbose())
	for _, p := range paths {
		out.file(p)
	}
	if len(formats) == 1 && formats[0] != pipeline.FormatText {
		out.nextStep("Browse interactively", browseHint(input))
	}
	return nil
}

// writeArtifacts writes each format to its own file and returns the paths
// in format order. A single format is written to output verbatim.
func writeArtifacts(artifacts map[string][]byte, formats []string, output string) ([]string, error) {
	base := basePath(output)
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := output
		if len(formats) > 1 || path == "" {
			path = base + "." + extension(f)
		}
		if err := writeFile(path, artifacts[f]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath strips a known format extension from output, defaulting to "org".
func basePath(output string) string {
	if output == "" {
		return "org"
	}
	ext := filepath.Ext(output)
	for _, f := range pipeline.ValidFormats {
		if ext == "."+extension(f) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

func extension(format string) string {
	if format == pipeline.FormatText {
		return "txt"
	}
	return format
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return writeAndClose(f, data)
}

func writeAndClose(w io.WriteCloser, data []byte) error {
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// browseHint is the browse command matching a build of input.
func browseHint(input string) string {
	if input == "" {
		return "orgtree browse"
	}
	return "orgtree browse " + input
}
