package cli

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bridgegad/bridgegad/pkg/errors"
	pkgio "github.com/bridgegad/bridgegad/pkg/io"
	"github.com/bridgegad/bridgegad/pkg/params"
	"github.com/bridgegad/bridgegad/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
// Flags left unset fall back to the config file.
type generateOpts struct {
	output        string
	formats       string
	scale         string
	project       string
	title         string
	preparedBy    string
	number        string
	noDimensions  bool
	noAnnotations bool
	noTitleBlock  bool
	noPlan        bool
	grid          bool
	schedule      bool
	strict        bool
	noCache       bool
	noArchive     bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate [params-file]",
		Short: "Generate a general arrangement drawing",
		Long: `Generate a general arrangement drawing from a parameter file.

The file may be an Excel workbook (.xlsx) or a TOML, YAML or JSON mapping of
parameter names to values. Without a file every parameter takes its default.`,
		Example: `  bridgegad generate bridge.xlsx
  bridgegad generate bridge.toml -f dxf,pdf -o drawings/ring_road
  bridgegad generate --project "Ring Road" --scale 1:200`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			pipeOpts, err := c.buildPipelineOptions(cmd, &opts)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), input, pipeOpts, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): dxf (default), svg, pdf, json (comma-separated)")
	f.StringVar(&opts.scale, "scale", "", "sheet scale printed in the title block, e.g. 1:100")
	f.StringVar(&opts.project, "project", "", "project name for the title block")
	f.StringVar(&opts.title, "title", "", "drawing title")
	f.StringVar(&opts.preparedBy, "prepared-by", "", "author for the title block")
	f.StringVar(&opts.number, "number", "", "drawing number (default: derived from the parameters)")
	f.BoolVar(&opts.noDimensions, "no-dimensions", false, "omit dimensions")
	f.BoolVar(&opts.noAnnotations, "no-annotations", false, "omit labels and level marks")
	f.BoolVar(&opts.noTitleBlock, "no-title-block", false, "omit the title block")
	f.BoolVar(&opts.noPlan, "no-plan", false, "draw the elevation only")
	f.BoolVar(&opts.grid, "grid", false, "draw the level grid")
	f.BoolVar(&opts.schedule, "schedule", false, "append a parameter schedule page to PDF output")
	f.BoolVar(&opts.strict, "strict", false, "reject unknown parameter names")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the drawing cache")
	f.BoolVar(&opts.noArchive, "no-archive", false, "do not record the drawing in the history")
	cmd.ValidArgsFunction = completeParamsFile

	return cmd
}

// buildPipelineOptions layers explicitly set flags over the config file.
func (c *CLI) buildPipelineOptions(cmd *cobra.Command, opts *generateOpts) (pipeline.Options, error) {
	p := c.config.PipelineOptions()
	f := cmd.Flags()

	if f.Changed("format") {
		formats, err := pipeline.ParseFormats(opts.formats)
		if err != nil {
			return p, err
		}
		p.Formats = formats
	}

	strs := []struct {
		flag string
		dst  *string
		val  string
	}{
		{"scale", &p.Layout.Scale, opts.scale},
		{"project", &p.Layout.Project, opts.project},
		{"title", &p.Layout.Title, opts.title},
		{"prepared-by", &p.Layout.PreparedBy, opts.preparedBy},
		{"number", &p.Layout.Number, opts.number},
	}
	for _, s := range strs {
		if f.Changed(s.flag) {
			*s.dst = s.val
		}
	}

	bools := []struct {
		flag string
		dst  *bool
		val  bool
	}{
		{"no-dimensions", &p.Layout.NoDimensions, opts.noDimensions},
		{"no-annotations", &p.Layout.NoAnnotations, opts.noAnnotations},
		{"no-title-block", &p.Layout.NoTitleBlock, opts.noTitleBlock},
		{"no-plan", &p.Layout.NoPlan, opts.noPlan},
		{"grid", &p.Layout.Grid, opts.grid},
		{"schedule", &p.Schedule, opts.schedule},
		{"strict", &p.Strict, opts.strict},
	}
	for _, b := range bools {
		if f.Changed(b.flag) {
			*b.dst = b.val
		}
	}

	p.NoArchive = opts.noArchive
	p.Logger = c.Logger
	return p, nil
}

func (c *CLI) runGenerate(ctx context.Context, input string, opts pipeline.Options, g *generateOpts) error {
	logger := loggerFromContext(ctx)

	if input != "" {
		done := timed(logger)
		raw, err := pkgio.Import(input)
		if err != nil {
			return err
		}
		opts.Params = raw
		done("read parameters", "file", input, "count", len(raw))
	} else {
		logger.Info("No parameter file given, using defaults")
	}

	runner := c.newRunner(g.noCache, g.noArchive)
	defer runner.Close()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		var verr *params.ValidationError
		if stderrors.As(err, &verr) {
			printViolations(verr)
		}
		return err
	}

	for _, w := range result.Warnings {
		printWarning("%s", w)
	}

	paths, err := outputPaths(g.output, input, result.Artifacts)
	if err != nil {
		return err
	}
	formats := make([]string, 0, len(paths))
	for f := range paths {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	for _, f := range formats {
		if err := writeOutput(paths[f], result.Artifacts[f]); err != nil {
			return err
		}
	}

	doc := result.Document
	printSuccess("Generated %s", doc.Meta.Title)
	printDrawingStats(doc.Meta.Spans, doc.Meta.Length, len(doc.Primitives), result.CacheInfo.LayoutHit)
	for _, f := range formats {
		printFile(paths[f])
	}
	if result.Record != nil {
		printDetail("Archived as %s", result.Record.ID)
	}
	return nil
}

// derivedSuffix is inserted before the extension when a derived output
// path would land on the parameter file, as with bridge.json drawn to JSON.
const derivedSuffix = ".drawing"

// outputPaths maps each rendered format to its file. A single format with
// an explicit output is written exactly there; otherwise output (or the
// input file name) is a base path to which the format extension is added.
// A derived path never replaces the input file, and an explicit one that
// would is an error.
func outputPaths(output, input string, artifacts map[string][]byte) (map[string]string, error) {
	explicit := output != "" && !strings.HasSuffix(output, string(os.PathSeparator))
	paths := make(map[string]string, len(artifacts))
	if len(artifacts) == 1 && explicit {
		for f := range artifacts {
			if strings.TrimPrefix(filepath.Ext(output), ".") == f {
				paths[f] = output
			}
		}
	}
	if len(paths) == 0 {
		base := basePath(output, input)
		for f := range artifacts {
			paths[f] = base + "." + f
		}
	}

	if input == "" {
		return paths, nil
	}
	for f, p := range paths {
		if !samePath(p, input) {
			continue
		}
		if explicit {
			return nil, errors.New(errors.ErrCodeInvalidPath, "output %s would overwrite the parameter file", p)
		}
		paths[f] = strings.TrimSuffix(p, "."+f) + derivedSuffix + "." + f
	}
	return paths, nil
}

// samePath reports whether a and b name the same file, either textually or
// on disk.
func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	return err == nil && os.SameFile(ai, bi)
}

// basePath derives the output stem. An output ending in a separator is a
// directory that receives the default stem.
func basePath(output, input string) string {
	stem := defaultBase
	if input != "" {
		stem = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	switch {
	case output == "":
		if input == "" {
			return stem
		}
		return filepath.Join(filepath.Dir(input), stem)
	case strings.HasSuffix(output, string(os.PathSeparator)):
		return filepath.Join(output, stem)
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
