package cli

import (
	"github.com/spf13/cobra"

	"github.com/bridgegad/bridgegad/pkg/errors"
	pkgio "github.com/bridgegad/bridgegad/pkg/io"
	"github.com/bridgegad/bridgegad/pkg/params"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var strict, showValues bool

	cmd := &cobra.Command{
		Use:   "validate [params-file]",
		Short: "Check a parameter file without drawing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("strict") {
				strict = c.config.Strict
			}
			return c.runValidate(args[0], strict, showValues)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "reject unknown parameter names")
	cmd.Flags().BoolVarP(&showValues, "values", "a", false, "print every resolved value")
	cmd.ValidArgsFunction = completeParamsFile

	return cmd
}

func (c *CLI) runValidate(path string, strict, showValues bool) error {
	opts := params.Options{Unknown: params.UnknownIgnore}
	if strict {
		opts.Unknown = params.UnknownReport
	}

	raw, err := pkgio.Import(path)
	if err != nil {
		return err
	}
	c.Logger.Debug("read parameters", "file", path, "count", len(raw))

	set, err := params.Validate(raw, opts)
	if err != nil {
		verr, ok := err.(*params.ValidationError)
		if !ok {
			return err
		}
		printViolations(verr)
		return errors.New(errors.ErrCodeInvalidParameter, "%s: %d parameter(s) failed validation", path, len(verr.Violations))
	}

	if showValues {
		printParameterValues(set)
	}
	for _, w := range set.Warnings() {
		printWarning("%s", w)
	}
	printSuccess("%s is valid (%d spans, %s m)", path, set.Spans(), params.FormatValue(params.LBridge, set.Get(params.LBridge)))
	return nil
}
