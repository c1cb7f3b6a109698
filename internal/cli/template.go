package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bridgegad/bridgegad/pkg/errors"
	pkgio "github.com/bridgegad/bridgegad/pkg/io"
	"github.com/bridgegad/bridgegad/pkg/params"
)

const defaultTemplate = "bridge_parameters.xlsx"

// templateCommand creates the template command, which writes the default
// parameters in any importable format.
func (c *CLI) templateCommand() *cobra.Command {
	var output string
	var force bool

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a parameter file filled with defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := pkgio.FormatFromPath(output); err != nil {
				return err
			}
			if err := refuseOverwrite(output, force); err != nil {
				return err
			}
			if err := pkgio.Export(params.Defaults(), output); err != nil {
				return err
			}
			printSuccess("Wrote parameter template")
			printFile(output)
			printNewline()
			printNextStep("Edit the values, then run", "bridgegad generate "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultTemplate, "output file (.xlsx, .toml, .yaml or .json)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

// exportCommand creates the export command, which validates a parameter
// file and writes it in another format.
func (c *CLI) exportCommand() *cobra.Command {
	var output string
	var strict, force bool

	cmd := &cobra.Command{
		Use:   "export [params-file]",
		Short: "Convert a parameter file to another format",
		Example: `  bridgegad export bridge.xlsx -o bridge.toml
  bridgegad export bridge.yaml -o bridge.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return errors.New(errors.ErrCodeInvalidPath, "--output is required")
			}
			if _, err := pkgio.FormatFromPath(output); err != nil {
				return err
			}
			if err := refuseOverwrite(output, force); err != nil {
				return err
			}

			opts := params.Options{Unknown: params.UnknownIgnore}
			if strict || c.config.Strict {
				opts.Unknown = params.UnknownReport
			}
			set, err := pkgio.Load(args[0], opts)
			if err != nil {
				if verr, ok := err.(*params.ValidationError); ok {
					printViolations(verr)
				}
				return err
			}
			if err := pkgio.Export(set, output); err != nil {
				return err
			}
			printSuccess("Exported %s", args[0])
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.xlsx, .toml, .yaml or .json)")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject unknown parameter names")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func refuseOverwrite(path string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return errors.New(errors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return nil
}
