package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdview/internal/configloader"
	"github.com/yaklabco/mdview/pkg/config"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new mdview configuration file",
		Long: `Create a new .mdview.yml configuration file in the current directory.

The minimal template lists every setting commented out with its default;
--full writes the settings uncommented.`,
		Example: `  mdview init                       Create .mdview.yml
  mdview init --full                Write every setting uncommented
  mdview init --output custom.yml   Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "write every setting uncommented")
	cmd.Flags().StringVarP(&flags.output, "output", "o", configloader.ProjectConfigFiles[0], "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	err = configloader.WriteTemplate(commandContext(cmd), absPath, config.TemplateOptions{Full: flags.full}, flags.force)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("file %q already exists; use --force to overwrite: %w", flags.output, err)
	}
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}

	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", flags.output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
