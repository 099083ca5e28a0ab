package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/padding"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdview/internal/configloader"
	"github.com/yaklabco/mdview/internal/ui/pretty"
)

const envNameWidth = 36

func newConfigCommand(opts *rootOptions) *cobra.Command {
	var listEnv bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration that results from merging the system, user,
project and explicit config files with MDVIEW_* environment variables and
command line flags. The files that were loaded are listed in the header.`,
		Example: `  mdview config
  mdview config --env`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if listEnv {
				return writeEnvVars(out, pretty.NewStyles(pretty.IsColorEnabled(opts.color, out)))
			}

			result, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			header := "# Effective mdview configuration"
			if len(result.LoadedFrom) > 0 {
				header += "\n# Loaded from:\n#   " + strings.Join(result.LoadedFrom, "\n#   ")
			}
			data, err := result.Config.ToYAMLWithHeader(header)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			if _, err := out.Write(data); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&listEnv, "env", false, "list the supported environment variables instead")

	return cmd
}

func writeEnvVars(w io.Writer, styles *pretty.Styles) error {
	var sb strings.Builder
	for _, v := range configloader.ListEnvVars() {
		sb.WriteString(padding.String(styles.Label.Render(v.Name), envNameWidth))
		sb.WriteString(v.Description)
		sb.WriteByte('\n')
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
