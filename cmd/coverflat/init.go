package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/coverflat/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/coverflat.yaml
var configTemplate embed.FS

// templatePath is the template's path inside configTemplate.
const templatePath = "templates/coverflat.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new coverflat configuration file",
		Long: `Initialize creates a new .coverflat configuration file in the current directory.

The generated file includes:
- Logging settings (verbosity and text or JSON format)
- Coverage history settings
- Documentation for all available options

Examples:
  # Create .coverflat in current directory
  coverflat init

  # Create config file at a specific path
  coverflat init -o ci/coverflat.yaml

  # Force overwrite existing file
  coverflat init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := writeConfigTemplate(outputPath, force); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure:")
	fmt.Fprintln(out, "  - Log verbosity and format")
	fmt.Fprintln(out, "  - Whether every run is recorded in the coverage history")

	return nil
}

// writeConfigTemplate writes the embedded template to path. An existing
// file is only replaced when force is set.
func writeConfigTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
		}
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
