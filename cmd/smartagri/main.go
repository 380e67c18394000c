package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/mark3labs/smartagri/internal/logger"
	"github.com/mark3labs/smartagri/internal/tui/theme"
)

const (
	logoText1 = "█▀▀ █▀▄▀█ ▄▀█ █▀█ ▀█▀ ▄▀█ █▀▀ █▀█ █"
	logoText2 = "▄██ █ ▀ █ █▀█ █▀▄  █  █▀█ █▄█ █▀▄ █"
)

// Version set via ldflags during build
var version = "dev"

var rootFlags struct {
	apiURL   string
	language string
}

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "smartagri",
	Short: "Crop advisory wizard for farmers",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Success, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Success, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

smartagri collects a farm's location, soil, and weather in a short wizard and
asks the recommendation service which crops to plant. Results show ranked
crops, market insight, a risk assessment, and productivity tips.

Successful recommendations are kept in a local history so they can be listed,
shown again, and compared.`

	rootCmd.PersistentFlags().StringVar(&rootFlags.apiURL, "api-url", "", "Recommendation service base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.language, "lang", "", "Display language: en or hi (overrides config)")

	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(mcpCmd)
}
