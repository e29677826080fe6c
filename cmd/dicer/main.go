// Package main is the entry point for the dicer command.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lemonberrylabs/dicer/internal/config"
	"github.com/lemonberrylabs/dicer/pkg/dice"
	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rootCmd := newRootCmd(cfg)
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dicer [flags] <expression...>",
		Short: "Roll, inspect and graph dice expressions",
		Long: `dicer evaluates dice expressions such as "4d6kh3 + 2" or "2d20adv".

Arguments are joined with spaces into a single expression. An expression
that starts with "-" must follow "--".`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          rollRunner(dice.ModeRandom),
	}
	rootCmd.Version = version + " (commit=" + commit + ", built=" + date + ")"
	rootCmd.SetVersionTemplate("dicer version {{.Version}}\n")

	rootCmd.PersistentFlags().Int64("seed", 0, "Seed for the random roller (default crypto-random)")
	rootCmd.PersistentFlags().String("format", cfg.Format, "Output format: text, json or yaml (env DICER_FORMAT)")
	rootCmd.PersistentFlags().String("color", cfg.Color, "Color output: auto, always or never (env DICER_COLOR)")

	for _, mode := range []dice.Mode{dice.ModeMin, dice.ModeMid, dice.ModeMax} {
		rootCmd.AddCommand(newModeCmd(mode))
	}
	rootCmd.AddCommand(newGraphCmd("dot", "Print the expression tree as Graphviz DOT"))
	rootCmd.AddCommand(newGraphCmd("mermaid", "Print the expression tree as a Mermaid graph"))
	rootCmd.AddCommand(newServeCmd(cfg))
	return rootCmd
}

// expression joins command arguments into one expression.
func expression(args []string) (string, error) {
	expr := strings.Join(args, " ")
	if strings.TrimSpace(expr) == "" {
		return "", errors.New("no expression given")
	}
	return expr, nil
}

// printError writes err to w. Positioned expression errors also show the
// source with a caret under the offending byte.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	var de *dice.Error
	var pe *positionedError
	if errors.As(err, &pe) && errors.As(err, &de) && de.Pos >= 0 && de.Pos <= len(pe.expr) {
		fmt.Fprintf(w, "  %s\n  %s^\n", pe.expr, strings.Repeat(" ", len([]rune(pe.expr[:de.Pos]))))
	}
}

// positionedError records the expression an error was raised for.
type positionedError struct {
	expr string
	err  error
}

func (e *positionedError) Error() string { return e.err.Error() }
func (e *positionedError) Unwrap() error { return e.err }
