package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lemonberrylabs/dicer/pkg/dice"
	"github.com/lemonberrylabs/dicer/pkg/report"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newModeCmd(mode dice.Mode) *cobra.Command {
	return &cobra.Command{
		Use:   mode.String() + " <expression...>",
		Short: fmt.Sprintf("Evaluate with every die rolling its %s face", modeFace(mode)),
		Args:  cobra.MinimumNArgs(1),
		RunE:  rollRunner(mode),
	}
}

func modeFace(mode dice.Mode) string {
	switch mode {
	case dice.ModeMin:
		return "lowest"
	case dice.ModeMid:
		return "middle"
	default:
		return "highest"
	}
}

func rollRunner(mode dice.Mode) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		expr, err := expression(args)
		if err != nil {
			return err
		}

		formatName, _ := cmd.Flags().GetString("format")
		format, err := report.ParseFormat(formatName)
		if err != nil {
			return err
		}
		colorMode, _ := cmd.Flags().GetString("color")
		out := cmd.OutOrStdout()
		color, err := useColor(colorMode, out)
		if err != nil {
			return err
		}

		var seed int64
		if mode == dice.ModeRandom {
			if cmd.Flags().Changed("seed") {
				seed, _ = cmd.Flags().GetInt64("seed")
			} else if seed, err = dice.NewSeed(); err != nil {
				return err
			}
		}

		node, err := dice.Parse(expr)
		if err != nil {
			return &positionedError{expr: expr, err: err}
		}
		res, err := dice.Evaluate(node, dice.NewRoller(mode, seed))
		if err != nil {
			return fmt.Errorf("evaluate %q: %w", expr, err)
		}
		return report.Write(out, report.New(expr, node, mode, res), format, color)
	}
}

// useColor resolves --color. auto enables color only for terminals and
// honors NO_COLOR.
func useColor(mode string, out io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		f, ok := out.(*os.File)
		if !ok {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	default:
		return false, fmt.Errorf("unknown color mode %q (want auto, always or never)", mode)
	}
}
