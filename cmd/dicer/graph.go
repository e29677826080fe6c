package main

import (
	"github.com/lemonberrylabs/dicer/pkg/dice"
	"github.com/lemonberrylabs/dicer/pkg/graph"
	"github.com/spf13/cobra"
)

func newGraphCmd(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <expression...>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := graph.ParseFormat(name)
			if err != nil {
				return err
			}
			expr, err := expression(args)
			if err != nil {
				return err
			}
			node, err := dice.Parse(expr)
			if err != nil {
				return &positionedError{expr: expr, err: err}
			}
			return graph.Render(cmd.OutOrStdout(), node, format)
		},
	}
}
