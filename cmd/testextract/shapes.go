package main

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/urfave/cli/v3"
)

//go:embed shapes.txt
var shapesText string

func shapesCommand() *cli.Command {
	return &cli.Command{
		Name:  "shapes",
		Usage: "show the declaration shapes that are recognized",
		Description: "Print matching and non-matching call shapes with their output.\n" +
			"Output is designed to be grep-friendly.\n\n" +
			"Examples:\n" +
			"  testextract shapes               # show all shapes\n" +
			"  testextract shapes | grep suite  # suite-related shapes",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Print(shapesText)
			return nil
		},
	}
}
