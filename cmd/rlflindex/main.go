package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

// main is separated from run and application to help with testing.
func main() {
	run(os.Args)
}

// run is separated from main for debugging's sake.
func run(args []string) {
	app := application()
	err := app.Run(args)
	if err != nil {
		log.Fatal(err)
	}
}

// application defines the rlflindex command line utility: one
// *cli.App with five subcommands over a "stem" of input/output files,
// mirroring poly/main.go's single-App-many-Command layout.
func application() *cli.App {
	app := &cli.App{
		Name:  "rlflindex",
		Usage: "build and query a run-length FL-table LF-mapping index from a BWT run stream.",

		Commands: []*cli.Command{
			{
				Name:      "build-constructor",
				Usage:     "Build the FL table, P, and Q from <stem>.bwt.heads/.bwt.len and write <stem>.fl.",
				ArgsUsage: "<stem>",
				Action: func(c *cli.Context) error {
					return buildConstructorCommand(c)
				},
			},
			{
				Name:      "run-constructor",
				Usage:     "Run the deterministic splitter, writing <stem>.d_col (and, with -save, <stem>.d_construct).",
				ArgsUsage: "<stem>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "d",
						Usage:    "maximum run-scan bound per FL hop",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "also write <stem>.d_construct, the resumable splitter state",
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "print one line per split performed",
					},
				},
				Action: func(c *cli.Context) error {
					return runConstructorCommand(c)
				},
			},
			{
				Name:      "run-randomized",
				Usage:     "Run the randomized splitter, writing <stem>.r_col.",
				ArgsUsage: "<stem>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "ratio",
						Usage:    "copy probability is 1/ratio",
						Required: true,
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "PRNG seed",
						Value: randomizedSeedDefault,
					},
				},
				Action: func(c *cli.Context) error {
					return runRandomizedCommand(c)
				},
			},
			{
				Name:      "lcs",
				Usage:     "Write <stem>.lcs, the per-run minimum LCP along the FL trajectory.",
				ArgsUsage: "<stem>",
				Action: func(c *cli.Context) error {
					return lcsCommand(c)
				},
			},
			{
				Name:      "invert",
				Usage:     "Stream the original text (without its terminator) to stdout.",
				ArgsUsage: "<stem>",
				Action: func(c *cli.Context) error {
					return invertCommand(c)
				},
			},
		},
	}

	return app
}
