package main

/******************************************************************************

This file contains the actual logic behind each rlflindex subcommand.
main.go only defines flags and usage text and calls into here, the same
split poly/main.go and poly/commands.go use.

Every command works over a "stem": build-constructor reads
<stem>.bwt.heads/<stem>.bwt.len and writes <stem>.fl. Every other
command prefers an already-built <stem>.fl if present, and falls back
to rebuilding from the raw run streams otherwise, so a pipeline can
either persist the constructor between steps or not.

******************************************************************************/

import (
	"fmt"
	"os"

	"github.com/nishimoto-tabei/rlflindex/rindex"
	"github.com/urfave/cli/v2"
)

const randomizedSeedDefault = 23

func requireStem(c *cli.Context) (string, error) {
	stem := c.Args().First()
	if stem == "" {
		return "", fmt.Errorf("rlflindex: missing required <stem> argument")
	}
	return stem, nil
}

// openConstructor loads <stem>.fl if it exists, otherwise rebuilds the
// constructor directly from <stem>.bwt.heads/<stem>.bwt.len.
func openConstructor(stem string) (*rindex.Constructor, error) {
	flPath := stem + ".fl"
	if f, err := os.Open(flPath); err == nil {
		defer f.Close()
		return rindex.LoadConstructor(f)
	}

	headsPath, lengthsPath := stem+".bwt.heads", stem+".bwt.len"
	heads, err := os.Open(headsPath)
	if err != nil {
		return nil, fmt.Errorf("rlflindex: opening %s: %w", headsPath, err)
	}
	defer heads.Close()

	lengths, err := os.Open(lengthsPath)
	if err != nil {
		return nil, fmt.Errorf("rlflindex: opening %s: %w", lengthsPath, err)
	}
	defer lengths.Close()

	return rindex.BuildConstructor(heads, lengths)
}

func buildConstructorCommand(c *cli.Context) error {
	stem, err := requireStem(c)
	if err != nil {
		return err
	}

	heads, err := os.Open(stem + ".bwt.heads")
	if err != nil {
		return fmt.Errorf("rlflindex: opening %s.bwt.heads: %w", stem, err)
	}
	defer heads.Close()

	lengths, err := os.Open(stem + ".bwt.len")
	if err != nil {
		return fmt.Errorf("rlflindex: opening %s.bwt.len: %w", stem, err)
	}
	defer lengths.Close()

	constructor, err := rindex.BuildConstructor(heads, lengths)
	if err != nil {
		return err
	}

	out, err := os.Create(stem + ".fl")
	if err != nil {
		return fmt.Errorf("rlflindex: creating %s.fl: %w", stem, err)
	}
	defer out.Close()

	if err := constructor.Serialize(out); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "wrote %s.fl: n=%d r=%d\n", stem, constructor.Size(), constructor.Runs())
	return nil
}

func runConstructorCommand(c *cli.Context) error {
	stem, err := requireStem(c)
	if err != nil {
		return err
	}
	d := c.Int("d")

	constructor, err := openConstructor(stem)
	if err != nil {
		return err
	}

	var onSplit func(count, runs, maxWeight int)
	if c.Bool("debug") {
		onSplit = func(count, runs, maxWeight int) {
			fmt.Fprintf(c.App.Writer, "split %d: runs=%d maxWeight=%d\n", count, runs, maxWeight)
		}
	}

	result, err := constructor.BuildDeterministic(d, onSplit)
	if err != nil {
		return err
	}

	col, err := os.Create(stem + ".d_col")
	if err != nil {
		return fmt.Errorf("rlflindex: creating %s.d_col: %w", stem, err)
	}
	defer col.Close()
	if err := result.Write(col); err != nil {
		return err
	}

	if c.Bool("save") {
		construct, err := os.Create(stem + ".d_construct")
		if err != nil {
			return fmt.Errorf("rlflindex: creating %s.d_construct: %w", stem, err)
		}
		defer construct.Close()
		if err := constructor.SerializeDeterministic(construct); err != nil {
			return err
		}
	}

	fmt.Fprintf(c.App.Writer, "wrote %s.d_col: runsAdded=%d totalRuns=%d\n", stem, result.RunsAdded, result.TotalRuns)
	return nil
}

func runRandomizedCommand(c *cli.Context) error {
	stem, err := requireStem(c)
	if err != nil {
		return err
	}
	ratio := c.Int("ratio")
	seed := c.Int64("seed")

	constructor, err := openConstructor(stem)
	if err != nil {
		return err
	}

	result, err := constructor.BuildRandomized(ratio, seed)
	if err != nil {
		return err
	}

	out, err := os.Create(stem + ".r_col")
	if err != nil {
		return fmt.Errorf("rlflindex: creating %s.r_col: %w", stem, err)
	}
	defer out.Close()
	if err := result.Write(out); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "wrote %s.r_col: inserts=%d totalRuns=%d\n", stem, result.Inserts, result.TotalRuns)
	return nil
}

func lcsCommand(c *cli.Context) error {
	stem, err := requireStem(c)
	if err != nil {
		return err
	}

	constructor, err := openConstructor(stem)
	if err != nil {
		return err
	}

	lcs, err := constructor.RunLCS()
	if err != nil {
		return err
	}

	out, err := os.Create(stem + ".lcs")
	if err != nil {
		return fmt.Errorf("rlflindex: creating %s.lcs: %w", stem, err)
	}
	defer out.Close()

	if err := rindex.WriteLCS(out, lcs); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "wrote %s.lcs: %d runs\n", stem, len(lcs))
	return nil
}

func invertCommand(c *cli.Context) error {
	stem, err := requireStem(c)
	if err != nil {
		return err
	}

	constructor, err := openConstructor(stem)
	if err != nil {
		return err
	}

	text, err := constructor.Invert()
	if err != nil {
		return err
	}

	_, err = c.App.Writer.Write(text)
	return err
}
