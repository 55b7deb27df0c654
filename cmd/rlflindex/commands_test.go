package main

/******************************************************************************

Testing command line utilities can be annoying. The way rlflindex does
it is by spoofing output via app.Writer, the same approach poly's own
cmd/poly/commands_test.go uses, and by running each subcommand over a
scratch stem directory built fresh per test.

******************************************************************************/

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// writeRunStream writes a tiny BWT ("ab" worked example: L column is
// 'b', the terminator, then 'a', three runs of length 1) to
// <stem>.bwt.heads/.bwt.len.
func writeRunStream(t *testing.T, stem string) {
	t.Helper()

	heads := []byte{'b', 0, 'a'}
	if err := os.WriteFile(stem+".bwt.heads", heads, 0o644); err != nil {
		t.Fatalf("writing heads: %v", err)
	}

	var lenBytes []byte
	for range heads {
		lenBytes = append(lenBytes, 1, 0, 0, 0, 0) // length 1, 5-byte little-endian
	}
	if err := os.WriteFile(stem+".bwt.len", lenBytes, 0o644); err != nil {
		t.Fatalf("writing lengths: %v", err)
	}
}

func TestApp_BuildConstructorThenInvert(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "ab")
	writeRunStream(t, stem)

	app := application()
	var out bytes.Buffer
	app.Writer = &out

	if err := app.Run([]string{"rlflindex", "build-constructor", stem}); err != nil {
		t.Fatalf("build-constructor: %v", err)
	}
	if _, err := os.Stat(stem + ".fl"); err != nil {
		t.Fatalf("build-constructor did not create %s.fl: %v", stem, err)
	}

	out.Reset()
	if err := app.Run([]string{"rlflindex", "invert", stem}); err != nil {
		t.Fatalf("invert: %v", err)
	}
	if got := out.String(); got != "ab" {
		t.Errorf("invert output = %q, want %q", got, "ab")
	}
}

func TestApp_RunConstructorWritesDCol(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "ab")
	writeRunStream(t, stem)

	app := application()
	app.Writer = &bytes.Buffer{}

	if err := app.Run([]string{"rlflindex", "run-constructor", stem, "-d", "2", "-save"}); err != nil {
		t.Fatalf("run-constructor: %v", err)
	}
	if _, err := os.Stat(stem + ".d_col"); err != nil {
		t.Fatalf("run-constructor did not create %s.d_col: %v", stem, err)
	}
	if _, err := os.Stat(stem + ".d_construct"); err != nil {
		t.Fatalf("run-constructor -save did not create %s.d_construct: %v", stem, err)
	}
}

func TestApp_RunRandomizedWritesRCol(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "ab")
	writeRunStream(t, stem)

	app := application()
	app.Writer = &bytes.Buffer{}

	if err := app.Run([]string{"rlflindex", "run-randomized", stem, "-ratio", "2"}); err != nil {
		t.Fatalf("run-randomized: %v", err)
	}
	if _, err := os.Stat(stem + ".r_col"); err != nil {
		t.Fatalf("run-randomized did not create %s.r_col: %v", stem, err)
	}
}

func TestApp_LCSWritesFile(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "ab")
	writeRunStream(t, stem)

	app := application()
	app.Writer = &bytes.Buffer{}

	if err := app.Run([]string{"rlflindex", "lcs", stem}); err != nil {
		t.Fatalf("lcs: %v", err)
	}
	if _, err := os.Stat(stem + ".lcs"); err != nil {
		t.Fatalf("lcs did not create %s.lcs: %v", stem, err)
	}
}

func TestApp_MissingStemErrors(t *testing.T) {
	app := application()
	app.Writer = &bytes.Buffer{}

	if err := app.Run([]string{"rlflindex", "invert"}); err == nil {
		t.Fatalf("invert with no stem argument did not return an error")
	}
}

func TestApp_MissingInputFileErrors(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "does-not-exist")

	app := application()
	app.Writer = &bytes.Buffer{}

	if err := app.Run([]string{"rlflindex", "build-constructor", stem}); err == nil {
		t.Fatalf("build-constructor against a missing stem did not return an error")
	}
}

func TestApp_HelpFlag(t *testing.T) {
	rescueStdout := os.Stdout
	_, w, _ := os.Pipe()
	os.Stdout = w

	arg := os.Args[0:1]
	os.Args = append(arg, "-h")
	main()
	os.Args = os.Args[0:1]

	w.Close()
	os.Stdout = rescueStdout
}

