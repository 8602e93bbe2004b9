package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/arran4/card2png"
)

func main() {
	var (
		root        string
		dataPath    string
		outDir      string
		verbose     bool
		repeat      bool
		keepElement bool
	)
	flags := pflag.NewFlagSet("card2png", pflag.ExitOnError)
	flags.StringVarP(&root, "root", "r", ".", "Project directory holding config/, fonts/, assets/, text/, images/ and templates/")
	flags.StringVarP(&dataPath, "data", "d", "", "Tab-delimited card data (default <root>/cards.tsv)")
	flags.StringVarP(&outDir, "out", "o", "", "Output directory (default <root>/output)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log layout decisions")
	flags.BoolVar(&repeat, "repeat", false, "After each run, wait for enter and run the batch again")
	flags.BoolVar(&keepElement, "keep-elements", false, "Keep per-card element images next to the exports")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: card2png [flags]\n\nFlags:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	card2png.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if dataPath == "" {
		dataPath = filepath.Join(root, "cards.tsv")
	}
	if outDir == "" {
		outDir = filepath.Join(root, "output")
	}

	if repeat && !isTerminal(os.Stdin) {
		card2png.Logger().Warn("--repeat needs an interactive terminal, running once")
		repeat = false
	}

	b, err := newBatch(root, outDir, keepElement)
	if err != nil {
		fatal(err)
	}
	in := bufio.NewReader(os.Stdin)
	for {
		if err := b.run(dataPath); err != nil {
			card2png.Logger().Error("batch failed", "err", err)
		}
		if !repeat {
			return
		}
		fmt.Fprint(os.Stderr, "Press enter to run again (Ctrl-D to quit): ")
		if _, err := in.ReadString('\n'); err != nil {
			return
		}
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func fatal(err error) {
	_, _ = os.Stderr.WriteString("card2png: " + err.Error() + "\n")
	os.Exit(1)
}
