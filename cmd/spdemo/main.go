package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/sharedptr/guest"
	"github.com/wippyai/sharedptr/shared"
)

func main() {
	var (
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Log control block lifecycle to stderr")
		count       = flag.Int("n", 10, "Number of handles in the fill and concurrency scenarios")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
	)
	flag.Parse()

	if *count < 1 {
		fmt.Fprintln(os.Stderr, "Usage: spdemo [-i] [-v] [-n count] [-no-color]")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		shared.SetLogger(logger)
		guest.SetLogger(logger)
	}

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	s := newStyles(os.Stdout, tty && !*noColor)

	if *interactive {
		if !tty {
			fmt.Fprintln(os.Stderr, "Error: -i needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(s, *count); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	results := make([]result, 0, len(scenarios))
	for _, sc := range scenarios {
		results = append(results, runScenario(sc, *count))
	}
	if failed := report(os.Stdout, s, results); failed > 0 {
		os.Exit(1)
	}
}
