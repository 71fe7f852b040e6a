package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ╦┬┬─┐┌─┐┌─┐
  ╚╗╔╝│├┬┘├┤ │ │
   ╚╝ ┴┴└─└─┘└─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "vireo",
		Short: "Inspect and exercise the vireo reactive runtime",
		Long: `vireo is the command-line companion to the vireo reactive UI runtime.

It replays captured mutation buffers through the headless interpreter and
benchmarks the CreateEngine/DiffEngine passes, without needing a browser
or a running server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		replayCmd(),
		benchCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errorMsg("%s", err)
		os.Exit(1)
	}
}

func printBanner() {
	fmt.Print(banner)
}

// info prefixes a replay/bench progress line the way printBanner prefixes
// the version banner — both are plain stdout, no ANSI.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg is the one ANSI-colored helper this CLI keeps: replay/bench
// never fail loudly enough to need it, so only rootCmd.Execute's own
// top-level error path exercises it.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
