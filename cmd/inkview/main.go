package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "inkview",
		Short: "Inkview - zoomable document viewport for the browser",
		Long: `Inkview is a WASM viewport engine for fixed-size documents: fit-width
layout, anchored wheel and pinch zoom, pan, and crisp backing-store
resolution at any device pixel ratio. This CLI runs the development
server, produces production builds, and tunes the interaction
constants.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	rootCmd.AddCommand(newDevCommand())
	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newTuneCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
