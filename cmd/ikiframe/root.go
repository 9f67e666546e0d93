package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"

	verbose bool
	offset  int64
	size    int64
)

var rootCmd = &cobra.Command{
	Use:   "ikiframe",
	Short: "Inspect, decode and replace PlayStation iki video frames",
	Long: `ikiframe works on single frames of PlayStation MDEC "iki" video.

A frame is read from a file or an http(s) URL, optionally zstd compressed
(.zst). Use --offset and --size to pick a frame out of a larger dump.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentPreRun = setupLogging
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Int64Var(&offset, "offset", 0, "byte offset of the frame in the source")
	rootCmd.PersistentFlags().Int64Var(&size, "size", 0, "frame size in bytes, 0 reads to the end of the source")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"ikiframe %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// setupLogging sends log records to stderr, debug records only with --verbose.
func setupLogging(_ *cobra.Command, _ []string) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
