package main

import (
	"log/slog"
	"os"

	"github.com/dgallion1/mdchunk/internal/chunker"
	"github.com/spf13/cobra"
)

var (
	verbose bool

	strategyName string
	chunkCfg     chunker.Config
)

var rootCmd = &cobra.Command{
	Use:           "mdchunk",
	Short:         "Split markdown documents into size-bounded, keyed chunks",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&strategyName, "strategy", chunker.StrategySize, "chunking strategy: size or headers")
	pf.IntVar(&chunkCfg.TargetSize, "target-size", chunker.DefaultTargetSize, "target chunk size in characters")
	pf.IntVar(&chunkCfg.MaxSize, "max-size", chunker.DefaultMaxSize, "hard chunk size ceiling in characters")
	pf.IntVar(&chunkCfg.MinMergeSize, "min-merge-size", chunker.DefaultMinMergeSize, "chunks below this keep absorbing sections")
	pf.IntVar(&chunkCfg.SmallDocThreshold, "small-doc-threshold", chunker.DefaultSmallDocThreshold, "documents at or below this stay whole")
	pf.IntVar(&chunkCfg.GroupLevel, "group-level", chunker.DefaultGroupLevel, "header level of grouping units (1-3)")

	rootCmd.AddCommand(chunkCmd, outlineCmd)
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newStrategy validates the flag thresholds before any file is read.
func newStrategy() (chunker.Strategy, error) {
	return chunker.New(strategyName, chunkCfg)
}
