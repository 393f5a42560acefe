package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/wkalt/dagtree/implementation"
	"github.com/wkalt/dagtree/octree"
	"github.com/wkalt/dagtree/util/log"
	"github.com/wkalt/dagtree/voxelio"
)

var (
	logLevel string
	implName string
	depth    int
)

var rootCmd = &cobra.Command{
	Use:   "dagtree",
	Short: "Build and inspect sparse voxel octrees",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := parseLogLevel(logLevel)
		if err != nil {
			bailf("%s", err)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func bailf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", s)
	}
}

func newRegistry() *implementation.Registry {
	r := implementation.NewRegistry()
	if err := octree.Register(r); err != nil {
		bailf("failed to register %s: %s", octree.FactoryName, err)
	}
	return r
}

// newBuildContext returns a context tagged with a fresh build ID.
func newBuildContext() context.Context {
	return log.AddTags(context.Background(), "build_id", uuid.New().String())
}

// buildTree creates an octree and loads the voxel files matching patterns into
// it. With no patterns the tree is returned empty and unfinalized.
func buildTree(ctx context.Context, patterns []string, finalize bool) (*octree.Tree, error) {
	impl, err := newRegistry().Create(implName, depth)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}
	tree, ok := impl.(*octree.Tree)
	if !ok {
		return nil, fmt.Errorf("implementation %s is not an octree", implName)
	}
	if len(patterns) > 0 {
		if _, err := voxelio.Load(ctx, tree, patterns); err != nil {
			return nil, err
		}
	}
	if finalize {
		tree.EndFinalization(ctx)
	}
	return tree, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&implName, "impl", "", octree.FactoryName, "index implementation")
	rootCmd.PersistentFlags().IntVarP(&depth, "depth", "d", 10, "tree depth; the volume has edge 2^depth")
}
