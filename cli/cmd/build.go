package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/wkalt/dagtree/script"
	"github.com/wkalt/dagtree/util/log"
)

var buildScript string

var buildCmd = &cobra.Command{
	Use:   "build [patterns...]",
	Short: "Build an octree from voxel files and print its statistics",
	Long: `Build an octree from JSON lines voxel files. Each line holds one record of
the form {"x": 1, "y": 2, "z": 3, "type": 4}. Patterns may use ** to match
files recursively.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && buildScript == "" {
			cmd.Usage()
			return
		}
		ctx := newBuildContext()
		tree, err := buildTree(ctx, args, false)
		if err != nil {
			bailf("error building tree: %s", err)
		}
		if buildScript != "" {
			src, err := os.ReadFile(buildScript)
			if err != nil {
				bailf("error reading script: %s", err)
			}
			if err := script.Run(ctx, tree, string(src), os.Stdout); err != nil {
				bailf("error running script: %s", err)
			}
		}
		tree.EndFinalization(ctx)
		log.Debugw(ctx, "build complete", "nodes", tree.NodeCount())
		if err := script.WriteStats(os.Stdout, tree.Stats()); err != nil {
			bailf("error writing stats: %s", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildScript, "script", "s", "", "script to run after loading files")
}
