package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wkalt/dagtree/octree"
)

var (
	walkNonEmpty bool
	walkMinLevel int
)

var colors = []*color.Color{
	color.New(color.FgWhite),
	color.New(color.FgRed),
	color.New(color.FgBlue),
	color.New(color.FgYellow),
	color.New(color.FgCyan),
	color.New(color.FgGreen),
	color.New(color.FgMagenta),
	color.New(color.FgHiRed),
	color.New(color.FgHiBlue),
	color.New(color.FgHiYellow),
	color.New(color.FgHiCyan),
	color.New(color.FgHiGreen),
	color.New(color.FgHiMagenta),
	color.New(color.FgHiWhite),
}

func getColor(typ int) *color.Color {
	return colors[typ%len(colors)]
}

var walkCmd = &cobra.Command{
	Use:   "walk [patterns...]",
	Short: "Print the leaves of an octree built from voxel files",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Usage()
			return
		}
		ctx := newBuildContext()
		tree, err := buildTree(ctx, args, true)
		if err != nil {
			bailf("error building tree: %s", err)
		}
		leaves := 0
		err = octree.Walk(ctx, tree, func(h octree.NodeHandle, level, typ int) error {
			if (walkNonEmpty && typ == 0) || level < walkMinLevel {
				return nil
			}
			leaves++
			space := strings.Repeat(" ", 2*(tree.Depth()-level))
			getColor(typ).Printf("%slevel %d type %d (%s)\n", space, level, typ, h)
			return nil
		})
		if err != nil {
			bailf("error walking tree: %s", err)
		}
		fmt.Printf("%d leaves\n", leaves)
	},
}

func init() {
	rootCmd.AddCommand(walkCmd)
	walkCmd.Flags().BoolVarP(&walkNonEmpty, "non-empty", "n", false, "skip leaves of type 0")
	walkCmd.Flags().IntVarP(&walkMinLevel, "min-level", "m", 0, "skip leaves below this level")
}
