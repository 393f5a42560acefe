package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/wkalt/dagtree/octree"
	"github.com/wkalt/dagtree/script"
	"github.com/wkalt/dagtree/voxelio"
)

const prompt = "dagtree # "

var replHistoryFile string

func printError(s string) {
	fmt.Println("ERROR: " + s)
}

func runREPL(ctx context.Context, tree *octree.Tree) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     replHistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer l.Close()
	l.CaptureExitSignal()
	fmt.Printf("depth %d octree, edge %d. Type \"help\" for help.\n\n", tree.Depth(), tree.Size())

	for {
		line, err := l.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		line = strings.TrimSpace(line)

		switch {
		case line == "":
			continue
		case line == "help", strings.HasPrefix(line, "\\h"):
			_, topic, _ := strings.Cut(line, " ")
			fmt.Println(help[topic])
			continue
		case line == "\\q":
			return nil
		case strings.HasPrefix(line, "\\load"):
			patterns := strings.Fields(line)[1:]
			if len(patterns) == 0 {
				printError("not enough arguments")
				continue
			}
			summary, err := voxelio.Load(ctx, tree, patterns)
			if err != nil {
				printError(err.Error())
				continue
			}
			fmt.Printf("loaded %d voxels from %d files\n", summary.Voxels, summary.Files)
			continue
		case line == "\\print":
			repr, err := octree.Print(ctx, tree)
			if err != nil {
				printError(err.Error())
				continue
			}
			fmt.Println(repr)
			continue
		case strings.HasPrefix(line, "\\"):
			printError("unrecognized command: " + line)
			continue
		}

		if err := script.Run(ctx, tree, line, os.Stdout); err != nil {
			printError(err.Error())
		}
	}
	return nil
}

var help = map[string]string{
	"": `The dagtree REPL runs voxel script statements against an in-memory octree.
Statements may be separated by semicolons:

  set T at X Y Z              write type T at a voxel
  fill T from X Y Z to X Y Z  write type T at every voxel of a box
  get X Y Z                   print the type at a voxel
  level X Y Z                 print the type and level of the leaf at a voxel
  finalize                    end the build phase; later writes fail
  stats                       print storage statistics

Slash commands:

  \h [topic]        print help. Topics: load, print.
  \load patterns... load JSON lines voxel files
  \print            print the tree structure
  \q                quit`,

	"load": `\load reads voxel records from files into the tree. Each line of a file is
a JSON object such as {"x": 1, "y": 2, "z": 3, "type": 4}. Patterns may use
** to match recursively, for example:
  \load /data/scans/**/*.jsonl

Files are parsed in parallel and applied in sorted path order.`,

	"print": `\print writes the tree as nested brackets. A branch is printed as
[level child0 ... child7] and a leaf as level:type. The output grows with the
number of written voxels; use it on small trees.`,
}

var replCmd = &cobra.Command{
	Use:   "repl [patterns...]",
	Short: "Interactive voxel script interpreter",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := newBuildContext()
		tree, err := buildTree(ctx, args, false)
		if err != nil {
			bailf("error building tree: %s", err)
		}
		if err := runREPL(ctx, tree); err != nil {
			bailf("error running repl: %s", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().StringVarP(&replHistoryFile, "history-file", "", "/tmp/dagtree-history.tmp", "history file")
}
