package main

import "github.com/wkalt/dagtree/cli/cmd"

func main() {
	cmd.Execute()
}
