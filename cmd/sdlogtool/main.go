// Command sdlogtool writes and inspects sdlog files from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/ntamas-sdlog/sdlog/cmd/sdlogtool/cmd"
)

func main() {
	if err := cmd.RootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
