package main

import (
	"fmt"
	"os"

	"vibeshield/cmd"
)

func main() {
	err := cmd.Execute(os.Args[1:])
	if err != nil && !cmd.Reported(err) {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(cmd.ExitCode(err))
}
