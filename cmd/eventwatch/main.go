package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/clubops/eventwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		var flagErr *cmd.FlagError
		if errors.As(err, &flagErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
