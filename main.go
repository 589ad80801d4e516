package main

import (
	"os"

	"github.com/Arizalb/jokicbt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
