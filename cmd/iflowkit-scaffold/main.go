package main

import (
	"os"

	"github.com/iflowkit/iflowkit-scaffold/internal/app"
)

func main() {
	if err := app.Run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
