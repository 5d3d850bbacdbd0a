package main

import (
	"os"

	"github.com/exo9planet/SubWallet-Extension/internal/app"
)

func main() {
	runner := app.NewRunner()
	os.Exit(runner.Run(os.Args[1:]))
}
