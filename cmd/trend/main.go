package main

import (
	"os"

	"github.com/wonny/trendsignal/cmd/trend/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
