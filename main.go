package main

import (
	"os"

	"dailyMotivatorAPI/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
