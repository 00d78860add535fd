package main

import (
	"os"

	"github.com/Juan-Fuente-T/borme-scraper-frontend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
