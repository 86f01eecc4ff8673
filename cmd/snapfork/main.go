package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/bnema/snapfork/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
