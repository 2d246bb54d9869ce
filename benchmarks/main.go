package main

import (
	"os"

	"github.com/zeu5/collabsort/benchmarks/cmd"
	"github.com/zeu5/collabsort/config"
)

func main() {
	config.LoadEnv(".env", "../.env", "../../.env")

	if err := cmd.RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
