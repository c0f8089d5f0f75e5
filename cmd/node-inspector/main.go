package main

import (
	"context"
	"os"

	"github.com/kubev2v/node-inspector/cmd"
	"github.com/kubev2v/node-inspector/internal/config"
)

func main() {
	cfg := config.NewConfigurationWithOptionsAndDefaults()

	if err := cmd.NewRootCommand(cfg).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
