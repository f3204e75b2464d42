package main

import (
	"os"

	"github.com/WeSpitfire/flux-cli-sub002/cmd"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/ui"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/utils"
)

func main() {
	logger := utils.GetLogger()
	defer func() {
		if err := logger.Close(); err != nil {
			ui.Errf("Error closing logger: %v\n", err)
		}
	}()

	if err := cmd.Execute(); err != nil {
		logger.Logf("Application error: %v", err)
		os.Exit(1)
	}
}
