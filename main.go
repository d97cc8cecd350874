package main

import (
	"github.com/sst/multipick/cmd"
	"github.com/sst/multipick/internal/logging"
	"github.com/sst/multipick/internal/status"
)

func main() {
	defer logging.RecoverPanic("main", func() {
		status.Error("Application terminated due to unhandled panic")
	})

	cmd.Execute()
}
