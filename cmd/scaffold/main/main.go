package main

import (
	"os"

	"github.com/arthur-debert/scaffold/cmd/scaffold"
	"github.com/arthur-debert/scaffold/pkg/ui"
)

func main() {
	rootCmd := scaffold.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if r, rerr := ui.NewRenderer(ui.FormatAuto, os.Stderr); rerr == nil {
			_ = r.RenderError(err)
		}
		os.Exit(1)
	}
}
