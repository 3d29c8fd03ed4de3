package main

import (
	"fmt"
	"runtime"

	"canvasd/internal/ui"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "canvasd",
		Short: "canvasd - draggable node canvases over HTTP",
		Long: ui.Brand.Sprint("canvasd") + " - host canvases of draggable nodes\n" +
			ui.Subtle.Sprint("Positions live in memory; drags are driven by pointer events"),
		Version:      version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate("canvasd {{ .Version }}\n")

	root.AddCommand(
		serveCmd(),
		demoCmd(),
		configCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			ui.Field(w, "Version", version)
			ui.Field(w, "Go", runtime.Version())
			ui.Field(w, "Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH))
		},
	}
}
