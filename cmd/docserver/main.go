package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/agent-trust-protocol/atp-core/cmd/docserver/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docserver",
		Short: "ATP documentation server",
		Long:  `Serves the ATP documentation tree over HTTP, rendering markdown files to styled HTML pages and serving everything else as static files.`,
		// Running with no arguments starts the server directly.
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunServer()
		},
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
