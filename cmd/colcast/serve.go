package main

import (
	"github.com/spf13/cobra"

	"github.com/colcast/colcast/api"
)

// newServeCommand creates a new serve command.
func newServeCommand() *cobra.Command {
	opts := api.ServerOptions{
		Port: "3000",
	}

	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Run the colcast HTTP API",
		Long:         `The serve command exposes conversions over HTTP: health and version probes plus a POST /convert endpoint mirroring the convert command.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return api.NewServer(opts).Start()
		},
	}

	cmd.Flags().StringVarP(&opts.Port, "port", "p", opts.Port, "Port to listen on")
	cmd.Flags().BoolVar(&opts.Prefork, "prefork", false, "Use multiple OS processes")

	return cmd
}
