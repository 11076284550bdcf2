package main

import (
	"github.com/dhamidi/javalyzer/java/codebase"
	"github.com/spf13/cobra"
)

func newLSPCmd(a *app) *cobra.Command {
	var tcpAddr string
	var wsAddr string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start a language server that publishes lexical and syntax diagnostics,
document symbols, hover information and completions.

Speaks over stdio unless --tcp or --websocket is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version, a.cfg.Analysis)
			switch {
			case tcpAddr != "":
				return server.RunTCP(tcpAddr)
			case wsAddr != "":
				return server.RunWebSocket(wsAddr)
			}
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVar(&tcpAddr, "tcp", "", "listen for a client on this TCP address")
	cmd.Flags().StringVar(&wsAddr, "websocket", "", "listen for a client on this WebSocket address")
	cmd.MarkFlagsMutuallyExclusive("tcp", "websocket")

	return cmd
}
