package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {

	var listenAddr string

	// rootCmd represents the base command when called without any subcommands
	var rootCmd = &cobra.Command{
		Use: "mist-org-licensing-comparison",
	}

	var apiServerCmd = &cobra.Command{
		Use:   "api_server",
		Short: "Mist Org Licensing Comparison API Server",
		Run: func(cmd *cobra.Command, args []string) {
			startApiServer(listenAddr)
		},
	}

	rootCmd.AddCommand(apiServerCmd)
	apiServerCmd.Flags().StringVarP(&listenAddr, "listen-addr", "l", ":8000", "Hostname:port")

	return rootCmd
}

func main() {
	godotenv.Load()

	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
