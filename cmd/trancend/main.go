package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "trancend",
	Short: "Trancend — storefront gateway CLI",
	Long:  "Trancend serves the storefront API gateway: catalog, cart, sessions, and orders over a record-store backend.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)
	rootCmd.AddCommand(backendPingCmd)
}
