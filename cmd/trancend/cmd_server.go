package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trancendwear/trancend/app/routes"
	"github.com/trancendwear/trancend/config"
	"github.com/trancendwear/trancend/internal/server"
	"github.com/trancendwear/trancend/pkg/record"
	"github.com/trancendwear/trancend/pkg/router"
	"github.com/trancendwear/trancend/pkg/ws"
)

// trancend serve — start the gateway.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// trancend route:list — print the registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		r := router.New()
		if err := routes.RegisterAPI(r, ws.NewHub()); err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, route := range r.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", route.Method, route.Path, route.Name)
		}
		return w.Flush()
	},
}

// trancend backend:ping — check the record-store backend is reachable.
var backendPingCmd = &cobra.Command{
	Use:   "backend:ping",
	Short: "Check connectivity to the record-store backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		client := record.New(config.BackendURL(), config.BackendPublicURL())
		if err := client.Health(); err != nil {
			return fmt.Errorf("backend %s unreachable: %w", config.BackendURL(), err)
		}
		fmt.Printf("backend %s OK\n", config.BackendURL())
		return nil
	},
}
