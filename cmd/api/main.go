// server/cmd/api/main.go
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "lmis-mock-server",
	Short: "OpenLMIS & OpenSRP FHIR gateway mock server",
	Long: `Serves an in-memory OpenLMIS backend (auth, requisitions, stock, reference data)
and an OpenSRP FHIR gateway (Patient, Location, Organization, Practitioner) for
integration testing. All state is seeded from fixtures and lost on exit.`,
	RunE:          runServer,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	_ = godotenv.Load()

	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "./config", "directory containing config.yaml")
	flags.String("host", "0.0.0.0", "host to bind to")
	flags.String("port", "5003", "port to listen on")
	flags.Bool("debug", false, "enable debug mode")

	// Flags win over config.yaml and env, but only when set explicitly.
	viper.BindPFlag("server.host", flags.Lookup("host"))
	viper.BindPFlag("server.port", flags.Lookup("port"))
	viper.BindPFlag("log.development", flags.Lookup("debug"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
