package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "entpurge",
		Short: "Entity administration for NGSI-v2 context brokers",
		Long: `entpurge administers entities held in an NGSI-v2 context broker: it
authenticates against the identity manager, enumerates entities by type
and bulk-deletes entities of chosen types from a subservice.

Every option can also be set through an RM_-prefixed environment
variable (for example RM_CB_DOMAIN).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("auth-domain", defaultAuthDomain, "URL of the identity manager")
	rootCmd.PersistentFlags().String("cb-domain", defaultCBDomain, "URL of the context broker")
	rootCmd.PersistentFlags().String("service", defaultService, "FIWARE service (tenant) name")
	rootCmd.PersistentFlags().String("subservice", defaultSubservice, "FIWARE servicepath within the tenant")

	rootCmd.AddCommand(NewPurgeCommand())
	rootCmd.AddCommand(NewEntitiesCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
