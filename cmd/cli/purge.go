package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fiwareops/entpurge/pkg/clients/orion"
)

func NewPurgeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge USER",
		Short: "Delete all entities of the target types from a subservice",
		Long: `Delete every entity of the target types under the configured service
and subservice. Passes of fetch-and-delete repeat until a pass removes
nothing; entities of other types are left untouched. Use with caution!`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurge(cmd, args[0])
		},
	}

	cmd.Flags().StringSlice("type", []string{"Streetlight", "StreetlightControlCabinet"}, "Entity type to purge (repeatable)")
	cmd.Flags().Int("max-passes", 10, "Maximum purge passes before giving up (<= 0 for unbounded)")
	cmd.Flags().String("password", "", "User password (prompted when empty)")

	return cmd
}

func runPurge(cmd *cobra.Command, username string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	password := config.Password
	if password == "" {
		password, err = promptPassword(username)
		if err != nil {
			return err
		}
	}

	ctx := context.Background()

	session, err := orion.OpenSession(ctx, orion.Credentials{
		AuthDomain: config.AuthDomain,
		CBDomain:   config.CBDomain,
		Service:    config.Service,
		Username:   username,
		Password:   password,
	})
	if err != nil {
		return fmt.Errorf("failed to open broker session: %w", err)
	}
	defer session.Close()

	total, err := session.Purge(ctx, config.Subservice, config.Types, config.MaxPasses, func(pass, deleted int) {
		fmt.Printf("* Purged %d entities\n", deleted)
	})
	if err != nil {
		if errors.Is(err, orion.ErrNotConverged) {
			log.Warn().Int("deleted", total).Msg("entities kept reappearing between passes")
		}
		return err
	}

	fmt.Printf("Total %d entities purged\n", total)

	return nil
}
