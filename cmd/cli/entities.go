package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fiwareops/entpurge/pkg/clients/orion"
)

func NewEntitiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entities USER",
		Short: "List entity counts per type in a subservice",
		Long: `Fetch the entity catalog of the configured service and subservice and
print how many entities of each type it holds. Read-only; useful to
check what a purge would target.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntities(cmd, args[0])
		},
	}

	cmd.Flags().String("password", "", "User password (prompted when empty)")

	return cmd
}

func runEntities(cmd *cobra.Command, username string) error {
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

	catalog, err := session.Entities(ctx, config.Subservice)
	if err != nil {
		return err
	}

	types := catalog.Types()
	sort.Strings(types)

	fmt.Printf("Entities in %s%s:\n", config.Service, config.Subservice)
	if len(types) == 0 {
		fmt.Println("   none")
		return nil
	}
	for _, typeName := range types {
		fmt.Printf("   %-40s %d\n", typeName, len(catalog[typeName]))
	}
	fmt.Printf("Total: %d entities\n", catalog.Len())

	return nil
}
