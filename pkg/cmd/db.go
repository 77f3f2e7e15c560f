package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eduardoinoa18/memorybox/pkg/internal/storage/db"
)

var (
	dbCmd = &cobra.Command{
		Use:   "db",
		Short: "database related commands",
	}

	dbListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list all registered database types",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registered database types:")
			for _, dbType := range db.GetRegisteredDBTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), "   - "+string(dbType))
			}
		},
	}
)

func registerDBCommands() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbListCmd)
}
