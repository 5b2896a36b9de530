package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/PrazoCerto/internal/infrastructure/database/postgres"
)

// schemaMigrator is the part of postgres.Migrator the commands use.
type schemaMigrator interface {
	Up() error
	Down(steps int) error
	Status() (postgres.MigrationState, error)
	Force(version int) error
}

var newMigrator = func(c *CLIContext) schemaMigrator {
	return postgres.NewMigrator(c.Config.Database.Postgres, c.Logger)
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
		Long:  "Apply or roll back the calendar and catalog schema migrations configured in database.postgres.",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: withMigrator(func(cmd *cobra.Command, m schemaMigrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			return printMigrationState(cmd, m)
		}),
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: withMigrator(func(cmd *cobra.Command, m schemaMigrator) error {
			if err := m.Down(steps); err != nil {
				return err
			}
			return printMigrationState(cmd, m)
		}),
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		RunE: withMigrator(func(cmd *cobra.Command, m schemaMigrator) error {
			return printMigrationState(cmd, m)
		}),
	}

	force := &cobra.Command{
		Use:   "force VERSION",
		Short: "Set the schema version without running migrations (clears the dirty flag)",
		Args:  cobra.ExactArgs(1),
		RunE: withMigrator(func(cmd *cobra.Command, m schemaMigrator) error {
			var v int
			if _, err := fmt.Sscanf(cmd.Flags().Arg(0), "%d", &v); err != nil {
				return fmt.Errorf("version must be an integer: %w", err)
			}
			if err := m.Force(v); err != nil {
				return err
			}
			return printMigrationState(cmd, m)
		}),
	}

	cmd.AddCommand(up, down, status, force)
	return cmd
}

func withMigrator(fn func(*cobra.Command, schemaMigrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cliCtx, err := GetCLIContext(cmd)
		if err != nil {
			return err
		}
		return fn(cmd, newMigrator(cliCtx))
	}
}

// migrationView renders the schema version.
type migrationView postgres.MigrationState

func (v migrationView) String() string {
	if v.Dirty {
		return fmt.Sprintf("versão %d (dirty: corrigir e executar migrate force)\n", v.Version)
	}
	return fmt.Sprintf("versão %d\n", v.Version)
}

func printMigrationState(cmd *cobra.Command, m schemaMigrator) error {
	st, err := m.Status()
	if err != nil {
		return err
	}
	return PrintResult(cmd, migrationView(st))
}

//Personal.AI order the ending
