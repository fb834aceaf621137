package main

import (
	"bufio"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/stargate-press/stargate/internal/config"
	"github.com/stargate-press/stargate/internal/db"
	"golang.org/x/term"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBResetCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var (
		configPath     string
		promptPassword bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the StarGate database",
		Long:  "Creates the MySQL database, migrates all tables, and seeds the status catalog.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath, promptPassword)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "stargate.yaml", "path to StarGate config file")
	cmd.Flags().BoolVar(&promptPassword, "prompt-password", false, "prompt for the MySQL password instead of reading config")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string, promptPassword bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if promptPassword {
		pw, err := readPassword(cmd, cfg.Database.User)
		if err != nil {
			return err
		}
		cfg.Database.Password = pw
	}

	opts := db.Options{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
	}

	adminDB, err := db.ConnectAdmin(opts)
	if err != nil {
		return fmt.Errorf("connect to MySQL at %s:%d: %w", opts.Host, opts.Port, err)
	}
	fmt.Fprintf(out, "Connected to MySQL at %s:%d\n", opts.Host, opts.Port)

	if err := db.CreateDatabase(adminDB, cfg.Database.Name); err != nil {
		return err
	}
	fmt.Fprintf(out, "Database %s ready\n", cfg.Database.Name)

	opts.Database = cfg.Database.Name
	gormDB, err := db.Connect(opts)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.Database.Name, err)
	}

	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	if err := db.SeedStatusTypes(gormDB); err != nil {
		return err
	}
	fmt.Fprintln(out, "Status catalog seeded")

	fmt.Fprintln(out, "\nStarGate database initialized successfully.")
	return nil
}

// readPassword reads the MySQL password without echo when stdin is a
// terminal, falling back to a plain line read otherwise.
func readPassword(cmd *cobra.Command, user string) (string, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "MySQL password for %s: ", user)
	fd := int(syscall.Stdin)
	if term.IsTerminal(fd) {
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func newDBResetCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and re-initialize the StarGate database",
		Long:  "Drops the configured database, re-creates it, migrates, and seeds the status catalog.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBReset(cmd, configPath, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "stargate.yaml", "path to StarGate config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runDBReset(cmd *cobra.Command, configPath string, skipConfirm bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if !skipConfirm && !confirmReset(cmd, cfg.Database.Name) {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	opts := db.Options{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
	}

	adminDB, err := db.ConnectAdmin(opts)
	if err != nil {
		return fmt.Errorf("connect to MySQL at %s:%d: %w", opts.Host, opts.Port, err)
	}

	if err := db.DropDatabase(adminDB, cfg.Database.Name); err != nil {
		return err
	}
	fmt.Fprintf(out, "Dropped database %s\n", cfg.Database.Name)

	return runDBInit(cmd, configPath, false)
}

// confirmReset asks the user to confirm a destructive reset.
func confirmReset(cmd *cobra.Command, dbName string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "Drop database %q and all job data? [y/N] ", dbName)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
