package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stargate-press/stargate/internal/config"
	"github.com/stargate-press/stargate/internal/db"
	"github.com/stargate-press/stargate/internal/job"
	"github.com/stargate-press/stargate/internal/workflow"
	"gorm.io/gorm"
)

func newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect jobs from the command line",
	}

	cmd.AddCommand(newJobsListCmd())
	cmd.AddCommand(newJobsHistoryCmd())
	return cmd
}

// connectFromConfig opens the configured database. Allows test override.
var connectFromConfig = func(configPath string) (*gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	gormDB, err := db.Connect(db.Options{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Database.Name, err)
	}
	return gormDB, nil
}

func newJobsListCmd() *cobra.Command {
	var (
		configPath string
		search     string
		statusName string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs with their derived status",
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			rows, err := job.List(gormDB, job.Filters{Search: search, Status: statusName})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No jobs found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "JOB\tCUSTOMER\tNAME\tPRESS\tSTATUS")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.JobNumber, r.CustomerName, r.JobName, r.PressType, r.Status)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "stargate.yaml", "path to StarGate config file")
	cmd.Flags().StringVar(&search, "search", "", "match against job number, name, customer, or salesman")
	cmd.Flags().StringVar(&statusName, "status", "", "filter by derived status")
	return cmd
}

func newJobsHistoryCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "history <job-number>",
		Short: "Show a job's status ledger, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			entries, err := workflow.GetHistory(gormDB, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No history for %s.\n", args[0])
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tSTATUS\tBY\tNOTES")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					e.StatusDate.Format("2006-01-02 15:04"), e.Status, e.UpdatedBy, e.Notes)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "stargate.yaml", "path to StarGate config file")
	return cmd
}
