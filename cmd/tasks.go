package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/store"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/tasks"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage the remediation task backlog",
}

var tasksSyncCmd = &cobra.Command{
	Use:   "sync <company-id> <period>",
	Short: "Regenerate automatic tasks from the current gaps",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, st, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		userID, _ := cmd.Flags().GetString("user")
		report, err := eng.SyncTasks(ctx, args[0], userID, args[1])
		if err != nil {
			return err
		}

		fmt.Printf("Created %d, skipped %d, marked overdue %d\n",
			report.Created, report.Skipped, report.Overdue)
		for _, f := range report.Failures {
			fmt.Fprintf(os.Stderr, "warning: %s\n", f)
		}
		return nil
	},
}

var tasksListCmd = &cobra.Command{
	Use:   "list <company-id>",
	Short: "List tasks for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		source, _ := cmd.Flags().GetString("source")
		limit, _ := cmd.Flags().GetInt("limit")

		tasks, err := st.ListTasks(ctx, args[0], store.TaskFilter{
			Status: model.TaskStatus(status),
			Source: model.TaskSource(source),
			Limit:  limit,
		})
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Fprintln(os.Stderr, "No tasks found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPRIORITY\tSTATUS\tDUE\tSOURCE\tTITLE")
		for _, t := range tasks {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				t.ID, t.Priority, t.Status, t.DueDate.Format("2006-01-02"), t.Source, t.Title)
		}
		return w.Flush()
	},
}

var tasksStatsCmd = &cobra.Command{
	Use:   "stats <company-id>",
	Short: "Summarize a company's task backlog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		backlog, err := st.ListTasks(ctx, args[0], store.TaskFilter{Limit: 1000})
		if err != nil {
			return err
		}
		s := tasks.Summarize(backlog, time.Now())

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Total\t%d\n", s.Total)
		fmt.Fprintf(w, "Pending\t%d\n", s.Pending)
		fmt.Fprintf(w, "In progress\t%d\n", s.InProgress)
		fmt.Fprintf(w, "Completed\t%d\n", s.Completed)
		fmt.Fprintf(w, "Overdue\t%d\n", s.Overdue)
		fmt.Fprintf(w, "High priority open\t%d\n", s.HighPriorityOpen)
		fmt.Fprintf(w, "Due within 7 days\t%d\n", s.DueWithin7Days)
		fmt.Fprintf(w, "Manual\t%d\n", s.Manual)
		return w.Flush()
	},
}

var tasksCompleteCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		if err := st.UpdateTaskStatus(ctx, args[0], model.TaskStatusCompleted); err != nil {
			return err
		}
		zap.L().Info("task completed", zap.String("task_id", args[0]))
		return nil
	},
}

func init() {
	tasksSyncCmd.Flags().String("user", "", "user id to attribute generated tasks to")
	tasksListCmd.Flags().String("status", "", "filter by status (pending|in_progress|completed|overdue)")
	tasksListCmd.Flags().String("source", "", "filter by source (compliance|missing-data|expiring-document|manual)")
	tasksListCmd.Flags().Int("limit", 50, "maximum number of tasks")

	tasksCmd.AddCommand(tasksSyncCmd, tasksListCmd, tasksStatsCmd, tasksCompleteCmd)
	rootCmd.AddCommand(tasksCmd)
}
