package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/block/amocrm-go/dashboard"
	"github.com/block/amocrm-go/types"
)

var taskCmd = &cobra.Command{
	Use:   "task <leadId> [leadId...]",
	Short: "Show the task of one or more leads",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int64, len(args))
		for i, arg := range args {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid lead id %q", arg)
			}
			ids[i] = id
		}

		d, err := newDashboard()
		if err != nil {
			return err
		}
		defer d.Stop()

		tasks := make([]types.Task, len(ids))
		errs := make([]error, len(ids))
		g := errgroup.Group{}
		for i, id := range ids {
			g.Go(func() error {
				tasks[i], errs[i] = d.Task(cmd.Context(), id)
				return nil
			})
		}
		_ = g.Wait()

		now := time.Now()
		for i, id := range ids {
			switch {
			case dashboard.IsCancelled(errs[i]):
				fmt.Fprintf(cmd.OutOrStdout(), "%d  %s\n", id, mutedStyle.Render("cancelled"))
			case errs[i] != nil:
				return errs[i]
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "%d  %s\n", id, formatTask(tasks[i], now))
			}
		}
		return nil
	},
}
