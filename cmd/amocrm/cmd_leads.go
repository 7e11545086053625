package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/block/amocrm-go/state"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List all leads with their main contact",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDashboard()
		if err != nil {
			return err
		}
		defer d.Stop()

		store := d.Store()
		updates := store.Subscribe()
		printed := make(chan struct{})
		go func() {
			defer close(printed)
			printLeads(cmd.OutOrStdout(), store, updates)
		}()

		leads, err := d.Leads(cmd.Context())
		store.Unsubscribe(updates)
		<-printed
		if err != nil {
			return fmt.Errorf("listing stopped after %d leads: %w", len(leads), err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render(fmt.Sprintf("%d leads", len(leads))))
		return nil
	},
}

// printLeads prints every lead the first time it shows up in a snapshot.
func printLeads(w io.Writer, store *state.Store, updates <-chan state.Snapshot) {
	for snap := range updates {
		for _, lead := range snap.Leads {
			if store.MarkRendered(lead.Id) {
				fmt.Fprintln(w, formatLead(lead))
			}
		}
	}
	for _, lead := range store.Snapshot().Leads {
		if store.MarkRendered(lead.Id) {
			fmt.Fprintln(w, formatLead(lead))
		}
	}
}
