package cli

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/soyeahso/parley/hooks"
	"github.com/soyeahso/parley/tracker"
)

var eventTypes = []string{
	tracker.EventUser,
	tracker.EventBot,
	tracker.EventAction,
	tracker.EventSlot,
	tracker.EventRestart,
}

func newTrackerCmd(mgr *hooks.Manager, parents []*pflag.FlagSet) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracker",
		Short: "Inspect and append to conversation trackers",
	}

	cmd.AddCommand(withParents(newTrackerListCmd(mgr), parents))
	cmd.AddCommand(withParents(newTrackerShowCmd(mgr), parents))
	cmd.AddCommand(withParents(newTrackerLogCmd(mgr), parents))

	return cmd
}

func newTrackerListCmd(mgr *hooks.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List senders with a stored tracker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := prepare(cmd.Context(), cmd, args, mgr)
			if err != nil {
				return err
			}
			defer rt.Close(cmd.Context())

			keys, err := rt.trackers.Keys(cmd.Context())
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func newTrackerShowCmd(mgr *hooks.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "show <sender>",
		Short: "Print a sender's events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := prepare(cmd.Context(), cmd, args, mgr)
			if err != nil {
				return err
			}
			defer rt.Close(cmd.Context())

			t, err := rt.trackers.Retrieve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if t == nil {
				return fmt.Errorf("no tracker for sender %q", args[0])
			}
			for _, e := range t.Events {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s %s\n",
					e.Timestamp.Format(time.RFC3339), e.Type, e.Text)
			}
			return nil
		},
	}
}

func newTrackerLogCmd(mgr *hooks.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "log <sender> <event> [text...]",
		Short: "Append an event to a sender's tracker",
		Long:  "Append an event to a sender's tracker. Event is one of: " + strings.Join(eventTypes, ", ") + ".",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sender, typ := args[0], args[1]
			if !slices.Contains(eventTypes, typ) {
				return fmt.Errorf("unknown event %q (want one of %s)", typ, strings.Join(eventTypes, ", "))
			}

			rt, err := prepare(cmd.Context(), cmd, args, mgr)
			if err != nil {
				return err
			}
			defer rt.Close(cmd.Context())

			t, err := rt.trackers.Retrieve(cmd.Context(), sender)
			if err != nil {
				return err
			}
			if t == nil {
				t = tracker.New(sender)
			}
			e := tracker.NewEvent(typ, strings.Join(args[2:], " "))
			t.Append(e)
			if err := rt.trackers.Save(cmd.Context(), t); err != nil {
				return err
			}

			log.Debug().Str("sender", sender).Str("event", e.ID).Msg("event logged")
			fmt.Fprintln(cmd.OutOrStdout(), e.ID)
			return nil
		},
	}
}
