package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pbaille/jobtrack/internal/api"
	"github.com/pbaille/jobtrack/internal/insight"
)

func dashboardCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the job search overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			sum := insight.Summarize(s.tracker.Snapshot(cmd.Context()), s.tracker.Now())
			w := cmd.OutOrStdout()
			if asJSON {
				return printJSON(w, sum)
			}

			fmt.Fprintf(w, "Applications:       %d\n", sum.TotalApplications)
			fmt.Fprintf(w, "Active interviews:  %d\n", sum.ActiveInterviews)
			fmt.Fprintf(w, "Pending offers:     %d\n", sum.PendingOffers)
			fmt.Fprintf(w, "Overdue tasks:      %d\n", sum.OverdueTasks)

			if len(sum.DueToday) > 0 {
				fmt.Fprintf(w, "\nDue today:\n")
				for _, t := range sum.DueToday {
					fmt.Fprintf(w, "  %s  %s\n", t.ID, truncate(t.Title, 60))
				}
			}
			if len(sum.Stalled) > 0 {
				fmt.Fprintf(w, "\nStalled applications:\n")
				for _, a := range sum.Stalled {
					fmt.Fprintf(w, "  %s  %s - %s (last follow-up %s)\n",
						a.ID, a.CompanyName, truncate(a.RoleTitle, 40), orDash(string(a.LastFollowUp)))
				}
			}
			if len(sum.UrgentOffers) > 0 {
				fmt.Fprintf(w, "\nUrgent offers:\n")
				for _, o := range sum.UrgentOffers {
					fmt.Fprintf(w, "  %s  deadline %s\n", o.ID, o.Deadline)
				}
			}
			if len(sum.UpcomingInterviews) > 0 {
				fmt.Fprintf(w, "\nUpcoming interviews:\n")
				for _, iv := range sum.UpcomingInterviews {
					fmt.Fprintf(w, "  %s  %s round %d (%s)\n", iv.DateTime, iv.ApplicationID, iv.Round, iv.Type)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func exportCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export applications and offers to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			exp := s.tracker.Export(cmd.Context())
			if output == "-" {
				return printJSON(cmd.OutOrStdout(), exp)
			}
			if output == "" {
				output = exp.FileName()
			}

			data, err := json.MarshalIndent(exp, "", "  ")
			if err != nil {
				return fmt.Errorf("encode export: %w", err)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d applications and %d offers to %s\n",
				len(exp.Applications), len(exp.Offers), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default job-hunt-backup-<date>.json)")
	return cmd
}

func serveCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if addr == "" {
				addr = s.cfg.Server.Addr
			}
			serverOpts := []api.Option{api.WithLogger(s.log)}
			if c := newClassifier(s.log); c != nil {
				serverOpts = append(serverOpts, api.WithClassifier(c))
			}
			server := api.New(s.tracker, addr, serverOpts...)
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "server address (default server.addr, :8080)")
	return cmd
}
