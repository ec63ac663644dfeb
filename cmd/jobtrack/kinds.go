package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/jobtrack/internal/classifier"
	"github.com/pbaille/jobtrack/internal/domain"
	"github.com/pbaille/jobtrack/internal/fetcher"
	"github.com/pbaille/jobtrack/internal/insight"
	"github.com/pbaille/jobtrack/internal/logger"
	"github.com/pbaille/jobtrack/internal/tracker"
)

func leadCmd(opts *rootOptions) *cobra.Command {
	var fromURL string

	return recordCmd(opts, kindDef[domain.Lead]{
		kind:    domain.KindLead,
		aliases: []string{"leads"},
		repo:    func(t *tracker.Tracker) repository[domain.Lead] { return t.Leads },
		columns: []string{"STATUS", "COMPANY", "ROLE", "SOURCE"},
		row: func(l domain.Lead) []string {
			return []string{string(l.Status), l.CompanyName, truncate(l.RoleTitle, 40), l.Source}
		},
		addFlags: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&fromURL, "from-url", "", "prefill from a job listing page")
		},
		prefill: func(ctx context.Context, s *session) (map[string]interface{}, error) {
			if fromURL == "" {
				return nil, nil
			}
			page, err := fetcher.New().Fetch(ctx, fromURL)
			if err != nil {
				return nil, fmt.Errorf("prefill from %s: %w", fromURL, err)
			}
			listing, err := classifier.Prefill(ctx, newClassifier(s.log), page)
			if err != nil {
				s.log.WithError(err).Warn("listing extraction failed, using page title", nil)
			}
			return leadDefaults(page, listing), nil
		},
	})
}

// newClassifier returns the listing classifier, or nil when no API key is
// configured
func newClassifier(log logger.Logger) *classifier.Classifier {
	c, err := classifier.New()
	if err != nil {
		log.Debug("listing classifier disabled", map[string]interface{}{"reason": err.Error()})
		return nil
	}
	return c
}

// leadDefaults maps a listing page and its extracted details onto lead
// fields
func leadDefaults(page *fetcher.Page, l classifier.Listing) map[string]interface{} {
	fields := map[string]interface{}{
		"listingUrl": page.URL,
		"source":     "web",
		"status":     string(domain.LeadNew),
	}
	if name := l.Name(); name != "" {
		fields["name"] = name
	}
	if l.RoleTitle != "" {
		fields["roleTitle"] = l.RoleTitle
	}
	if l.CompanyName != "" {
		fields["companyName"] = l.CompanyName
	}
	return fields
}

func applicationCmd(opts *rootOptions) *cobra.Command {
	cmd := recordCmd(opts, kindDef[domain.Application]{
		kind:    domain.KindApplication,
		aliases: []string{"app", "apps", "applications"},
		repo:    func(t *tracker.Tracker) repository[domain.Application] { return t.Applications },
		columns: []string{"STATUS", "PRIORITY", "COMPANY", "ROLE", "LAST FOLLOW-UP"},
		row: func(a domain.Application) []string {
			return []string{
				string(a.Status), string(a.Priority), a.CompanyName,
				truncate(a.RoleTitle, 40), orDash(string(a.LastFollowUp)),
			}
		},
	})
	cmd.AddCommand(kanbanCmd(opts))
	return cmd
}

func kanbanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "kanban",
		Short: "Show applications grouped by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			w := cmd.OutOrStdout()
			for _, col := range insight.Kanban(s.tracker.Applications.All(cmd.Context())) {
				fmt.Fprintf(w, "%s (%d)\n", col.Status, len(col.Applications))
				for _, a := range col.Applications {
					fmt.Fprintf(w, "  %s  %s - %s\n", a.ID, a.CompanyName, truncate(a.RoleTitle, 40))
				}
			}
			return nil
		},
	}
}

func interviewCmd(opts *rootOptions) *cobra.Command {
	var applicationID string

	return recordCmd(opts, kindDef[domain.Interview]{
		kind:    domain.KindInterview,
		aliases: []string{"interviews"},
		repo:    func(t *tracker.Tracker) repository[domain.Interview] { return t.Interviews },
		columns: []string{"APPLICATION", "ROUND", "TYPE", "WHEN", "OUTCOME"},
		row: func(i domain.Interview) []string {
			return []string{
				i.ApplicationID, strconv.Itoa(i.Round), string(i.Type),
				orDash(string(i.DateTime)), orDash(i.Outcome),
			}
		},
		listFlags: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&applicationID, "application", "", "only interviews of this application id")
		},
		list: func(ctx context.Context, t *tracker.Tracker) ([]domain.Interview, error) {
			if applicationID == "" {
				return t.Interviews.All(ctx), nil
			}
			return t.InterviewsByApplication(ctx, applicationID), nil
		},
	})
}

func contactCmd(opts *rootOptions) *cobra.Command {
	var byRelationship bool

	return recordCmd(opts, kindDef[domain.Contact]{
		kind:    domain.KindContact,
		aliases: []string{"contacts"},
		repo:    func(t *tracker.Tracker) repository[domain.Contact] { return t.Contacts },
		columns: []string{"NAME", "RELATIONSHIP", "COMPANY", "REFERRAL"},
		row: func(c domain.Contact) []string {
			return []string{c.Name, orDash(string(c.Relationship)), orDash(c.Company), orDash(string(c.ReferralStatus))}
		},
		listFlags: func(cmd *cobra.Command) {
			cmd.Flags().BoolVar(&byRelationship, "by-relationship", false, "order contacts by relationship")
		},
		list: func(ctx context.Context, t *tracker.Tracker) ([]domain.Contact, error) {
			contacts := t.Contacts.All(ctx)
			if !byRelationship {
				return contacts, nil
			}
			ordered := make([]domain.Contact, 0, len(contacts))
			for _, g := range insight.ContactsByRelationship(contacts) {
				ordered = append(ordered, g.Contacts...)
			}
			return ordered, nil
		},
	})
}

func taskCmd(opts *rootOptions) *cobra.Command {
	var filter string

	cmd := recordCmd(opts, kindDef[domain.Task]{
		kind:    domain.KindTask,
		aliases: []string{"tasks"},
		repo:    func(t *tracker.Tracker) repository[domain.Task] { return t.Tasks },
		columns: []string{"DONE", "PRIORITY", "TYPE", "DUE", "TITLE"},
		row: func(t domain.Task) []string {
			done := " "
			if t.Completed {
				done = "x"
			}
			return []string{done, string(t.Priority), string(t.Type), orDash(string(t.DueDate)), truncate(t.Title, 50)}
		},
		listFlags: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&filter, "filter", "all", "all, active or completed")
		},
		list: func(ctx context.Context, t *tracker.Tracker) ([]domain.Task, error) {
			f, ok := insight.ParseTaskFilter(filter)
			if !ok {
				return nil, fmt.Errorf("invalid --filter %q, expected all, active or completed", filter)
			}
			return insight.FilterTasks(t.Tasks.All(ctx), f), nil
		},
	})

	cmd.AddCommand(taskDoneCmd(opts))
	cmd.AddCommand(taskToggleCmd(opts))
	cmd.AddCommand(taskSnoozeCmd(opts))
	cmd.AddCommand(taskDeleteCmd(opts))
	cmd.AddCommand(taskAgendaCmd(opts))
	return cmd
}

func taskDoneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done [id]",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			_, found, err := s.tracker.Tasks.UpdateFunc(cmd.Context(), args[0], func(t *domain.Task) bool {
				if t.Completed {
					return false
				}
				t.Completed = true
				return true
			})
			if !found {
				return fmt.Errorf("task not found: %s", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed task %s\n", args[0])
			return nil
		},
	}
}

func taskToggleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle [id]",
		Short: "Flip a task between open and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			task, found, err := s.tracker.Tasks.Toggle(cmd.Context(), args[0])
			if !found {
				return fmt.Errorf("task not found: %s", args[0])
			}
			if err != nil {
				return err
			}
			state := "open"
			if task.Completed {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", args[0], state)
			return nil
		},
	}
}

func taskSnoozeCmd(opts *rootOptions) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "snooze [id]",
		Short: "Push a task's due date to N days from today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 0 {
				return fmt.Errorf("--days must not be negative")
			}

			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			task, found, err := s.tracker.Tasks.Snooze(cmd.Context(), args[0], days)
			if !found {
				return fmt.Errorf("task not found: %s", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s now due %s\n", args[0], task.DueDate)
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 1, "days from today")
	return cmd
}

func taskDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			found, err := s.tracker.Tasks.Delete(cmd.Context(), args[0])
			if !found {
				return fmt.Errorf("task not found: %s", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
			return nil
		},
	}
}

func taskAgendaCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "agenda",
		Short: "Show tasks grouped into overdue, today, upcoming and undated",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			b := insight.BucketTasks(s.tracker.Tasks.All(cmd.Context()), s.tracker.Now())
			w := cmd.OutOrStdout()
			for _, section := range []struct {
				title string
				tasks []domain.Task
			}{
				{"Overdue", b.Overdue},
				{"Due today", b.DueToday},
				{"Upcoming", b.Upcoming},
				{"No due date", b.NoDueDate},
			} {
				if len(section.tasks) == 0 {
					continue
				}
				fmt.Fprintf(w, "%s (%d)\n", section.title, len(section.tasks))
				for _, t := range section.tasks {
					fmt.Fprintf(w, "  %s  %s  %s\n", t.ID, orDash(string(t.DueDate)), truncate(t.Title, 50))
				}
			}
			fmt.Fprintf(w, "%d completed\n", len(b.Completed))
			return nil
		},
	}
}

func offerCmd(opts *rootOptions) *cobra.Command {
	var urgentOnly bool

	return recordCmd(opts, kindDef[domain.Offer]{
		kind:    domain.KindOffer,
		aliases: []string{"offers"},
		repo:    func(t *tracker.Tracker) repository[domain.Offer] { return t.Offers },
		columns: []string{"APPLICATION", "COMPANY", "TOTAL", "DEADLINE", "DECISION"},
		row: func(o domain.Offer) []string {
			return []string{
				o.ApplicationID, orDash(o.CompanyName),
				strconv.FormatFloat(o.TotalCompensation(), 'f', -1, 64),
				orDash(string(o.Deadline)), orDash(o.Decision),
			}
		},
		listFlags: func(cmd *cobra.Command) {
			cmd.Flags().BoolVar(&urgentOnly, "urgent", false, "only offers whose deadline is within 3 days")
		},
		list: func(ctx context.Context, t *tracker.Tracker) ([]domain.Offer, error) {
			offers := t.Offers.All(ctx)
			if urgentOnly {
				return insight.UrgentOffers(offers, t.Now()), nil
			}
			return offers, nil
		},
	})
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
