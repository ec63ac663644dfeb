package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pbaille/jobtrack/internal/domain"
	"github.com/pbaille/jobtrack/internal/tracker"
)

// repository is the part of a tracker repository the commands need
type repository[T any] interface {
	Add(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (T, bool, error)
	All(ctx context.Context) []T
	Get(ctx context.Context, id string) (T, bool)
}

// kindDef describes how one record kind is exposed on the command line
type kindDef[T any] struct {
	kind    domain.Kind
	aliases []string
	repo    func(*tracker.Tracker) repository[T]
	columns []string
	row     func(T) []string

	// prefill, when set, supplies field defaults for add; --set wins
	prefill  func(ctx context.Context, s *session) (map[string]interface{}, error)
	addFlags func(*cobra.Command)

	// list, when set, replaces the plain listing, e.g. to honour listFlags
	list      func(ctx context.Context, t *tracker.Tracker) ([]T, error)
	listFlags func(*cobra.Command)
}

// recordCmd builds the add/update/list/show command group for one kind
func recordCmd[T any](opts *rootOptions, def kindDef[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:     string(def.kind),
		Aliases: def.aliases,
		Short:   fmt.Sprintf("Manage %s records", def.kind),
	}
	cmd.AddCommand(addRecordCmd(opts, def))
	cmd.AddCommand(updateRecordCmd(opts, def))
	cmd.AddCommand(listRecordCmd(opts, def))
	cmd.AddCommand(showRecordCmd(opts, def))
	return cmd
}

func addRecordCmd[T any](opts *rootOptions, def kindDef[T]) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Add a %s", def.kind),
		Example: fmt.Sprintf("  jobtrack %s add --set %s",
			def.kind, strings.Join(exampleSets[def.kind], " --set ")),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			explicit, err := parseSets[T](sets)
			if err != nil {
				return err
			}

			s, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			fields := map[string]interface{}{}
			if def.prefill != nil {
				defaults, err := def.prefill(ctx, s)
				if err != nil {
					return err
				}
				for k, v := range defaults {
					fields[k] = v
				}
			}
			for k, v := range explicit {
				fields[k] = v
			}

			rec, err := decodeRecord[T](fields)
			if err != nil {
				return err
			}

			created, err := def.repo(s.tracker).Add(ctx, rec)
			if err != nil {
				return describe(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", def.kind, recordID(&created))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value, value parsed as JSON when possible (repeatable)")
	if def.addFlags != nil {
		def.addFlags(cmd)
	}
	return cmd
}

func updateRecordCmd[T any](opts *rootOptions, def kindDef[T]) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: fmt.Sprintf("Update fields of a %s", def.kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			patch, err := parseSets[T](sets)
			if err != nil {
				return err
			}
			if len(patch) == 0 {
				return fmt.Errorf("nothing to update, use --set field=value")
			}

			s, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			_, found, err := def.repo(s.tracker).Update(ctx, args[0], patch)
			if !found {
				return fmt.Errorf("%s not found: %s", def.kind, args[0])
			}
			if err != nil {
				return describe(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", def.kind, args[0])
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value, null clears the field (repeatable)")
	return cmd
}

func listRecordCmd[T any](opts *rootOptions, def kindDef[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s records", def.kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			var recs []T
			if def.list != nil {
				if recs, err = def.list(cmd.Context(), s.tracker); err != nil {
					return err
				}
			} else {
				recs = def.repo(s.tracker).All(cmd.Context())
			}

			printTable(cmd.OutOrStdout(), def, recs)
			return nil
		},
	}

	if def.listFlags != nil {
		def.listFlags(cmd)
	}
	return cmd
}

func showRecordCmd[T any](opts *rootOptions, def kindDef[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: fmt.Sprintf("Show a %s as JSON", def.kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			rec, ok := def.repo(s.tracker).Get(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("%s not found: %s", def.kind, args[0])
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}
}

// parseSets turns field=value pairs into a patch for T. Values parse as
// JSON, except that a string field of T only reads null and quoted JSON
// strings that way, so --set city=10001 stays text.
func parseSets[T any](pairs []string) (map[string]interface{}, error) {
	text := stringFields(reflect.TypeOf((*T)(nil)).Elem())
	out := make(map[string]interface{}, len(pairs))
	for _, p := range pairs {
		key, raw, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, expected field=value", p)
		}

		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		if _, isString := v.(string); text[key] && v != nil && !isString {
			v = raw
		}
		out[key] = v
	}
	return out, nil
}

// stringFields lists the JSON names of the string-kinded fields of a
// struct, embedded structs included.
func stringFields(t reflect.Type) map[string]bool {
	out := map[string]bool{}
	if t.Kind() != reflect.Struct {
		return out
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			for k := range stringFields(f.Type) {
				out[k] = true
			}
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.String {
			out[name] = true
		}
	}
	return out
}

// decodeRecord builds a record from JSON-named fields, rejecting unknown
// ones
func decodeRecord[T any](fields map[string]interface{}) (T, error) {
	var rec T
	data, err := json.Marshal(fields)
	if err != nil {
		return rec, fmt.Errorf("encode fields: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return rec, fmt.Errorf("invalid fields: %w", err)
	}
	return rec, nil
}

// describe rewrites validation failures as a readable message
func describe(err error) error {
	if err == nil {
		return nil
	}
	if msg := domain.ValidationMessage(err); msg != err.Error() {
		return fmt.Errorf("invalid record: %s", msg)
	}
	return err
}

func recordID(rec interface{}) string {
	if r, ok := rec.(interface{ Identity() *domain.Meta }); ok {
		return r.Identity().ID
	}
	return ""
}

func printTable[T any](w io.Writer, def kindDef[T], recs []T) {
	if len(recs) == 0 {
		fmt.Fprintf(w, "No %s records yet. Use 'jobtrack %s add' to create one.\n", def.kind, def.kind)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(append([]string{"ID"}, def.columns...), "\t"))
	for i := range recs {
		fmt.Fprintln(tw, strings.Join(append([]string{recordID(&recs[i])}, def.row(recs[i])...), "\t"))
	}
	tw.Flush()
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

var exampleSets = map[domain.Kind][]string{
	domain.KindLead:        {"name='Payments team'", "roleTitle='Staff Engineer'", "companyName=Acme", "status=new"},
	domain.KindApplication: {"companyName=Acme", "roleTitle='Staff Engineer'", "workType=remote", "priority=high", "status=applied"},
	domain.KindInterview:   {"applicationId=app-...", "round=1", "type=screen", "dateTime=2024-06-18T10:00"},
	domain.KindContact:     {"name='Robin Doe'", "relationship=recruiter"},
	domain.KindTask:        {"title='Follow up'", "type=follow-up", "priority=medium", "dueDate=2024-06-20"},
	domain.KindOffer:       {"applicationId=app-...", "base=120000", "deadline=2024-06-30"},
}
