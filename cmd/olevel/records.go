package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/olevel/config"
	"github.com/jpalmerr/olevel/internal/records"
	"github.com/jpalmerr/olevel/internal/slot"
	"github.com/jpalmerr/olevel/internal/view"
)

// terminalPrompter asks y/N questions on the command's streams. With yes
// set every confirmation is accepted without reading input.
type terminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
	yes bool
}

func newTerminalPrompter(cmd *cobra.Command) *terminalPrompter {
	yes, _ := cmd.Flags().GetBool("yes")
	return &terminalPrompter{
		in:  bufio.NewReader(cmd.InOrStdin()),
		out: cmd.OutOrStdout(),
		yes: yes,
	}
}

func (p *terminalPrompter) Confirm(message string) bool {
	if p.yes {
		return true
	}
	fmt.Fprintf(p.out, "%s [y/N]: ", message)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (p *terminalPrompter) Notify(message string) {
	fmt.Fprintln(p.out, message)
}

// openStore opens the configured slot and loads the collection. The
// returned func closes the slot.
func openStore(cmd *cobra.Command) (*records.Store, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := slot.Open(ctx, config.BuildSlotConfig(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	logger := newLogger(slog.LevelWarn)
	st := records.NewStore(s, records.WithLogger(logger))
	st.Load(ctx)

	closeFn := func() {
		if err := slot.Close(s); err != nil {
			logger.Warn("failed to close storage", "error", err)
		}
	}
	return st, closeFn, nil
}

// withStore runs fn against a freshly loaded store.
func withStore(fn func(cmd *cobra.Command, args []string, st *records.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		st, closeFn, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeFn()
		return cliError(fn(cmd, args, st))
	}
}

// cliError replaces validation errors with their user-facing message.
func cliError(err error) error {
	var ve *records.ValidationError
	if errors.As(err, &ve) {
		return errors.New(ve.Message)
	}
	return err
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the student table",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, _ []string, st *records.Store) error {
			writeTable(cmd.OutOrStdout(), view.Build(st.Students()))
			return nil
		}),
	}
}

// writeTable prints the table in the dashboard's column order.
func writeTable(out io.Writer, t view.Table) {
	if t.Empty {
		fmt.Fprintln(out, t.Note)
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tAGE\tGENDER\tFORM\tAVERAGE\tPROMOTION")
	for _, r := range t.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\tFORM %d\t%s\t%s\n",
			r.Index+1, r.ID, r.Name, r.Age, r.Gender, r.Form, r.Average, r.PromoteLabel)
	}
	_ = tw.Flush()
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one student's details and academic records",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, args []string, st *records.Store) error {
			report, err := st.Details(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		}),
	}
}

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new student",
		Long: `Register a new student with an empty performance history.

Example:
  olevel register --name "Asha Mushi" --id A1 --age 15 --gender Female --form 1`,
		Args: cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, _ []string, st *records.Store) error {
			f := cmd.Flags()
			var reg records.Registration
			reg.Name, _ = f.GetString("name")
			reg.ID, _ = f.GetString("id")
			reg.Age, _ = f.GetString("age")
			reg.Gender, _ = f.GetString("gender")
			reg.Form, _ = f.GetString("form")

			// the redirect notice belongs to the dashboard
			_, err := st.Register(cmd.Context(), reg, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Student %q registered.\n", strings.TrimSpace(reg.ID))
			return nil
		}),
	}
	f := cmd.Flags()
	f.String("name", "", "full name")
	f.String("id", "", "unique student ID")
	f.String("age", "", "age in years (10-30)")
	f.String("gender", "Male", "gender")
	f.String("form", "1", "current form (1-4)")
	return cmd
}

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores <id>",
		Short: "Record a score sheet for a student's current form",
		Long: `Record one score (0-100) per subject for the student's current form.

Subjects left unset keep the value from the student's latest record, or 50
when there is none.

Example:
  olevel scores A1 --mathematics 78 --physics 64`,
		Args: cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, args []string, st *records.Store) error {
			entry, err := st.OpenEntry(args[0])
			if err != nil {
				return err
			}
			inputs := make(map[records.Subject]string, len(records.AllSubjects))
			for subj, v := range entry.Prefill() {
				inputs[subj] = strconv.Itoa(v)
			}
			for _, subj := range records.AllSubjects {
				if cmd.Flags().Changed(string(subj)) {
					inputs[subj], _ = cmd.Flags().GetString(string(subj))
				}
			}

			// a rejected sheet is reported once, as the command error
			notices := &records.Scripted{}
			if _, err := entry.Save(cmd.Context(), inputs, notices); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), notices.LastNotice())
			return nil
		}),
	}
	for _, subj := range records.AllSubjects {
		cmd.Flags().String(string(subj), "", subj.Title()+" score (0-100)")
	}
	return cmd
}

func newPromoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promote <id>",
		Short: "Move a student up one form",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, args []string, st *records.Store) error {
			_, err := st.Promote(cmd.Context(), args[0], newTerminalPrompter(cmd))
			return err
		}),
	}
	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a student",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, args []string, st *records.Store) error {
			_, err := st.Delete(cmd.Context(), args[0], newTerminalPrompter(cmd))
			return err
		}),
	}
	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every student",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, _ []string, st *records.Store) error {
			_, err := st.Clear(cmd.Context(), newTerminalPrompter(cmd))
			return err
		}),
	}
	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return cmd
}
