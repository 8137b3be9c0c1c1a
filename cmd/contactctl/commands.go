package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/contactbook/backend/internal/logging"
	"github.com/contactbook/backend/internal/model"
	"github.com/contactbook/backend/internal/validation"
	"github.com/contactbook/backend/pkg/contactapi"
	"github.com/contactbook/backend/pkg/reconciler"
)

// setup loads config and returns a reconciler wired to the server.
func setup(cmd *cobra.Command, opts *rootOptions) (*reconciler.Reconciler, error) {
	slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel))

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.baseURL != "" {
		cfg.BaseURL = opts.baseURL
	}

	api := contactapi.NewClient(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout})

	var confirm reconciler.Confirmer = stdinConfirmer{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
	if opts.yes || !cfg.ConfirmDeletes {
		confirm = reconciler.ConfirmFunc(func(context.Context, *model.Contact) bool { return true })
	}
	alert := reconciler.AlertFunc(func(msg string) {
		fmt.Fprintln(cmd.ErrOrStderr(), msg)
	})
	return reconciler.New(api, confirm, alert), nil
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			if err := rec.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("list contacts: %s", rec.Snapshot().Err)
			}

			contacts := rec.Filter(search)
			if len(contacts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No contacts found")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			printContactLine(tw, "ID", "NAME", "EMAIL", "PHONE")
			for _, c := range contacts {
				printContactLine(tw, c.ID, c.Name, c.Email, c.Phone)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only show contacts whose name or email contains this text")
	return cmd
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var name, email, phone, message string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.ContactInput{
				Name:    model.Field(name),
				Email:   model.Field(email),
				Phone:   model.Field(phone),
				Message: model.Field(message),
			}

			// Catch obviously bad input before going to the network. The
			// server may still apply a stricter policy.
			if _, fieldErrs := validation.New(validation.Policy{}).Validate(in); len(fieldErrs) > 0 {
				printFieldErrors(cmd.ErrOrStderr(), fieldErrs)
				return errors.New(validation.MsgValidationFailed)
			}

			rec, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			c, err := rec.Create(cmd.Context(), in)
			if err != nil {
				var vErr *contactapi.ValidationError
				if errors.As(err, &vErr) {
					printFieldErrors(cmd.ErrOrStderr(), vErr.Errors)
					return errors.New(vErr.Message)
				}
				return fmt.Errorf("add contact: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", c.Name, c.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "contact name")
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&message, "message", "", "optional message")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			if err := rec.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("list contacts: %s", rec.Snapshot().Err)
			}

			id := args[0]
			switch err := rec.Delete(cmd.Context(), id); {
			case errors.Is(err, reconciler.ErrDeleteDeclined):
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			case errors.Is(err, reconciler.ErrNotListed):
				return fmt.Errorf("no contact with id %s", id)
			case err != nil:
				return fmt.Errorf("delete contact: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}
}

// stdinConfirmer prompts on out and reads a y/N answer from in.
type stdinConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (c stdinConfirmer) ConfirmDelete(_ context.Context, contact *model.Contact) bool {
	fmt.Fprintf(c.out, "Delete %s <%s>? [y/N]: ", contact.Name, contact.Email)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func printFieldErrors(w io.Writer, errs map[string]string) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "  %s: %s\n", f, errs[f])
	}
}
