package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/freshdesk/freshdesk-cli/internal/api"
	"github.com/freshdesk/freshdesk-cli/internal/validation"
)

func newContactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contacts",
		Aliases: []string{"contact", "c"},
		Short:   "Work with helpdesk contacts",
	}

	cmd.AddCommand(newContactsGetCmd())
	cmd.AddCommand(newContactsCreateCmd())
	cmd.AddCommand(newContactsUpdateCmd())
	cmd.AddCommand(newContactsDeleteCmd())

	return cmd
}

func newContactsGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a contact by id",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := validation.ParsePositiveInt(args[0], "contact id")
			if err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			contact, err := client.Contacts().Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, contact)
			}
			printContact(cmd, contact)
			return nil
		}),
	}

	return cmd
}

func printContact(cmd *cobra.Command, contact *api.Contact) {
	out := cmdOut(cmd)
	_, _ = fmt.Fprintf(out, "Contact #%d: %s\n", contact.ID, contact.Name)
	if contact.Email != "" {
		_, _ = fmt.Fprintf(out, "  Email: %s\n", contact.Email)
	}
	if contact.Phone != "" {
		_, _ = fmt.Fprintf(out, "  Phone: %s\n", contact.Phone)
	}
	if contact.Mobile != "" {
		_, _ = fmt.Fprintf(out, "  Mobile: %s\n", contact.Mobile)
	}
	_, _ = fmt.Fprintf(out, "  Active: %t\n", contact.Active.Bool())
	_, _ = fmt.Fprintf(out, "  Created: %s\n", formatTime(contact.CreatedAt))
	_, _ = fmt.Fprintf(out, "  Updated: %s\n", formatTime(contact.UpdatedAt))
	if len(contact.Extra) > 0 {
		_, _ = fmt.Fprintln(out, "  Other fields:")
		for key, raw := range contact.Extra {
			_, _ = fmt.Fprintf(out, "    %s: %s\n", key, compactRaw(raw))
		}
	}
}

// compactRaw renders an unknown JSON field for display without quoting
// plain strings.
func compactRaw(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func newContactsCreateCmd() *cobra.Command {
	var (
		name  string
		email string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a contact",
		Example: strings.TrimSpace(`
  fd contacts create --name "Ada Lovelace" --email ada@example.com
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateName(name); err != nil {
				return err
			}
			if err := validation.ValidateEmail(email); err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			contact, err := client.Contacts().Create(cmd.Context(), name, email)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, contact)
			}
			_, _ = fmt.Fprintf(cmdOut(cmd), "Created contact #%d: %s\n", contact.ID, contact.Name)
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Contact name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Contact email (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newContactsUpdateCmd() *cobra.Command {
	var (
		name  string
		email string
		phone string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a contact's fields",
		Long: strings.TrimSpace(`
Update a contact. Only the flags you set are sent; an explicitly empty
value clears the field on the helpdesk.
`),
		Example: strings.TrimSpace(`
  fd contacts update 42 --email new@example.com

  # Clear the phone number
  fd contacts update 42 --phone ""
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := validation.ParsePositiveInt(args[0], "contact id")
			if err != nil {
				return err
			}

			opts := api.UpdateContactOpts{
				Name:  stringFlagIfChanged(cmd, "name", &name),
				Email: stringFlagIfChanged(cmd, "email", &email),
				Phone: stringFlagIfChanged(cmd, "phone", &phone),
			}
			if opts.Name == nil && opts.Email == nil && opts.Phone == nil {
				return fmt.Errorf("nothing to update: set at least one of --name, --email, --phone")
			}
			if opts.Name != nil {
				if err := validation.ValidateName(*opts.Name); err != nil {
					return err
				}
			}
			if opts.Email != nil {
				if err := validation.ValidateEmail(*opts.Email); err != nil {
					return err
				}
			}
			if opts.Phone != nil && *opts.Phone != "" {
				if err := validation.ValidatePhoneFormat(*opts.Phone); err != nil {
					return err
				}
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			raw, err := client.Contacts().Update(cmd.Context(), id, opts)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, json.RawMessage(raw))
			}
			_, _ = fmt.Fprintf(cmdOut(cmd), "Updated contact #%d.\n", id)
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "New contact name")
	cmd.Flags().StringVar(&email, "email", "", "New contact email")
	cmd.Flags().StringVar(&phone, "phone", "", "New contact phone")

	return cmd
}

func newContactsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a contact",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := validation.ParsePositiveInt(args[0], "contact id")
			if err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			if err := client.Contacts().Delete(cmd.Context(), id); err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"deleted": true, "id": id})
			}
			_, _ = fmt.Fprintf(cmdOut(cmd), "Deleted contact #%d.\n", id)
			return nil
		}),
	}

	return cmd
}
