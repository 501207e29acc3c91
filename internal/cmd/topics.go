package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/freshdesk/freshdesk-cli/internal/api"
	"github.com/freshdesk/freshdesk-cli/internal/validation"
)

func newTopicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "topics",
		Aliases: []string{"topic"},
		Short:   "Work with discussion forum topics",
	}

	cmd.AddCommand(newTopicsGetCmd())
	cmd.AddCommand(newTopicsCreateCmd())
	cmd.AddCommand(newTopicsUpdateCmd())
	cmd.AddCommand(newTopicsDeleteCmd())

	return cmd
}

func newTopicsGetCmd() *cobra.Command {
	var showPosts bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a discussion topic by id",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := validation.ParsePositiveInt(args[0], "topic id")
			if err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			topic, err := client.Topics().Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, topic)
			}
			printTopic(cmd, topic, showPosts)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&showPosts, "posts", false, "Include the topic's posts")

	return cmd
}

func printTopic(cmd *cobra.Command, topic *api.Topic, showPosts bool) {
	out := cmdOut(cmd)
	_, _ = fmt.Fprintf(out, "Topic #%d: %s\n", topic.ID, topic.Title)
	_, _ = fmt.Fprintf(out, "  Forum: %d\n", topic.ForumID)
	_, _ = fmt.Fprintf(out, "  Stamp: %s\n", topic.StampType())
	if topic.Sticky.Bool() {
		_, _ = fmt.Fprintln(out, "  Sticky: yes")
	}
	if topic.Locked.Bool() {
		_, _ = fmt.Fprintln(out, "  Locked: yes")
	}
	_, _ = fmt.Fprintf(out, "  Hits: %d\n", topic.Hits)
	_, _ = fmt.Fprintf(out, "  Posts: %d\n", len(topic.Posts))
	_, _ = fmt.Fprintf(out, "  Created: %s\n", formatTime(topic.CreatedAt))
	_, _ = fmt.Fprintf(out, "  Updated: %s\n", formatTime(topic.UpdatedAt))

	if showPosts {
		if len(topic.Posts) == 0 {
			_, _ = fmt.Fprintln(out, "\nNo posts.")
			return
		}
		_, _ = fmt.Fprintln(out)
		for _, post := range topic.Posts {
			_, _ = fmt.Fprintf(out, "  [%s] user %d:\n", formatTime(post.CreatedAt), post.UserID)
			_, _ = fmt.Fprintf(out, "    %s\n", strings.ReplaceAll(post.Body, "\n", "\n    "))
		}
	}
}

func newTopicsCreateCmd() *cobra.Command {
	var (
		forumID int
		title   string
		body    string
		sticky  bool
		locked  bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a discussion topic",
		Example: strings.TrimSpace(`
  fd topics create --forum 7 --title "Release schedule" --body "<p>Any news?</p>"
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if forumID <= 0 {
				return fmt.Errorf("--forum must be a positive integer")
			}
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("--title is required")
			}
			if err := validation.ValidateBody(body); err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			topic, err := client.Topics().Create(cmd.Context(), forumID, title, body, sticky, locked)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, topic)
			}
			_, _ = fmt.Fprintf(cmdOut(cmd), "Created topic #%d: %s\n", topic.ID, topic.Title)
			return nil
		}),
	}

	cmd.Flags().IntVar(&forumID, "forum", 0, "Forum id to post into (required)")
	cmd.Flags().StringVar(&title, "title", "", "Topic title (required)")
	cmd.Flags().StringVar(&body, "body", "", "Topic body HTML")
	cmd.Flags().BoolVar(&sticky, "sticky", false, "Pin the topic")
	cmd.Flags().BoolVar(&locked, "locked", false, "Lock the topic against replies")
	_ = cmd.MarkFlagRequired("forum")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTopicsUpdateCmd() *cobra.Command {
	var (
		title  string
		body   string
		sticky bool
		locked bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a discussion topic",
		Long: strings.TrimSpace(`
Update a topic. Only the flags you set change; the rest of the topic keeps
its current values. Setting --sticky=false or --locked=false is an explicit
change, not an omission.
`),
		Example: strings.TrimSpace(`
  fd topics update 99 --title "Release schedule (updated)"

  # Unlock a topic without touching anything else
  fd topics update 99 --locked=false
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := validation.ParsePositiveInt(args[0], "topic id")
			if err != nil {
				return err
			}

			opts := api.UpdateTopicOpts{
				Title:    stringFlagIfChanged(cmd, "title", &title),
				BodyHTML: stringFlagIfChanged(cmd, "body", &body),
				Sticky:   boolFlagIfChanged(cmd, "sticky", &sticky),
				Locked:   boolFlagIfChanged(cmd, "locked", &locked),
			}
			if opts.Title == nil && opts.BodyHTML == nil && opts.Sticky == nil && opts.Locked == nil {
				return fmt.Errorf("nothing to update: set at least one of --title, --body, --sticky, --locked")
			}
			if opts.BodyHTML != nil {
				if err := validation.ValidateBody(*opts.BodyHTML); err != nil {
					return err
				}
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			raw, err := client.Topics().Update(cmd.Context(), id, opts)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, raw)
			}
			_, _ = fmt.Fprintf(cmdOut(cmd), "Updated topic #%d.\n", id)
			return nil
		}),
	}

	cmd.Flags().StringVar(&title, "title", "", "New topic title")
	cmd.Flags().StringVar(&body, "body", "", "New topic body HTML")
	cmd.Flags().BoolVar(&sticky, "sticky", false, "Pin or unpin the topic")
	cmd.Flags().BoolVar(&locked, "locked", false, "Lock or unlock the topic")

	return cmd
}

func newTopicsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a discussion topic",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := validation.ParsePositiveInt(args[0], "topic id")
			if err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			if err := client.Topics().Delete(cmd.Context(), id); err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"deleted": true, "id": id})
			}
			_, _ = fmt.Fprintf(cmdOut(cmd), "Deleted topic #%d.\n", id)
			return nil
		}),
	}

	return cmd
}
