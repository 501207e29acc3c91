package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/freshdesk/freshdesk-cli/internal/api"
	"github.com/freshdesk/freshdesk-cli/internal/cache"
	"github.com/freshdesk/freshdesk-cli/internal/outfmt"
	"github.com/freshdesk/freshdesk-cli/internal/resolve"
	"github.com/freshdesk/freshdesk-cli/internal/validation"
)

func newSolutionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "solutions",
		Aliases: []string{"solution", "kb"},
		Short:   "Work with the solutions knowledge base",
	}

	cmd.AddCommand(newSolutionCategoriesCmd())
	cmd.AddCommand(newSolutionFoldersCmd())
	cmd.AddCommand(newSolutionArticlesCmd())

	return cmd
}

func newSolutionCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage solution categories",
	}

	cmd.AddCommand(newSolutionCategoriesListCmd())
	cmd.AddCommand(newSolutionCategoriesGetCmd())
	cmd.AddCommand(newSolutionCategoriesCreateCmd())

	return cmd
}

func newSolutionCategoriesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List solution categories",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			categories, err := listCategoriesCached(cmd.Context(), client)
			if err != nil {
				return err
			}

			f := outfmt.NewFormatter(cmd.Context(), cmdOut(cmd), cmdErrOut(cmd))
			if isJSON(cmd) {
				return f.Output(categories)
			}

			if len(categories) == 0 {
				f.Empty("No solution categories found.")
				return nil
			}

			f.StartTable([]string{"ID", "NAME", "FOLDERS", "DESCRIPTION"})
			for i := range categories {
				c := &categories[i]
				f.Row(
					strconv.Itoa(c.ID),
					c.Name,
					strconv.Itoa(len(c.Folders)),
					truncate(c.Description, 50),
				)
			}
			return f.EndTable()
		}),
	}

	return cmd
}

func newSolutionCategoriesGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id-or-name>",
		Short: "Fetch a solution category by id or name",
		Long:  "Fetch a category by numeric id, or by name with fuzzy matching against the category listing.",
		Example: strings.TrimSpace(`
  fd solutions categories get 3
  fd solutions categories get "billing"
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			categoryID, err := resolveCategoryID(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}

			category, err := client.Solutions().GetCategory(cmd.Context(), categoryID)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, category)
			}
			printCategory(cmd, category)
			return nil
		}),
	}

	return cmd
}

func printCategory(cmd *cobra.Command, category *api.SolutionCategory) {
	out := cmdOut(cmd)
	_, _ = fmt.Fprintf(out, "Category #%d: %s\n", category.ID, category.Name)
	if category.Description != "" {
		_, _ = fmt.Fprintf(out, "  Description: %s\n", category.Description)
	}
	_, _ = fmt.Fprintf(out, "  Created: %s\n", formatTime(category.CreatedAt))
	_, _ = fmt.Fprintf(out, "  Updated: %s\n", formatTime(category.UpdatedAt))
	if len(category.Folders) > 0 {
		_, _ = fmt.Fprintf(out, "  Folders (%d):\n", len(category.Folders))
		w := newTabWriterFromCmd(cmd)
		for i := range category.Folders {
			folder := &category.Folders[i]
			_, _ = fmt.Fprintf(w, "    %d\t%s\t%s\t%d articles\n", folder.ID, folder.Name, folder.Visibility(), len(folder.Articles))
		}
		_ = w.Flush()
	}
}

func newSolutionCategoriesCreateCmd() *cobra.Command {
	var (
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a solution category",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateName(name); err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			category, err := client.Solutions().CreateCategory(cmd.Context(), name, description)
			if err != nil {
				return err
			}
			// The listing cache is stale now.
			categoryCache(client).Clear()

			if isJSON(cmd) {
				return printJSON(cmd, category)
			}
			_, _ = fmt.Fprintf(cmdOut(cmd), "Created category #%d: %s\n", category.ID, category.Name)
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Category name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Category description")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// categoryCache returns the name-resolution cache for category listings.
func categoryCache(client *api.Client) *cache.Store {
	dir, err := cache.DefaultDir()
	if err != nil {
		dir = ""
	}
	return cache.NewStore(dir, "solution_categories", client.BaseURL)
}

// listCategoriesCached lists categories through the local cache so repeated
// name lookups don't hammer the API.
func listCategoriesCached(ctx context.Context, client *api.Client) ([]api.SolutionCategory, error) {
	store := categoryCache(client)

	var categories []api.SolutionCategory
	if store.Get(&categories) {
		return categories, nil
	}

	categories, err := client.Solutions().ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	store.Put(categories)
	return categories, nil
}

// resolveCategoryID turns a numeric id or a category name into a category
// id, fuzzy-matching names against the cached listing.
func resolveCategoryID(ctx context.Context, client *api.Client, arg string) (int, error) {
	if id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(arg), "#")); err == nil {
		if id <= 0 {
			return 0, fmt.Errorf("category id must be a positive integer")
		}
		return id, nil
	}

	categories, err := listCategoriesCached(ctx, client)
	if err != nil {
		return 0, fmt.Errorf("listing categories to resolve %q: %w", arg, err)
	}

	items := make([]resolve.Named, len(categories))
	for i, c := range categories {
		items[i] = resolve.Named{ID: c.ID, Name: c.Name}
	}

	id, err := resolve.FuzzyMatch(arg, items)
	if err != nil {
		return 0, fmt.Errorf("category %q: %w", arg, err)
	}
	return id, nil
}

func newSolutionFoldersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folders",
		Aliases: []string{"folder"},
		Short:   "Manage solution folders",
	}

	cmd.AddCommand(newSolutionFoldersGetCmd())
	cmd.AddCommand(newSolutionFoldersCreateCmd())

	return cmd
}

// folderVisibilityCodes maps flag values to the remote's visibility codes.
var folderVisibilityCodes = map[string]int{
	"all":       1,
	"logged-in": 2,
	"agents":    3,
	"company":   4,
}

func parseVisibility(value string) (int, error) {
	if code, err := strconv.Atoi(value); err == nil {
		if code < 1 || code > 4 {
			return 0, fmt.Errorf("invalid --visibility %d: must be 1-4", code)
		}
		return code, nil
	}
	normalized, err := normalizeEnum("visibility", value, []string{"all", "logged-in", "agents", "company"})
	if err != nil {
		return 0, err
	}
	return folderVisibilityCodes[normalized], nil
}

func newSolutionFoldersGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <category> <folder-id>",
		Short: "Fetch a solution folder with its articles",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			categoryID, err := resolveCategoryID(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			folderID, err := validation.ParsePositiveInt(args[1], "folder id")
			if err != nil {
				return err
			}

			folder, err := client.Solutions().GetFolder(cmd.Context(), categoryID, folderID)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, folder)
			}

			out := cmdOut(cmd)
			_, _ = fmt.Fprintf(out, "Folder #%d: %s\n", folder.ID, folder.Name)
			_, _ = fmt.Fprintf(out, "  Visibility: %s\n", folder.Visibility())
			if folder.Description != "" {
				_, _ = fmt.Fprintf(out, "  Description: %s\n", folder.Description)
			}
			_, _ = fmt.Fprintf(out, "  Created: %s\n", formatTime(folder.CreatedAt))
			_, _ = fmt.Fprintf(out, "  Updated: %s\n", formatTime(folder.UpdatedAt))
			if len(folder.Articles) > 0 {
				_, _ = fmt.Fprintf(out, "  Articles (%d):\n", len(folder.Articles))
				w := newTabWriterFromCmd(cmd)
				for i := range folder.Articles {
					article := &folder.Articles[i]
					_, _ = fmt.Fprintf(w, "    %d\t%s\t%s\n", article.ID, truncate(article.Title, 60), article.Status())
				}
				_ = w.Flush()
			}
			return nil
		}),
	}

	return cmd
}

func newSolutionFoldersCreateCmd() *cobra.Command {
	var (
		category    string
		name        string
		visibility  string
		description string
		companyIDs  []int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a solution folder",
		Example: strings.TrimSpace(`
  fd solutions folders create --category billing --name "Invoices" --visibility all

  # Restrict to specific companies
  fd solutions folders create --category 3 --name "VIP" --visibility company --company-id 12 --company-id 34
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateName(name); err != nil {
				return err
			}
			visibilityCode, err := parseVisibility(visibility)
			if err != nil {
				return err
			}
			if len(companyIDs) > 0 && visibilityCode != folderVisibilityCodes["company"] {
				return fmt.Errorf("--company-id requires --visibility company")
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			categoryID, err := resolveCategoryID(cmd.Context(), client, category)
			if err != nil {
				return err
			}

			folder, err := client.Solutions().CreateFolder(cmd.Context(), categoryID, name, visibilityCode, description, api.CreateFolderOpts{
				CustomerIDs: companyIDs,
			})
			if err != nil {
				return err
			}
			categoryCache(client).Clear()

			if isJSON(cmd) {
				return printJSON(cmd, folder)
			}
			_, _ = fmt.Fprintf(cmdOut(cmd), "Created folder #%d: %s\n", folder.ID, folder.Name)
			return nil
		}),
	}

	cmd.Flags().StringVar(&category, "category", "", "Category id or name (required)")
	cmd.Flags().StringVar(&name, "name", "", "Folder name (required)")
	cmd.Flags().StringVar(&visibility, "visibility", "all", "Who can see the folder: all|logged-in|agents|company (or code 1-4)")
	cmd.Flags().StringVar(&description, "description", "", "Folder description")
	cmd.Flags().IntSliceVar(&companyIDs, "company-id", nil, "Company id for company-specific visibility (repeatable)")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newSolutionArticlesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "articles",
		Aliases: []string{"article"},
		Short:   "Manage solution articles",
	}

	cmd.AddCommand(newSolutionArticlesGetCmd())
	cmd.AddCommand(newSolutionArticlesCreateCmd())
	cmd.AddCommand(newSolutionArticlesDeleteCmd())

	return cmd
}

func articleCoordinates(ctx context.Context, client *api.Client, args []string) (categoryID, folderID, articleID int, err error) {
	categoryID, err = resolveCategoryID(ctx, client, args[0])
	if err != nil {
		return 0, 0, 0, err
	}
	folderID, err = validation.ParsePositiveInt(args[1], "folder id")
	if err != nil {
		return 0, 0, 0, err
	}
	articleID, err = validation.ParsePositiveInt(args[2], "article id")
	if err != nil {
		return 0, 0, 0, err
	}
	return categoryID, folderID, articleID, nil
}

func newSolutionArticlesGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <category> <folder-id> <article-id>",
		Short: "Fetch a solution article",
		Args:  cobra.ExactArgs(3),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			categoryID, folderID, articleID, err := articleCoordinates(cmd.Context(), client, args)
			if err != nil {
				return err
			}

			article, err := client.Solutions().GetArticle(cmd.Context(), categoryID, folderID, articleID)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, article)
			}

			out := cmdOut(cmd)
			_, _ = fmt.Fprintf(out, "Article #%d: %s\n", article.ID, article.Title)
			_, _ = fmt.Fprintf(out, "  Status: %s\n", article.Status())
			_, _ = fmt.Fprintf(out, "  Type: %s\n", article.ArticleType())
			_, _ = fmt.Fprintf(out, "  Created: %s\n", formatTime(article.CreatedAt))
			_, _ = fmt.Fprintf(out, "  Updated: %s\n", formatTime(article.UpdatedAt))
			if article.Description != "" {
				_, _ = fmt.Fprintf(out, "\n%s\n", article.Description)
			}
			return nil
		}),
	}

	return cmd
}

func newSolutionArticlesCreateCmd() *cobra.Command {
	var (
		category    string
		folderID    int
		title       string
		status      string
		articleType string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a solution article",
		Example: strings.TrimSpace(`
  fd solutions articles create --category billing --folder 12 \
      --title "How to read your invoice" --status published --description "<p>...</p>"
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("--title is required")
			}
			if folderID <= 0 {
				return fmt.Errorf("--folder must be a positive integer")
			}
			statusValue, err := normalizeEnum("status", status, []string{"draft", "published"})
			if err != nil {
				return err
			}
			statusCode := map[string]int{"draft": 1, "published": 2}[statusValue]
			typeValue, err := normalizeEnum("type", articleType, []string{"permanent", "workaround"})
			if err != nil {
				return err
			}
			typeCode := map[string]int{"permanent": 1, "workaround": 2}[typeValue]
			if err := validation.ValidateBody(description); err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			categoryID, err := resolveCategoryID(cmd.Context(), client, category)
			if err != nil {
				return err
			}

			article, err := client.Solutions().CreateArticle(cmd.Context(), categoryID, folderID, title, statusCode, typeCode, description)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, article)
			}
			_, _ = fmt.Fprintf(cmdOut(cmd), "Created article #%d: %s\n", article.ID, article.Title)
			return nil
		}),
	}

	cmd.Flags().StringVar(&category, "category", "", "Category id or name (required)")
	cmd.Flags().IntVar(&folderID, "folder", 0, "Folder id (required)")
	cmd.Flags().StringVar(&title, "title", "", "Article title (required)")
	cmd.Flags().StringVar(&status, "status", "draft", "Article status: draft|published")
	cmd.Flags().StringVar(&articleType, "type", "permanent", "Article type: permanent|workaround")
	cmd.Flags().StringVar(&description, "description", "", "Article body HTML")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("folder")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newSolutionArticlesDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <category> <folder-id> <article-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a solution article",
		Args:    cobra.ExactArgs(3),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			categoryID, folderID, articleID, err := articleCoordinates(cmd.Context(), client, args)
			if err != nil {
				return err
			}

			if err := client.Solutions().DeleteArticle(cmd.Context(), categoryID, folderID, articleID); err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"deleted": true, "id": articleID})
			}
			_, _ = fmt.Fprintf(cmdOut(cmd), "Deleted article #%d.\n", articleID)
			return nil
		}),
	}

	return cmd
}
