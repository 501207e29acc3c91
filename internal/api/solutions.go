package api

import (
	"context"
	"fmt"
	"net/http"
)

// GetCategory retrieves a solution category by id, folders included.
func (s SolutionsService) GetCategory(ctx context.Context, categoryID int) (*SolutionCategory, error) {
	var result struct {
		Category SolutionCategory `json:"category"`
	}
	path := fmt.Sprintf("solution/categories/%d.json", categoryID)
	if err := s.do(ctx, http.MethodGet, s.resourcePath(path), nil, &result); err != nil {
		return nil, err
	}
	if err := result.Category.checkPresent(); err != nil {
		return nil, fmt.Errorf("solution category %d: %w", categoryID, err)
	}
	return &result.Category, nil
}

// ListCategories retrieves all solution categories.
func (s SolutionsService) ListCategories(ctx context.Context) ([]SolutionCategory, error) {
	var result []struct {
		Category SolutionCategory `json:"category"`
	}
	if err := s.do(ctx, http.MethodGet, s.resourcePath("solution/categories.json"), nil, &result); err != nil {
		return nil, err
	}
	categories := make([]SolutionCategory, 0, len(result))
	for _, entry := range result {
		categories = append(categories, entry.Category)
	}
	return categories, nil
}

// CreateCategory creates a solution category.
func (s SolutionsService) CreateCategory(ctx context.Context, name, description string) (*SolutionCategory, error) {
	body := wrapPayload("solution_category", map[string]any{
		"name":        name,
		"description": description,
	})

	var result struct {
		Category SolutionCategory `json:"category"`
	}
	if err := s.do(ctx, http.MethodPost, s.resourcePath("solution/categories.json"), body, &result); err != nil {
		return nil, err
	}
	if err := result.Category.checkPresent(); err != nil {
		return nil, fmt.Errorf("created solution category: %w", err)
	}
	return &result.Category, nil
}

// GetFolder retrieves a solution folder by id, articles included.
func (s SolutionsService) GetFolder(ctx context.Context, categoryID, folderID int) (*SolutionFolder, error) {
	var result struct {
		Folder SolutionFolder `json:"folder"`
	}
	path := fmt.Sprintf("solution/categories/%d/folders/%d.json", categoryID, folderID)
	if err := s.do(ctx, http.MethodGet, s.resourcePath(path), nil, &result); err != nil {
		return nil, err
	}
	if err := result.Folder.checkPresent(); err != nil {
		return nil, fmt.Errorf("solution folder %d: %w", folderID, err)
	}
	return &result.Folder, nil
}

// CreateFolderOpts carries the optional parts of folder creation.
type CreateFolderOpts struct {
	// CustomerIDs limits visibility to specific companies when the
	// visibility code is company-specific.
	CustomerIDs []int
}

// CreateFolder creates a folder inside a category. Visibility codes follow
// the folderVisibilityLabels table (1=all .. 4=company specific users).
func (s SolutionsService) CreateFolder(ctx context.Context, categoryID int, name string, visibility int, description string, opts CreateFolderOpts) (*SolutionFolder, error) {
	fields := map[string]any{
		"category_id": categoryID,
		"name":        name,
		"visibility":  visibility,
		"description": description,
	}
	if len(opts.CustomerIDs) > 0 {
		fields["customer_folder_attributes"] = opts.CustomerIDs
	}

	var result struct {
		Folder SolutionFolder `json:"folder"`
	}
	path := fmt.Sprintf("solution/categories/%d/folders.json", categoryID)
	if err := s.do(ctx, http.MethodPost, s.resourcePath(path), wrapPayload("solution_folder", fields), &result); err != nil {
		return nil, err
	}
	if err := result.Folder.checkPresent(); err != nil {
		return nil, fmt.Errorf("created solution folder: %w", err)
	}
	return &result.Folder, nil
}

// GetArticle retrieves a solution article by its nested ids.
func (s SolutionsService) GetArticle(ctx context.Context, categoryID, folderID, articleID int) (*SolutionArticle, error) {
	var result struct {
		Article SolutionArticle `json:"article"`
	}
	path := fmt.Sprintf("solution/categories/%d/folders/%d/articles/%d.json", categoryID, folderID, articleID)
	if err := s.do(ctx, http.MethodGet, s.resourcePath(path), nil, &result); err != nil {
		return nil, err
	}
	if err := result.Article.checkPresent(); err != nil {
		return nil, fmt.Errorf("solution article %d: %w", articleID, err)
	}
	return &result.Article, nil
}

// CreateArticle creates an article in the given category and folder. Status
// and article type codes follow the articleStatusLabels/articleTypeLabels
// tables.
func (s SolutionsService) CreateArticle(ctx context.Context, categoryID, folderID int, title string, status, articleType int, description string) (*SolutionArticle, error) {
	body := wrapPayload("solution_article", map[string]any{
		"folder_id":   folderID,
		"title":       title,
		"status":      status,
		"art_type":    articleType,
		"description": description,
	})

	var result struct {
		Article SolutionArticle `json:"article"`
	}
	path := fmt.Sprintf("solution/categories/%d/folders/%d/articles.json", categoryID, folderID)
	if err := s.do(ctx, http.MethodPost, s.resourcePath(path), body, &result); err != nil {
		return nil, err
	}
	if err := result.Article.checkPresent(); err != nil {
		return nil, fmt.Errorf("created solution article: %w", err)
	}
	return &result.Article, nil
}

// DeleteArticle removes a solution article.
func (s SolutionsService) DeleteArticle(ctx context.Context, categoryID, folderID, articleID int) error {
	path := fmt.Sprintf("solution/categories/%d/folders/%d/articles/%d.json", categoryID, folderID, articleID)
	return s.do(ctx, http.MethodDelete, s.resourcePath(path), nil, nil)
}
