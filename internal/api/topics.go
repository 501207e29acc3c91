package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Get retrieves a discussion topic by id, posts included.
func (s TopicsService) Get(ctx context.Context, id int) (*Topic, error) {
	return getTopic(ctx, s, id)
}

func getTopic(ctx context.Context, r Requester, id int) (*Topic, error) {
	var result struct {
		Topic Topic `json:"topic"`
	}
	path := fmt.Sprintf("discussions/topics/%d.json", id)
	if err := r.do(ctx, http.MethodGet, r.resourcePath(path), nil, &result); err != nil {
		return nil, err
	}
	if err := result.Topic.checkPresent(); err != nil {
		return nil, fmt.Errorf("topic %d: %w", id, err)
	}
	return &result.Topic, nil
}

// Create creates a topic in the given forum.
func (s TopicsService) Create(ctx context.Context, forumID int, title, bodyHTML string, sticky, locked bool) (*Topic, error) {
	body := wrapPayload("topic", map[string]any{
		"forum_id":  forumID,
		"title":     title,
		"body_html": bodyHTML,
		"sticky":    sticky,
		"locked":    locked,
	})

	var result struct {
		Topic Topic `json:"topic"`
	}
	if err := s.do(ctx, http.MethodPost, s.resourcePath("discussions/topics.json"), body, &result); err != nil {
		return nil, err
	}
	if err := result.Topic.checkPresent(); err != nil {
		return nil, fmt.Errorf("created topic: %w", err)
	}
	return &result.Topic, nil
}

// UpdateTopicOpts defines the fields an update may change. Nil pointers mean
// "keep the current value"; a set pointer is sent as given, so false and the
// empty string are valid new values.
type UpdateTopicOpts struct {
	Title    *string
	BodyHTML *string
	Sticky   *bool
	Locked   *bool
}

// Update merges opts over the topic's current values and replaces it,
// returning the raw server response.
func (s TopicsService) Update(ctx context.Context, id int, opts UpdateTopicOpts) (json.RawMessage, error) {
	current, err := getTopic(ctx, s, id)
	if err != nil {
		return nil, err
	}

	title := current.Title
	if opts.Title != nil {
		title = *opts.Title
	}
	bodyHTML := ""
	if len(current.Posts) > 0 {
		bodyHTML = current.Posts[0].BodyHTML
	}
	if opts.BodyHTML != nil {
		bodyHTML = *opts.BodyHTML
	}
	sticky := current.Sticky.Bool()
	if opts.Sticky != nil {
		sticky = *opts.Sticky
	}
	locked := current.Locked.Bool()
	if opts.Locked != nil {
		locked = *opts.Locked
	}

	body := wrapPayload("topic", map[string]any{
		"title":     title,
		"body_html": bodyHTML,
		"sticky":    sticky,
		"locked":    locked,
	})

	path := fmt.Sprintf("discussions/topics/%d.json", id)
	raw, err := s.doRaw(ctx, http.MethodPut, s.resourcePath(path), body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(emptyObjectOnParseFailure(raw)), nil
}

// Delete removes a topic.
func (s TopicsService) Delete(ctx context.Context, id int) error {
	path := fmt.Sprintf("discussions/topics/%d.json", id)
	return s.do(ctx, http.MethodDelete, s.resourcePath(path), nil, nil)
}
