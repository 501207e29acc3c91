package api

import (
	"context"
	"fmt"
	"net/http"
)

// Get retrieves a contact by id.
func (s ContactsService) Get(ctx context.Context, id int) (*Contact, error) {
	return getContact(ctx, s, id)
}

func getContact(ctx context.Context, r Requester, id int) (*Contact, error) {
	var result struct {
		User Contact `json:"user"`
	}
	path := fmt.Sprintf("contacts/%d.json", id)
	if err := r.do(ctx, http.MethodGet, r.resourcePath(path), nil, &result); err != nil {
		return nil, err
	}
	if err := result.User.checkPresent(); err != nil {
		return nil, fmt.Errorf("contact %d: %w", id, err)
	}
	return &result.User, nil
}

// Create creates a contact with the given name and email. The request body
// carries exactly those fields under the user key.
func (s ContactsService) Create(ctx context.Context, name, email string) (*Contact, error) {
	return createContact(ctx, s, name, email)
}

func createContact(ctx context.Context, r Requester, name, email string) (*Contact, error) {
	body := wrapPayload("user", map[string]any{
		"name":  name,
		"email": email,
	})

	var result struct {
		User Contact `json:"user"`
	}
	if err := r.do(ctx, http.MethodPost, r.resourcePath("contacts.json"), body, &result); err != nil {
		return nil, err
	}
	if err := result.User.checkPresent(); err != nil {
		return nil, fmt.Errorf("created contact: %w", err)
	}
	return &result.User, nil
}

// UpdateContactOpts defines the fields an update may change. Nil pointers
// mean "leave unchanged"; empty strings are sent as given.
type UpdateContactOpts struct {
	Name  *string
	Email *string
	Phone *string
}

// Update changes a contact's fields and returns the raw server response.
func (s ContactsService) Update(ctx context.Context, id int, opts UpdateContactOpts) ([]byte, error) {
	return updateContact(ctx, s, id, opts)
}

func updateContact(ctx context.Context, r Requester, id int, opts UpdateContactOpts) ([]byte, error) {
	fields := map[string]any{}
	if opts.Name != nil {
		fields["name"] = *opts.Name
	}
	if opts.Email != nil {
		fields["email"] = *opts.Email
	}
	if opts.Phone != nil {
		fields["phone"] = *opts.Phone
	}

	path := fmt.Sprintf("contacts/%d.json", id)
	return r.doRaw(ctx, http.MethodPut, r.resourcePath(path), wrapPayload("user", fields))
}

// Delete removes a contact.
func (s ContactsService) Delete(ctx context.Context, id int) error {
	path := fmt.Sprintf("contacts/%d.json", id)
	return s.do(ctx, http.MethodDelete, s.resourcePath(path), nil, nil)
}
