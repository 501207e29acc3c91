package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Ticket status codes
const (
	TicketStatusOpen     = 2
	TicketStatusPending  = 3
	TicketStatusResolved = 4
	TicketStatusClosed   = 5
)

// Ticket priority codes
const (
	TicketPriorityLow    = 1
	TicketPriorityMedium = 2
	TicketPriorityHigh   = 3
	TicketPriorityUrgent = 4
)

var (
	ticketStatusLabels = map[int]string{
		2: "open",
		3: "pending",
		4: "resolved",
		5: "closed",
	}
	ticketPriorityLabels = map[int]string{
		1: "low",
		2: "medium",
		3: "high",
		4: "urgent",
	}
	ticketSourceLabels = map[int]string{
		1: "email",
		2: "portal",
		3: "phone",
		4: "forum",
		5: "twitter",
		6: "facebook",
		7: "chat",
	}
	topicStampLabels = map[int]string{
		1: "planned",
		2: "implemented",
		3: "not taken",
		4: "in progress",
		5: "deferred",
		6: "answered",
		7: "unanswered",
		8: "solved",
		9: "unsolved",
	}
	folderVisibilityLabels = map[int]string{
		1: "all",
		2: "logged in users",
		3: "agents only",
		4: "company specific users",
	}
	articleStatusLabels = map[int]string{
		1: "draft",
		2: "published",
	}
	articleTypeLabels = map[int]string{
		1: "permanent",
		2: "workaround",
	}
)

// labelFor resolves a numeric code against a label table. Codes the table
// does not know yield a generated "<prefix>_<code>" label rather than a
// lookup failure.
func labelFor(table map[int]string, prefix string, code int) string {
	if label, ok := table[code]; ok {
		return label
	}
	return fmt.Sprintf("%s_%d", prefix, code)
}

// Timestamp is a model timestamp parsed from the handful of formats the
// remote emits. Unmarshaling fails on empty, null, or unparseable values:
// every model requires created_at/updated_at to be present and valid.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string, got %s", data)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("timestamp is empty")
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// Timestamps carries the created_at/updated_at pair every model must have.
type Timestamps struct {
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// checkPresent fails hydration when either timestamp was missing from the
// response. Unparseable values already fail inside Timestamp.UnmarshalJSON;
// absent keys never reach it.
func (t Timestamps) checkPresent() error {
	if t.CreatedAt.IsZero() {
		return fmt.Errorf("model is missing required created_at field")
	}
	if t.UpdatedAt.IsZero() {
		return fmt.Errorf("model is missing required updated_at field")
	}
	return nil
}

// FlexBool handles JSON booleans that may come as true/false, 0/1, or
// string forms of either.
type FlexBool bool

func (fb *FlexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*fb = FlexBool(b)
		return nil
	}
	var i int
	if err := json.Unmarshal(data, &i); err == nil {
		*fb = i != 0
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*fb = false
			return nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		*fb = FlexBool(b)
		return nil
	}
	if string(data) == "null" {
		*fb = false
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexBool", data)
}

// Bool returns the plain boolean value.
func (fb FlexBool) Bool() bool {
	return bool(fb)
}

// Ticket is a helpdesk ticket. Status, priority, and source arrive as
// numeric codes; the label methods map them through the fixed tables.
type Ticket struct {
	ID            int      `json:"id"`
	DisplayID     int      `json:"display_id"`
	Subject       string   `json:"subject"`
	Description   string   `json:"description"`
	StatusCode    int      `json:"status"`
	PriorityCode  int      `json:"priority"`
	SourceCode    int      `json:"source"`
	RequesterID   int      `json:"requester_id"`
	ResponderID   int      `json:"responder_id"`
	GroupID       int      `json:"group_id"`
	Deleted       FlexBool `json:"deleted"`
	Spam          FlexBool `json:"spam"`
	Notes         []TicketNote `json:"notes"`
	Timestamps
}

// TicketNote wraps a Comment the way ticket responses embed them.
type TicketNote struct {
	Note Comment `json:"note"`
}

// Status returns the human label for the ticket status code. Unknown codes
// fall back to a generated "status_<code>" label.
func (t *Ticket) Status() string {
	return labelFor(ticketStatusLabels, "status", t.StatusCode)
}

// Priority returns the human label for the ticket priority code.
func (t *Ticket) Priority() string {
	return labelFor(ticketPriorityLabels, "priority", t.PriorityCode)
}

// Source returns the human label for the ticket source code.
func (t *Ticket) Source() string {
	return labelFor(ticketSourceLabels, "source", t.SourceCode)
}

// Comments returns the ticket's notes unwrapped. The slice is derived from
// the hydrated notes once; callers see stable values.
func (t *Ticket) Comments() []Comment {
	comments := make([]Comment, 0, len(t.Notes))
	for _, n := range t.Notes {
		comments = append(comments, n.Note)
	}
	return comments
}

func (t *Ticket) String() string {
	return t.Subject
}

// TicketSummary is one entry of a filtered ticket listing page. Listings
// only carry enough to re-fetch the full ticket by display id.
type TicketSummary struct {
	DisplayID    int    `json:"display_id"`
	Subject      string `json:"subject"`
	StatusCode   int    `json:"status"`
	PriorityCode int    `json:"priority"`
}

// Comment is a note on a ticket.
type Comment struct {
	ID       int      `json:"id"`
	Body     string   `json:"body"`
	BodyHTML string   `json:"body_html"`
	UserID   int      `json:"user_id"`
	Private  FlexBool `json:"private"`
	Incoming FlexBool `json:"incoming"`
	Timestamps
}

func (c *Comment) String() string {
	return c.Body
}

// Contact is a helpdesk requester. Beyond the documented fields the remote
// returns whatever custom fields the helpdesk defines; those land in Extra.
type Contact struct {
	ID     int    `json:"-"`
	Name   string `json:"-"`
	Email  string `json:"-"`
	Phone  string `json:"-"`
	Mobile string `json:"-"`
	Active FlexBool `json:"-"`
	Timestamps
	Extra map[string]json.RawMessage `json:"-"`
}

// contactFields is the fixed-schema half of a Contact response.
type contactFields struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Phone  string   `json:"phone"`
	Mobile string   `json:"mobile"`
	Active FlexBool `json:"active"`
	Timestamps
}

func (c *Contact) UnmarshalJSON(data []byte) error {
	var known contactFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range []string{"id", "name", "email", "phone", "mobile", "active", "created_at", "updated_at"} {
		delete(raw, key)
	}
	c.ID = known.ID
	c.Name = known.Name
	c.Email = known.Email
	c.Phone = known.Phone
	c.Mobile = known.Mobile
	c.Active = known.Active
	c.Timestamps = known.Timestamps
	if len(raw) > 0 {
		c.Extra = raw
	} else {
		c.Extra = nil
	}
	return nil
}

func (c Contact) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"email":      c.Email,
		"phone":      c.Phone,
		"mobile":     c.Mobile,
		"active":     c.Active,
		"created_at": c.CreatedAt,
		"updated_at": c.UpdatedAt,
	}
	for k, v := range c.Extra {
		out[k] = v
	}
	return json.Marshal(out)
}

func (c *Contact) String() string {
	return c.Name
}

// Topic is a discussion forum topic. Posts are materialized at hydration
// time so repeated access sees the same values.
type Topic struct {
	ID            int      `json:"id"`
	ForumID       int      `json:"forum_id"`
	UserID        int      `json:"user_id"`
	Title         string   `json:"title"`
	Sticky        FlexBool `json:"sticky"`
	Locked        FlexBool `json:"locked"`
	StampTypeCode int      `json:"stamp_type"`
	Hits          int      `json:"hits"`
	Posts         []Post   `json:"posts"`
	Timestamps
}

// StampType returns the human label for the topic's stamp code.
func (t *Topic) StampType() string {
	return labelFor(topicStampLabels, "stamp_type", t.StampTypeCode)
}

func (t *Topic) String() string {
	return t.Title
}

// Post is a reply inside a discussion topic.
type Post struct {
	ID       int    `json:"id"`
	TopicID  int    `json:"topic_id"`
	UserID   int    `json:"user_id"`
	Body     string `json:"body"`
	BodyHTML string `json:"body_html"`
	Hits     int    `json:"hits"`
	Timestamps
}

func (p *Post) String() string {
	return p.Body
}

// SolutionCategory is the top level of the knowledge base hierarchy.
type SolutionCategory struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Folders     []SolutionFolder `json:"folders"`
	Timestamps
}

func (c *SolutionCategory) String() string {
	return c.Name
}

// SolutionFolder groups articles within a category.
type SolutionFolder struct {
	ID             int               `json:"id"`
	CategoryID     int               `json:"category_id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	VisibilityCode int               `json:"visibility"`
	Articles       []SolutionArticle `json:"articles"`
	Timestamps
}

// Visibility returns the human label for the folder visibility code.
func (f *SolutionFolder) Visibility() string {
	return labelFor(folderVisibilityLabels, "visibility", f.VisibilityCode)
}

func (f *SolutionFolder) String() string {
	return f.Name
}

// SolutionArticle is a knowledge base article.
type SolutionArticle struct {
	ID          int    `json:"id"`
	FolderID    int    `json:"folder_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StatusCode  int    `json:"status"`
	TypeCode    int    `json:"art_type"`
	ThumbsUp    int    `json:"thumbs_up"`
	ThumbsDown  int    `json:"thumbs_down"`
	Timestamps
}

// Status returns the human label for the article status code.
func (a *SolutionArticle) Status() string {
	return labelFor(articleStatusLabels, "status", a.StatusCode)
}

// ArticleType returns the human label for the article type code.
func (a *SolutionArticle) ArticleType() string {
	return labelFor(articleTypeLabels, "art_type", a.TypeCode)
}

func (a *SolutionArticle) String() string {
	return a.Title
}
