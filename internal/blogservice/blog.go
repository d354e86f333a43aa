package blogservice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// wireBlog is the blog as serialized by the backend, on REST and on the broker.
type wireBlog struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Content        string          `json:"content"`
	CreatedBy      json.RawMessage `json:"createdBy,omitempty"`
	Status         Status          `json:"status"`
	Type           BlogType        `json:"type,omitempty"`
	Thumbnail      string          `json:"thumbnail,omitempty"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	Location       *Location       `json:"location,omitempty"`
	RejectedReason string          `json:"rejectedReason,omitempty"`
	CreatedAt      string          `json:"createdAt,omitempty"`
	UpdatedAt      string          `json:"updatedAt,omitempty"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// parseAuthor accepts either an author object or the bare identifier string
// older backend versions send.
func parseAuthor(raw json.RawMessage) (Author, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Author{}, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Author{}, err
		}
		if strings.Contains(s, "@") {
			return Author{Email: s, Name: s}, nil
		}
		return Author{Name: s}, nil
	}

	var a struct {
		ID       int64  `json:"id"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		FullName string `json:"fullName"`
	}
	if err := json.Unmarshal(raw, &a); err != nil {
		return Author{}, err
	}

	author := Author{ID: a.ID, Email: a.Email, Name: a.Name}
	if author.Name == "" {
		author.Name = a.FullName
	}

	return author, nil
}

func (b *Blog) UnmarshalJSON(data []byte) error {
	var w wireBlog
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	author, err := parseAuthor(w.CreatedBy)
	if err != nil {
		return fmt.Errorf("invalid createdBy: %w", err)
	}

	blogType := w.Type
	if blogType == "" {
		blogType = TypeUser
	}

	*b = Blog{
		ID:             w.ID,
		Title:          w.Title,
		Content:        w.Content,
		CreatedBy:      author,
		Status:         Status(strings.ToUpper(string(w.Status))),
		Type:           blogType,
		Media:          resolveMedia(w.Thumbnail, w.ImageURL),
		Location:       w.Location,
		RejectedReason: w.RejectedReason,
		CreatedAt:      parseTimestamp(w.CreatedAt),
		UpdatedAt:      parseTimestamp(w.UpdatedAt),
	}

	return nil
}

func (b Blog) MarshalJSON() ([]byte, error) {
	thumbnail, imageURL := b.Media.wire()

	media := b.Media
	if media.Kind == "" {
		media.Kind = MediaNone
	}

	return json.Marshal(struct {
		ID             int64     `json:"id"`
		Title          string    `json:"title"`
		Content        string    `json:"content"`
		CreatedBy      Author    `json:"createdBy"`
		Status         Status    `json:"status"`
		Type           BlogType  `json:"type"`
		Thumbnail      string    `json:"thumbnail,omitempty"`
		ImageURL       string    `json:"imageUrl,omitempty"`
		Media          MediaRef  `json:"media"`
		Location       *Location `json:"location,omitempty"`
		RejectedReason string    `json:"rejectedReason,omitempty"`
		CreatedAt      string    `json:"createdAt,omitempty"`
		UpdatedAt      string    `json:"updatedAt,omitempty"`
	}{
		ID:             b.ID,
		Title:          b.Title,
		Content:        b.Content,
		CreatedBy:      b.CreatedBy,
		Status:         b.Status,
		Type:           b.Type,
		Thumbnail:      thumbnail,
		ImageURL:       imageURL,
		Media:          media,
		Location:       b.Location,
		RejectedReason: b.RejectedReason,
		CreatedAt:      formatTimestamp(b.CreatedAt),
		UpdatedAt:      formatTimestamp(b.UpdatedAt),
	})
}

// decodeBlogs accepts a bare JSON array or an object wrapping it.
func decodeBlogs(body []byte) ([]Blog, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []Blog{}, nil
	}

	if body[0] == '[' {
		var blogs []Blog
		if err := json.Unmarshal(body, &blogs); err != nil {
			return nil, err
		}
		return blogs, nil
	}

	var wrap map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrap); err != nil {
		return nil, err
	}

	for _, key := range []string{"data", "content", "blogs"} {
		if raw, ok := wrap[key]; ok {
			return decodeBlogs(raw)
		}
	}

	return nil, fmt.Errorf("unexpected blog list shape")
}

// decodeBlog returns nil when the body is not a blog object; several action
// endpoints answer with plain text.
func decodeBlog(body []byte) *Blog {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil
	}

	var b Blog
	if err := json.Unmarshal(body, &b); err != nil || b.ID == 0 {
		return nil
	}

	return &b
}
