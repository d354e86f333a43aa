package blogservice

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
	"github.com/ogcamping/console/internal/common"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// PublicBlog is the read model served to visitors.
type PublicBlog struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Type      BlogType  `json:"type"`
	HTML      string    `json:"html"`
	Image     string    `json:"image,omitempty"`
	Location  *Location `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Renderer turns published blogs into their public form.
type Renderer struct {
	md        goldmark.Markdown
	pol       *bluemonday.Policy
	assetBase string
}

func NewRenderer(assetBase string) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	return &Renderer{md: md, pol: bluemonday.UGCPolicy(), assetBase: assetBase}
}

func (r *Renderer) Render(b Blog) (PublicBlog, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(sanitizeMarkdown(b.Content)), &buf); err != nil {
		return PublicBlog{}, err
	}

	author := b.CreatedBy.Name
	if author == "" {
		author = b.CreatedBy.Email
	}

	s := slug.Make(b.Title)
	if s == "" {
		s = strconv.FormatInt(b.ID, 10)
	}

	return PublicBlog{
		ID:        b.ID,
		Slug:      s,
		Title:     b.Title,
		Author:    author,
		Type:      b.Type,
		HTML:      r.pol.SanitizeReader(&buf).String(),
		Image:     b.Media.Href(r.assetBase),
		Location:  b.Location,
		CreatedAt: b.CreatedAt,
	}, nil
}

// PublicReader serves the published blogs through the client cache.
type PublicReader struct {
	client   *Client
	renderer *Renderer
}

func NewPublicReader(client *Client, renderer *Renderer) *PublicReader {
	return &PublicReader{client: client, renderer: renderer}
}

func (p *PublicReader) List(ctx context.Context) ([]PublicBlog, error) {
	blogs, err := p.client.ListPublicBlogs(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PublicBlog, 0, len(blogs))
	for _, b := range blogs {
		if b.Status != "" && b.Status != StatusPublished {
			continue
		}
		pb, err := p.renderer.Render(b)
		if err != nil {
			return nil, err
		}
		out = append(out, pb)
	}

	return out, nil
}

func (p *PublicReader) Get(ctx context.Context, id int64) (*PublicBlog, error) {
	v := common.NewValidator()
	validateID(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := p.client.GetPublicBlog(ctx, id)
	if err != nil {
		return nil, err
	}
	if blog.Status != "" && blog.Status != StatusPublished {
		return nil, common.ErrRecordNotFound
	}

	pb, err := p.renderer.Render(*blog)
	if err != nil {
		return nil, err
	}

	return &pb, nil
}
