package blogservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ogcamping/console/internal/common"
)

const maxResponseBytes = 1 << 20

var (
	// ErrNetwork wraps every failure to reach the backend.
	ErrNetwork = errors.New("network error")
	// ErrUnauthorized is matched by 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend responded with status %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && (e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Client calls the OG Camping backend blog endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *common.Cache
}

func NewClient(baseURL string, timeout time.Duration, cache *common.Cache) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &APIError{StatusCode: res.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	return data, nil
}

func (c *Client) list(ctx context.Context, path, token string) ([]Blog, error) {
	data, err := c.do(ctx, http.MethodGet, path, token, nil, "")
	if err != nil {
		return nil, err
	}

	blogs, err := decodeBlogs(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode blog list: %w", err)
	}

	return blogs, nil
}

func (c *Client) get(ctx context.Context, path, token string) (*Blog, error) {
	data, err := c.do(ctx, http.MethodGet, path, token, nil, "")
	if err != nil {
		return nil, err
	}

	blog := decodeBlog(data)
	if blog == nil {
		return nil, common.ErrRecordNotFound
	}

	return blog, nil
}

// action issues a state transition and returns the updated blog when the
// backend answers with one, nil otherwise.
func (c *Client) action(ctx context.Context, method, path, token string) (*Blog, error) {
	data, err := c.do(ctx, method, path, token, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeBlog(data), nil
}

func blogPath(prefix string, id int64, suffix string) string {
	return prefix + strconv.FormatInt(id, 10) + suffix
}

func (c *Client) ListStaffBlogs(ctx context.Context, token string) ([]Blog, error) {
	return c.list(ctx, "/blogs/staff/all", token)
}

func (c *Client) GetStaffBlog(ctx context.Context, token string, id int64) (*Blog, error) {
	return c.get(ctx, blogPath("/blogs/staff/", id, ""), token)
}

func (c *Client) CreateBlog(ctx context.Context, token string, d *BlogDraft) (*Blog, error) {
	body, contentType, err := encodeDraft(d)
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPost, "/blogs/staff/create", token, body, contentType)
	if err != nil {
		return nil, err
	}

	return decodeBlog(data), nil
}

func (c *Client) UpdateBlog(ctx context.Context, token string, id int64, d *BlogDraft) (*Blog, error) {
	body, contentType, err := encodeDraft(d)
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPut, blogPath("/blogs/staff/", id, ""), token, body, contentType)
	if err != nil {
		return nil, err
	}

	return decodeBlog(data), nil
}

func (c *Client) DeleteBlog(ctx context.Context, token string, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, blogPath("/blogs/staff/", id, ""), token, nil, "")
	return err
}

func (c *Client) SubmitBlog(ctx context.Context, token string, id int64) (*Blog, error) {
	return c.action(ctx, http.MethodPut, blogPath("/blogs/staff/", id, "/submit"), token)
}

func (c *Client) ListAdminBlogs(ctx context.Context, token string) ([]Blog, error) {
	return c.list(ctx, "/blogs/admin", token)
}

func (c *Client) GetAdminBlog(ctx context.Context, token string, id int64) (*Blog, error) {
	return c.get(ctx, blogPath("/blogs/admin/", id, ""), token)
}

func (c *Client) PublishBlog(ctx context.Context, token string, id int64) (*Blog, error) {
	blog, err := c.action(ctx, http.MethodPost, blogPath("/blogs/admin/", id, "/publish"), token)
	if err == nil {
		c.invalidatePublic(id)
	}
	return blog, err
}

func (c *Client) UnpublishBlog(ctx context.Context, token string, id int64) (*Blog, error) {
	blog, err := c.action(ctx, http.MethodPost, blogPath("/blogs/admin/", id, "/unpublish"), token)
	if err == nil {
		c.invalidatePublic(id)
	}
	return blog, err
}

func (c *Client) RejectBlog(ctx context.Context, token string, id int64, feedback string) (*Blog, error) {
	path := blogPath("/blogs/admin/", id, "/reject") + "?feedback=" + url.QueryEscape(feedback)
	return c.action(ctx, http.MethodPost, path, token)
}

func (c *Client) ListPublicBlogs(ctx context.Context) ([]Blog, error) {
	key := common.CacheKeyPublicBlogs()
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]Blog), nil
	}

	blogs, err := c.list(ctx, "/blogs/public", "")
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, blogs)
	return blogs, nil
}

func (c *Client) GetPublicBlog(ctx context.Context, id int64) (*Blog, error) {
	key := common.CacheKeyPublicBlog(id)
	if cached, ok := c.cache.Get(key); ok {
		blog := cached.(Blog)
		return &blog, nil
	}

	blog, err := c.get(ctx, blogPath("/blogs/public/", id, ""), "")
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, common.ErrRecordNotFound
		}
		return nil, err
	}

	c.cache.Set(key, *blog)
	return blog, nil
}

func (c *Client) invalidatePublic(id int64) {
	c.cache.Delete(common.CacheKeyPublicBlogs())
	c.cache.Delete(common.CacheKeyPublicBlog(id))
}

func encodeDraft(d *BlogDraft) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"title", d.Title},
		{"content", d.Content},
	}
	if d.LocationID > 0 {
		fields = append(fields, [2]string{"locationId", strconv.FormatInt(d.LocationID, 10)})
	}
	if d.LocationName != "" {
		fields = append(fields, [2]string{"locationName", d.LocationName})
	}
	if d.LocationDescription != "" {
		fields = append(fields, [2]string{"locationDescription", d.LocationDescription})
	}

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if d.Thumbnail != nil {
		part, err := w.CreateFormFile("thumbnail", d.Thumbnail.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(d.Thumbnail.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}
