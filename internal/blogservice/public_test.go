package blogservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererRender(t *testing.T) {
	r := NewRenderer("https://api.ogcamping.vn")

	pb, err := r.Render(Blog{
		ID:        1,
		Title:     "Hồ Ba Bể mùa thu",
		Content:   "# Ngày 1\n\n<script>alert(1)</script>**Cắm trại** ven hồ <img src=x onerror=alert(1)>",
		CreatedBy: Author{Email: "lan@ogcamping.vn"},
		Media:     MediaRef{Kind: MediaFilename, Name: "a.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, "ho-ba-be-mua-thu", pb.Slug)
	assert.Equal(t, "lan@ogcamping.vn", pb.Author)
	assert.Equal(t, "https://api.ogcamping.vn/uploads/a.jpg", pb.Image)
	assert.Contains(t, pb.HTML, "<h1>Ngày 1</h1>")
	assert.Contains(t, pb.HTML, "<strong>Cắm trại</strong>")
	assert.NotContains(t, pb.HTML, "script")
	assert.NotContains(t, pb.HTML, "onerror")
}

func TestPublicReader(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.add(Blog{ID: 1, Title: "Mũi Né", Content: "Đồi cát", Status: StatusPublished})
	fb.add(Blog{ID: 2, Title: "Đà Lạt", Status: StatusPending})

	reader := NewPublicReader(client, NewRenderer("https://api.ogcamping.vn"))
	ctx := context.Background()

	blogs, err := reader.List(ctx)
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, "mui-ne", blogs[0].Slug)

	_, err = reader.Get(ctx, 2)
	assert.Error(t, err)

	blog, err := reader.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Mũi Né", blog.Title)
}
