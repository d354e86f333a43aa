package blogservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleBlogs() []Blog {
	return []Blog{
		{ID: 1, Title: "Hồ Ba Bể", Status: StatusDraft, CreatedBy: Author{Name: "Lan", Email: "lan@ogcamping.vn"}},
		{ID: 2, Title: "Đà Lạt mùa sương", Status: StatusPending, CreatedBy: Author{Name: "Minh", Email: "minh@ogcamping.vn"}},
		{ID: 3, Title: "Mũi Né", Status: StatusPublished, CreatedBy: Author{Name: "Lan", Email: "lan@ogcamping.vn"}},
		{ID: 4, Title: "Tà Xùa", Status: StatusUnpublished, CreatedBy: Author{Name: "Khoa", Email: "khoa@ogcamping.vn"}},
	}
}

func ids(blogs []Blog) []int64 {
	out := make([]int64, 0, len(blogs))
	for _, b := range blogs {
		out = append(out, b.ID)
	}
	return out
}

func TestFilterApply(t *testing.T) {
	testCases := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{name: "empty filter", filter: Filter{}, want: []int64{1, 2, 3, 4}},
		{name: "all status", filter: Filter{Status: StatusAll}, want: []int64{1, 2, 3, 4}},
		{name: "status only", filter: Filter{Status: StatusPending}, want: []int64{2}},
		{name: "title case insensitive", filter: Filter{Query: "hồ ba"}, want: []int64{1}},
		{name: "author name", filter: Filter{Query: "LAN"}, want: []int64{1, 3}},
		{name: "author email", filter: Filter{Query: "khoa@"}, want: []int64{4}},
		{name: "query and status", filter: Filter{Query: "lan", Status: StatusPublished}, want: []int64{3}},
		{name: "no match", filter: Filter{Query: "sapa"}, want: []int64{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.filter.Apply(sampleBlogs())
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestFilterIsNonDestructive(t *testing.T) {
	blogs := sampleBlogs()
	original := sampleBlogs()

	filtered := Filter{Query: "lan", Status: StatusDraft}.Apply(blogs)
	assert.Len(t, filtered, 1)

	// mutating the view must not reach the list
	filtered[0].Title = "changed"

	assert.Equal(t, original, blogs)
	assert.Equal(t, original, Filter{}.Apply(blogs))

	again := Filter{Query: "lan", Status: StatusDraft}.Apply(blogs)
	assert.Equal(t, "Hồ Ba Bể", again[0].Title)
}
