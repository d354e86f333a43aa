package blogservice

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seed replaces the list of st through a completed fetch.
func seed(st *Store, blogs ...Blog) {
	st.Dispatch(Loaded{Gen: st.StartLoad(), Blogs: blogs})
}

func TestStoreOverlayDuringLoad(t *testing.T) {
	st := NewStore()
	seed(st, Blog{ID: 1, Title: "old", Status: StatusPending})

	gen := st.StartLoad()

	// events delivered while the fetch is in flight
	st.Dispatch(Received{Blog: Blog{ID: 2, Title: "new", Status: StatusPending}, Front: true})
	st.Dispatch(Received{Blog: Blog{ID: 1, Title: "old", Status: StatusPublished}, Front: true})
	st.Dispatch(Removed{ID: 3})

	// the fetch result was produced before the events
	st.Dispatch(Loaded{Gen: gen, Blogs: []Blog{
		{ID: 1, Title: "old", Status: StatusPending},
		{ID: 3, Title: "gone", Status: StatusPending},
	}})

	snap := st.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, []int64{1, 2}, ids(snap.Blogs))
	assert.Equal(t, StatusPublished, snap.Blogs[0].Status)
}

func TestStoreOverlappingLoads(t *testing.T) {
	st := NewStore()
	seed(st, Blog{ID: 1, Status: StatusPending})

	first := st.StartLoad()
	second := st.StartLoad()

	assert.True(t, st.Dispatch(Loaded{Gen: first, Blogs: []Blog{{ID: 1, Status: StatusPending}}}))
	assert.True(t, st.Snapshot().Loading)

	// delivered after the first result, while the second fetch is in flight
	st.Dispatch(Received{Blog: Blog{ID: 2, Status: StatusPending}, Front: true})

	assert.True(t, st.Dispatch(Loaded{Gen: second, Blogs: []Blog{{ID: 1, Status: StatusPending}}}))

	snap := st.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, []int64{2, 1}, ids(snap.Blogs))
}

func TestStoreStaleLoadDropped(t *testing.T) {
	st := NewStore()

	first := st.StartLoad()
	second := st.StartLoad()

	assert.True(t, st.Dispatch(Loaded{Gen: second, Blogs: []Blog{{ID: 1, Status: StatusPublished}}}))
	assert.False(t, st.Dispatch(Loaded{Gen: first, Blogs: []Blog{{ID: 1, Status: StatusPending}}}))
	assert.False(t, st.Dispatch(Loaded{Gen: second, Blogs: nil}))

	snap := st.Snapshot()
	assert.False(t, snap.Loading)
	require.Len(t, snap.Blogs, 1)
	assert.Equal(t, StatusPublished, snap.Blogs[0].Status)

	// a failure of an older fetch does not mark the newer list as failed
	third := st.StartLoad()
	fourth := st.StartLoad()
	st.Dispatch(Loaded{Gen: fourth, Blogs: []Blog{{ID: 1, Status: StatusPublished}}})
	st.Dispatch(LoadFailed{Gen: third, Err: ErrNetwork})
	assert.NoError(t, st.Snapshot().LoadErr)
}

func TestStoreLoadedKeep(t *testing.T) {
	st := NewStore()
	st.Dispatch(Loaded{
		Gen:   st.StartLoad(),
		Blogs: []Blog{{ID: 1, Status: StatusDraft}, {ID: 2, Status: StatusPending}},
		Keep:  func(b Blog) bool { return adminVisible(b.Status) },
	})

	assert.Equal(t, []int64{2}, ids(st.Snapshot().Blogs))
}

func TestStoreLoadFailedKeepsList(t *testing.T) {
	st := NewStore()
	seed(st, Blog{ID: 1})
	st.Dispatch(LoadFailed{Gen: st.StartLoad(), Err: ErrNetwork})

	snap := st.Snapshot()
	assert.False(t, snap.Loading)
	assert.ErrorIs(t, snap.LoadErr, ErrNetwork)
	assert.Equal(t, []int64{1}, ids(snap.Blogs))
}

func TestStoreReceivedDeduplicates(t *testing.T) {
	st := NewStore()
	seed(st, Blog{ID: 1, Title: "Hồ Ba Bể", Status: StatusPending})

	rejected := Blog{ID: 1, Title: "Hồ Ba Bể", Status: StatusDraft, RejectedReason: "Thiếu ảnh"}

	assert.True(t, st.Dispatch(Received{Blog: rejected, Notice: staffNotice}))
	assert.False(t, st.Dispatch(Received{Blog: rejected, Notice: staffNotice}))

	rejected.RejectedReason = "Thiếu ảnh bìa"
	assert.True(t, st.Dispatch(Received{Blog: rejected, Notice: staffNotice}))

	assert.Len(t, st.Snapshot().Notifications, 2)
}

func TestStoreProcessingFlag(t *testing.T) {
	st := NewStore()

	assert.True(t, st.Dispatch(Started{ID: 1}))
	assert.False(t, st.Dispatch(Started{ID: 1}))
	assert.True(t, st.Dispatch(Started{ID: 2}))

	assert.True(t, st.Dispatch(Finished{ID: 1}))
	assert.False(t, st.Dispatch(Finished{ID: 1}))
	assert.True(t, st.Dispatch(Started{ID: 1}))
}

func TestStoreNotificationsBounded(t *testing.T) {
	st := NewStore()
	for i := 0; i < maxNotifications+10; i++ {
		st.Dispatch(Notified{Notification: Notification{ID: fmt.Sprint(i)}})
	}

	notifications := st.Snapshot().Notifications
	require.Len(t, notifications, maxNotifications)
	assert.Equal(t, "10", notifications[0].ID)
}

func TestStoreSnapshotIsCopy(t *testing.T) {
	st := NewStore()
	seed(st, Blog{ID: 1, Title: "a", Location: &Location{Name: "Ba Bể"}})

	snap := st.Snapshot()
	snap.Blogs[0].Title = "changed"
	snap.Blogs[0].Location.Name = "changed"

	row, ok := st.Find(1)
	require.True(t, ok)
	assert.Equal(t, "a", row.Title)
	assert.Equal(t, "Ba Bể", row.Location.Name)
}
