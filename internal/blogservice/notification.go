package blogservice

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func newNotification(blogID int64, level, message string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		BlogID:    blogID,
		Level:     level,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// staffNotice describes an admin decision on one of the staff member's blogs.
func staffNotice(b Blog) Notification {
	if b.Status == StatusDraft && b.RejectedReason != "" {
		return newNotification(b.ID, LevelWarning, fmt.Sprintf("Blog %q was rejected. Reason: %s", b.Title, b.RejectedReason))
	}
	return newNotification(b.ID, LevelInfo, fmt.Sprintf("Blog %q was updated by admin (status: %s)", b.Title, b.Status))
}

func adminNotice(b Blog) Notification {
	if b.Status == StatusPending {
		author := b.CreatedBy.Name
		if author == "" {
			author = b.CreatedBy.Email
		}
		if author == "" {
			return newNotification(b.ID, LevelInfo, fmt.Sprintf("Blog %q is waiting for review", b.Title))
		}
		return newNotification(b.ID, LevelInfo, fmt.Sprintf("Blog %q by %s is waiting for review", b.Title, author))
	}
	return newNotification(b.ID, LevelInfo, fmt.Sprintf("Blog %q is now %s", b.Title, b.Status))
}

// actionNotice records the outcome of an operator action, replacing the
// blocking confirmation of a browser alert.
func actionNotice(b Blog, action Action) Notification {
	return newNotification(b.ID, LevelInfo, fmt.Sprintf("Blog %q: %s succeeded (status: %s)", b.Title, action, b.Status))
}
