package blogservice

import (
	"errors"
	"fmt"
	"strings"
)

type Action string

const (
	ActionSubmit    Action = "submit"
	ActionPublish   Action = "publish"
	ActionReject    Action = "reject"
	ActionUnpublish Action = "unpublish"
)

var ErrInvalidTransition = errors.New("invalid status transition")

var transitions = map[Status]map[Action]Status{
	StatusDraft: {
		ActionSubmit: StatusPending,
	},
	StatusPending: {
		ActionPublish: StatusPublished,
		ActionReject:  StatusDraft,
	},
	StatusPublished: {
		ActionUnpublish: StatusUnpublished,
	},
	StatusUnpublished: {
		ActionPublish: StatusPublished,
	},
}

type transitionError struct {
	from   Status
	action Action
}

func (e *transitionError) Error() string {
	return fmt.Sprintf("cannot %s a %s blog", e.action, e.from)
}

func (e *transitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Transition returns the status reached by applying action to a blog in from.
func Transition(from Status, action Action) (Status, error) {
	to, ok := transitions[from][action]
	if !ok {
		return "", &transitionError{from: from, action: action}
	}
	return to, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPublished, StatusUnpublished:
		return true
	}
	return false
}

// Editable reports whether staff may still edit, submit or delete the blog.
func (s Status) Editable() bool {
	return s == StatusDraft
}

// adminVisible is the inclusion rule of the admin list.
func adminVisible(s Status) bool {
	return s == StatusPending || s == StatusPublished
}

// ParseStatusFilter parses a status filter value, empty means ALL.
func ParseStatusFilter(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if st == "" || st == StatusAll {
		return StatusAll, nil
	}
	if !st.Valid() {
		return "", fmt.Errorf("invalid status filter %q", s)
	}
	return st, nil
}
