package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserBlogUpdatesKey(t *testing.T) {
	testCases := []struct {
		user string
		want BindingKey
	}{
		{user: "staff", want: "user.staff.blog-updates"},
		{user: "Staff.One@ogcamping.vn", want: "user.staff_one@ogcamping_vn.blog-updates"},
	}

	for _, tc := range testCases {
		t.Run(tc.user, func(t *testing.T) {
			assert.Equal(t, tc.want, UserBlogUpdatesKey(tc.user))
		})
	}
}

func TestSubscription(t *testing.T) {
	uri := TestRabbitMQ(t)

	broker, err := NewMessageBroker(uri)
	require.NoError(t, err)
	t.Cleanup(func() { broker.Close() })

	require.NoError(t, SetupBlogExchange(broker))

	connected := make(chan struct{}, 1)
	received := make(chan Message, 4)

	sub := &Subscription{
		URI:      uri,
		Exchange: BlogExchange,
		Keys:     []BindingKey{UserBlogUpdatesKey("staff@ogcamping.vn")},
		Delay:    100 * time.Millisecond,
		Logger:   NewTestLogger(),
		Handler:  func(m Message) { received <- m },
		OnConnect: func() {
			connected <- struct{}{}
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go sub.Run(ctx)

	select {
	case <-connected:
	case <-time.After(10 * time.Second):
		t.Fatal("subscription did not connect")
	}

	ctxPub, cancelPub := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPub()

	// a message for another staff member must not be delivered
	err = broker.Publish(ctxPub, []byte(`{"id":2}`), UserBlogUpdatesKey("other@ogcamping.vn"), BlogExchange, "evt-2")
	require.NoError(t, err)

	err = broker.Publish(ctxPub, []byte(`{"id":1}`), UserBlogUpdatesKey("staff@ogcamping.vn"), BlogExchange, "evt-1")
	require.NoError(t, err)

	select {
	case m := <-received:
		assert.Equal(t, "evt-1", m.ID)
		assert.JSONEq(t, `{"id":1}`, string(m.Body))
	case <-time.After(5 * time.Second):
		t.Fatal("message was not delivered")
	}

	select {
	case m := <-received:
		t.Fatalf("unexpected delivery %s", m.ID)
	case <-time.After(500 * time.Millisecond):
	}
}
