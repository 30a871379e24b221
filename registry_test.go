package phxsock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// nopSubscriber carries an id so each instance has a nonzero size and a
// distinct address; pointers to zero-size values may compare equal, which
// would defeat the registry's identity-based bookkeeping under test.
type nopSubscriber struct{ id int }

func (*nopSubscriber) HandleMessage(Message) {}

func TestRegistry(t *testing.T) {
	t.Run("upsert deduplicates", func(t *testing.T) {
		r := NewRegistry()
		sub := &nopSubscriber{}

		assert.True(t, r.Upsert(sub, "room:1"))
		assert.False(t, r.Upsert(sub, "room:1"))
		assert.Equal(t, 1, r.Len())

		matches := r.Matching("room:1")
		assert.Len(t, matches, 1)
	})

	t.Run("same subscriber multiple topics", func(t *testing.T) {
		r := NewRegistry()
		sub := &nopSubscriber{}

		assert.True(t, r.Upsert(sub, "room:1"))
		assert.True(t, r.Upsert(sub, "room:2"))
		assert.Equal(t, 2, r.Len())
	})

	t.Run("matching is topic isolated", func(t *testing.T) {
		r := NewRegistry()
		a, b, c := &nopSubscriber{id: 1}, &nopSubscriber{id: 2}, &nopSubscriber{id: 3}

		r.Upsert(a, "room:1")
		r.Upsert(b, "room:1")
		r.Upsert(c, "room:2")

		matches := r.Matching("room:1")
		assert.Len(t, matches, 2)
		assert.Contains(t, matches, Subscriber(a))
		assert.Contains(t, matches, Subscriber(b))
		assert.NotContains(t, matches, Subscriber(c))

		assert.Empty(t, r.Matching("room:3"))
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		r := NewRegistry()
		sub := &nopSubscriber{}

		r.Upsert(sub, "room:1")
		assert.True(t, r.Remove(sub, "room:1"))
		assert.False(t, r.Remove(sub, "room:1"))
		assert.Equal(t, 0, r.Len())
		assert.Empty(t, r.Matching("room:1"))
	})

	t.Run("remove leaves other entries", func(t *testing.T) {
		r := NewRegistry()
		a, b := &nopSubscriber{}, &nopSubscriber{}

		r.Upsert(a, "room:1")
		r.Upsert(b, "room:1")
		r.Upsert(a, "room:2")

		r.Remove(a, "room:1")

		assert.Len(t, r.Matching("room:1"), 1)
		assert.Len(t, r.Matching("room:2"), 1)
		assert.Equal(t, 2, r.Len())
	})

	t.Run("each visits all pairs", func(t *testing.T) {
		r := NewRegistry()
		a, b := &nopSubscriber{}, &nopSubscriber{}

		r.Upsert(a, "room:1")
		r.Upsert(b, "room:2")

		visited := make(map[string]int)
		r.Each(func(_ Subscriber, topic string) {
			visited[topic]++
		})
		assert.Equal(t, map[string]int{"room:1": 1, "room:2": 1}, visited)
	})

	t.Run("subscriber func handles are distinct", func(t *testing.T) {
		r := NewRegistry()
		fn := func(Message) {}

		s1 := SubscriberFunc(fn)
		s2 := SubscriberFunc(fn)

		assert.True(t, r.Upsert(s1, "room:1"))
		assert.True(t, r.Upsert(s2, "room:1"))
		assert.Equal(t, 2, r.Len())
	})
}
