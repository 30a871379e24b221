package phxsock

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPushQueue(t *testing.T) {
	t.Run("empty dequeue", func(t *testing.T) {
		q := newPushQueue()

		msg, ok := q.Dequeue()
		assert.False(t, ok)
		assert.Nil(t, msg)
		assert.Equal(t, 0, q.Len())
	})

	t.Run("fifo order", func(t *testing.T) {
		q := newPushQueue()

		for i := 1; i <= 5; i++ {
			q.Enqueue(&Message{Topic: "room:1", Event: "msg", Ref: strconv.Itoa(i)})
		}
		assert.Equal(t, 5, q.Len())

		for i := 1; i <= 5; i++ {
			msg, ok := q.Dequeue()
			assert.True(t, ok)
			assert.Equal(t, strconv.Itoa(i), msg.Ref)
		}

		_, ok := q.Dequeue()
		assert.False(t, ok)
	})

	t.Run("requeue restores the front", func(t *testing.T) {
		q := newPushQueue()

		q.Enqueue(&Message{Ref: "1"})
		q.Enqueue(&Message{Ref: "2"})

		msg, ok := q.Dequeue()
		assert.True(t, ok)
		assert.Equal(t, "1", msg.Ref)

		q.Requeue(msg)
		assert.Equal(t, 2, q.Len())

		msg, ok = q.Dequeue()
		assert.True(t, ok)
		assert.Equal(t, "1", msg.Ref)

		msg, ok = q.Dequeue()
		assert.True(t, ok)
		assert.Equal(t, "2", msg.Ref)
	})

	t.Run("requeue into empty queue", func(t *testing.T) {
		q := newPushQueue()

		q.Requeue(&Message{Ref: "1"})

		msg, ok := q.Dequeue()
		assert.True(t, ok)
		assert.Equal(t, "1", msg.Ref)
	})

	t.Run("interleaved", func(t *testing.T) {
		q := newPushQueue()

		q.Enqueue(&Message{Ref: "1"})
		q.Enqueue(&Message{Ref: "2"})

		msg, ok := q.Dequeue()
		assert.True(t, ok)
		assert.Equal(t, "1", msg.Ref)

		q.Enqueue(&Message{Ref: "3"})

		msg, ok = q.Dequeue()
		assert.True(t, ok)
		assert.Equal(t, "2", msg.Ref)

		msg, ok = q.Dequeue()
		assert.True(t, ok)
		assert.Equal(t, "3", msg.Ref)

		assert.Equal(t, 0, q.Len())
	})
}
