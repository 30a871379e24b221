package phxsock

// pushQueue is the ordered buffer of outbound pushes awaiting a flush slot.
// It is owned by the socket loop and is not safe for concurrent use.
type pushQueue struct {
	items []*Message
}

func newPushQueue() *pushQueue {
	return &pushQueue{}
}

// Enqueue appends a push to the back of the queue.
func (q *pushQueue) Enqueue(msg *Message) {
	q.items = append(q.items, msg)
}

// Dequeue removes and returns the oldest push. The second return value is
// false if the queue is empty.
func (q *pushQueue) Dequeue() (*Message, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	msg := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return msg, true
}

// Requeue puts a push back at the front of the queue, ahead of everything
// already waiting. Used when a dequeued push could not be sent.
func (q *pushQueue) Requeue(msg *Message) {
	q.items = append(q.items, nil)
	copy(q.items[1:], q.items)
	q.items[0] = msg
}

// Len returns the number of queued pushes.
func (q *pushQueue) Len() int {
	return len(q.items)
}
