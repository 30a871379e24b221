package phxsock

// Subscriber is an addressable handle that receives messages for the topics
// it is registered on. Subscribers are compared by identity: registering the
// same handle twice for the same topic is a no-op.
//
// HandleMessage is invoked on the socket's internal goroutine. It must not
// block and must not call the socket's blocking operations synchronously;
// hand the message off to another goroutine if more work is needed.
type Subscriber interface {
	HandleMessage(msg Message)
}

type funcSubscriber struct {
	fn func(Message)
}

func (f *funcSubscriber) HandleMessage(msg Message) { f.fn(msg) }

// SubscriberFunc wraps a plain function into a Subscriber. Each call returns
// a distinct handle, so the result must be kept if the caller intends to
// unsubscribe later.
func SubscriberFunc(fn func(Message)) Subscriber {
	return &funcSubscriber{fn: fn}
}

type subscription struct {
	subscriber Subscriber
	topic      string
}

// Registry is the set of (subscriber, topic) pairs the socket routes inbound
// frames by. It preserves registration order for iteration but callers must
// not rely on it. Owned by the socket loop; not safe for concurrent use.
type Registry struct {
	subs []subscription
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Upsert registers the pair if it is not already present. Returns true if a
// new entry was added.
func (r *Registry) Upsert(sub Subscriber, topic string) bool {
	for _, s := range r.subs {
		if s.subscriber == sub && s.topic == topic {
			return false
		}
	}
	r.subs = append(r.subs, subscription{subscriber: sub, topic: topic})
	return true
}

// Remove deletes all entries equal to the pair. Removing an absent pair is a
// no-op. Returns true if anything was removed.
func (r *Registry) Remove(sub Subscriber, topic string) bool {
	removed := false
	kept := r.subs[:0]
	for _, s := range r.subs {
		if s.subscriber == sub && s.topic == topic {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(r.subs); i++ {
		r.subs[i] = subscription{}
	}
	r.subs = kept
	return removed
}

// Matching returns every subscriber currently registered for the topic.
func (r *Registry) Matching(topic string) []Subscriber {
	var out []Subscriber
	for _, s := range r.subs {
		if s.topic == topic {
			out = append(out, s.subscriber)
		}
	}
	return out
}

// Each calls fn for every registered pair.
func (r *Registry) Each(fn func(sub Subscriber, topic string)) {
	for _, s := range r.subs {
		fn(s.subscriber, s.topic)
	}
}

// Len returns the number of registered pairs.
func (r *Registry) Len() int {
	return len(r.subs)
}
