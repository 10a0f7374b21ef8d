package mainloop

import "sync"

// TaskKey identifies a class of coalescable main-loop work.
type TaskKey string

// Task keys for widget updates that remote command bursts can invalidate
// faster than one frame.
const (
	TaskApplyBounds   TaskKey = "apply-bounds"
	TaskStatusRefresh TaskKey = "status-refresh"
	TaskStepLabel     TaskKey = "step-label"
)

// Coalescer merges bursts of same-key tasks into one main-loop dispatch:
// scheduling a key that is already queued replaces its callback instead of
// scheduling a second run, so only the newest state per key reaches the
// widgets.
type Coalescer struct {
	post func(func())

	mu     sync.Mutex
	queued map[TaskKey]func()
	closed bool
}

// NewCoalescer creates a coalescer dispatching through post, typically
// mainloop.Post. Tests inject a recording post.
func NewCoalescer(post func(func())) *Coalescer {
	if post == nil {
		panic("mainloop.NewCoalescer: post function cannot be nil")
	}
	return &Coalescer{
		post:   post,
		queued: make(map[TaskKey]func()),
	}
}

// Schedule queues fn under key. When the key is already queued, fn
// replaces the stored callback and no additional dispatch is scheduled.
func (c *Coalescer) Schedule(key TaskKey, fn func()) {
	if fn == nil || key == "" {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	_, alreadyQueued := c.queued[key]
	c.queued[key] = fn
	post := c.post
	c.mu.Unlock()

	if alreadyQueued {
		return
	}

	post(func() { c.run(key) })
}

func (c *Coalescer) run(key TaskKey) {
	c.mu.Lock()
	fn := c.queued[key]
	delete(c.queued, key)
	closed := c.closed
	c.mu.Unlock()

	if closed || fn == nil {
		return
	}
	fn()
}

// Close drops queued work and rejects further scheduling.
func (c *Coalescer) Close() {
	c.mu.Lock()
	c.closed = true
	c.queued = make(map[TaskKey]func())
	c.mu.Unlock()
}
