package mainloop

import "testing"

func TestCoalescerMergesBurstIntoSingleDispatch(t *testing.T) {
	queue := make([]func(), 0, 8)
	c := NewCoalescer(func(fn func()) { queue = append(queue, fn) })

	value := 0
	for i := 1; i <= 5; i++ {
		v := i
		c.Schedule(TaskApplyBounds, func() { value = v })
	}

	if len(queue) != 1 {
		t.Fatalf("expected 1 scheduled dispatch, got %d", len(queue))
	}
	queue[0]()

	if value != 5 {
		t.Fatalf("expected latest callback to run, got %d", value)
	}
}

func TestCoalescerKeepsDistinctKeysSeparate(t *testing.T) {
	queue := make([]func(), 0, 4)
	c := NewCoalescer(func(fn func()) { queue = append(queue, fn) })

	var ran []string
	c.Schedule(TaskApplyBounds, func() { ran = append(ran, "bounds") })
	c.Schedule(TaskStatusRefresh, func() { ran = append(ran, "status") })

	if len(queue) != 2 {
		t.Fatalf("expected 2 scheduled dispatches, got %d", len(queue))
	}
	for _, fn := range queue {
		fn()
	}

	if len(ran) != 2 || ran[0] != "bounds" || ran[1] != "status" {
		t.Fatalf("unexpected run order: %v", ran)
	}
}

func TestCoalescerDropsWorkAfterClose(t *testing.T) {
	queue := make([]func(), 0, 4)
	c := NewCoalescer(func(fn func()) { queue = append(queue, fn) })

	ran := false
	c.Schedule(TaskStepLabel, func() { ran = true })
	c.Close()

	if len(queue) != 1 {
		t.Fatalf("expected one queued dispatch before close, got %d", len(queue))
	}
	queue[0]()

	if ran {
		t.Fatalf("expected queued work to be dropped after close")
	}

	c.Schedule(TaskStepLabel, func() { ran = true })
	if len(queue) != 1 {
		t.Fatalf("expected no new dispatch after close, got %d", len(queue))
	}
}

func TestNewCoalescerPanicsOnNilPost(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected NewCoalescer to panic when post is nil")
		}
	}()

	_ = NewCoalescer(nil)
}
