package feed

import (
	"sync"
	"testing"
	"time"

	"github.com/jpalmerr/olevel/internal/records"
)

func TestNew(t *testing.T) {
	f := New()
	if _, ok := f.Last(); ok {
		t.Error("Last() ok = true on a new feed, want false")
	}
	if f.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", f.Subscribers())
	}
}

func TestFeed_PublishRemembersLast(t *testing.T) {
	f := New()
	f.Publish(records.Change{Op: records.OpRegister, StudentID: "A1", Count: 1})
	f.Publish(records.Change{Op: records.OpDelete, StudentID: "A1", Count: 0})

	last, ok := f.Last()
	if !ok {
		t.Fatal("Last() ok = false, want true")
	}
	if last.Op != records.OpDelete {
		t.Errorf("Last().Op = %q, want %q", last.Op, records.OpDelete)
	}
}

func TestFeed_Subscribe(t *testing.T) {
	f := New()
	ch := f.Subscribe()

	go f.Publish(records.Change{Op: records.OpPromote, StudentID: "A1"})

	select {
	case got := <-ch:
		if got.StudentID != "A1" {
			t.Errorf("received StudentID = %q, want %q", got.StudentID, "A1")
		}
	case <-time.After(time.Second):
		t.Error("subscriber did not receive change")
	}
}

func TestFeed_MultipleSubscribers(t *testing.T) {
	f := New()
	ch1 := f.Subscribe()
	ch2 := f.Subscribe()

	go f.Publish(records.Change{Op: records.OpClear})

	received := 0
	timeout := time.After(time.Second)
	for received < 2 {
		select {
		case <-ch1:
			received++
		case <-ch2:
			received++
		case <-timeout:
			t.Fatalf("only received %d/2 changes", received)
		}
	}
}

func TestFeed_Unsubscribe(t *testing.T) {
	f := New()
	ch := f.Subscribe()
	f.Unsubscribe(ch)
	f.Unsubscribe(ch) // second call is a no-op

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("channel should be closed after Unsubscribe")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("channel should be closed immediately")
	}
	if f.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", f.Subscribers())
	}
}

func TestFeed_SlowSubscriberDoesNotBlock(t *testing.T) {
	f := New()
	_ = f.Subscribe() // never read

	done := make(chan struct{})
	go func() {
		for i := 0; i < 3*bufferSize; i++ {
			f.Publish(records.Change{Op: records.OpScores})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("Publish() blocked on slow subscriber")
	}
}

func TestFeed_ConcurrentAccess(t *testing.T) {
	f := New()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				f.Publish(records.Change{Op: records.OpRegister})
				_, _ = f.Last()
			}
		}()
		go func() {
			defer wg.Done()
			ch := f.Subscribe()
			time.Sleep(10 * time.Millisecond)
			f.Unsubscribe(ch)
		}()
	}

	wg.Wait()
}
