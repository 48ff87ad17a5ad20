package services

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestSyncQueue_IsNotAsync(t *testing.T) {
	q := NewSyncQueue()
	if q.IsAsync() {
		t.Error("SyncQueue should not be async")
	}
}

func TestSyncQueue_EnqueueWithoutProcessor(t *testing.T) {
	q := NewSyncQueue()

	// Should not panic or error without a processor
	err := q.Enqueue(&FanoutTask{UserIDs: []uint{1}, Type: "task_updated"})
	if err != nil {
		t.Errorf("Enqueue without processor should not error, got %v", err)
	}
}

func TestSyncQueue_ProcessesTask(t *testing.T) {
	q := NewSyncQueue()

	var mu sync.Mutex
	var processed *FanoutTask
	done := make(chan struct{})

	q.SetProcessor(func(ctx context.Context, task *FanoutTask) error {
		mu.Lock()
		processed = task
		mu.Unlock()
		close(done)
		return nil
	})

	task := &FanoutTask{
		UserIDs: []uint{1, 2},
		Type:    "comment_added",
		Title:   "New comment",
	}
	if err := q.Enqueue(task); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for task processing")
	}

	mu.Lock()
	defer mu.Unlock()
	if processed == nil {
		t.Fatal("task was not processed")
	}
	if processed.Type != "comment_added" {
		t.Errorf("Type = %q, expected %q", processed.Type, "comment_added")
	}
	if len(processed.UserIDs) != 2 {
		t.Errorf("expected 2 recipients, got %d", len(processed.UserIDs))
	}
}

func TestSyncQueue_Close(t *testing.T) {
	q := NewSyncQueue()
	if err := q.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestFanoutTask_Structure(t *testing.T) {
	related := uint(42)
	task := FanoutTask{
		UserIDs:   []uint{1, 2, 3},
		Type:      "task_assigned",
		Title:     "New task assigned",
		Message:   "You have been assigned to task \"Fix login\"",
		RelatedID: &related,
	}

	if len(task.UserIDs) != 3 {
		t.Errorf("expected 3 recipients, got %d", len(task.UserIDs))
	}
	if task.Type != "task_assigned" {
		t.Errorf("Type = %q, expected %q", task.Type, "task_assigned")
	}
	if task.RelatedID == nil || *task.RelatedID != 42 {
		t.Error("RelatedID should be 42")
	}
}
