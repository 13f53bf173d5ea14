package repository

import (
	"fmt"
	"sync"
	"testing"
)

func TestExamRegistryPutGet(t *testing.T) {
	registry := NewExamRegistry()

	if _, ok := registry.Get("missing"); ok {
		t.Error("expected miss for unknown exam id")
	}

	key := map[string]string{"1": "8"}
	points := map[int]int{1: 2}
	registry.Put("exam-1", key, points)

	entry, ok := registry.Get("exam-1")
	if !ok {
		t.Fatal("expected hit")
	}
	if entry.AnswerKey["1"] != "8" || entry.PointsByQuestion[1] != 2 {
		t.Errorf("entry = %+v", entry)
	}
}

func TestExamRegistryOverwrite(t *testing.T) {
	registry := NewExamRegistry()
	registry.Put("exam-1", map[string]string{"1": "old"}, map[int]int{1: 1})
	registry.Put("exam-1", map[string]string{"1": "new"}, map[int]int{1: 3})

	entry, ok := registry.Get("exam-1")
	if !ok || entry.AnswerKey["1"] != "new" || entry.PointsByQuestion[1] != 3 {
		t.Errorf("entry = %+v", entry)
	}
}

func TestExamRegistryGetReturnsCopy(t *testing.T) {
	registry := NewExamRegistry()
	registry.Put("exam-1", map[string]string{"1": "8"}, map[int]int{1: 2})

	entry, _ := registry.Get("exam-1")
	entry.AnswerKey["1"] = "tampered"
	entry.PointsByQuestion[1] = 99

	fresh, _ := registry.Get("exam-1")
	if fresh.AnswerKey["1"] != "8" || fresh.PointsByQuestion[1] != 2 {
		t.Errorf("registry entry mutated through Get result: %+v", fresh)
	}
}

// Concurrent graders read while uploads insert; an entry must never be
// visible half-built.
func TestExamRegistryConcurrentAccess(t *testing.T) {
	registry := NewExamRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		examID := fmt.Sprintf("exam-%d", i)
		go func() {
			defer wg.Done()
			registry.Put(examID, map[string]string{"1": "a"}, map[int]int{1: 1})
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				entry, ok := registry.Get(examID)
				if !ok {
					continue
				}
				if entry.AnswerKey == nil || entry.PointsByQuestion == nil {
					t.Error("observed partially published entry")
					return
				}
			}
		}()
	}
	wg.Wait()
}
