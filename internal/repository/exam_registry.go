package repository

import (
	"maps"
	"sync"
)

// ExamKey is everything grading needs from a processed exam: the normalized
// answer key (keyed "5" or "13-a)") and the per-question point allocation.
type ExamKey struct {
	AnswerKey        map[string]string
	PointsByQuestion map[int]int
}

// ExamRegistry holds answer keys for the process lifetime. Entries are
// immutable after Put and are never evicted; volume is assumed low.
type ExamRegistry interface {
	Put(examID string, answerKey map[string]string, pointsByQuestion map[int]int)
	Get(examID string) (ExamKey, bool)
}

type examRegistry struct {
	mu      sync.RWMutex
	entries map[string]ExamKey
}

func NewExamRegistry() ExamRegistry {
	return &examRegistry{entries: make(map[string]ExamKey)}
}

// Put publishes the complete pair in one step; a concurrent Get sees either
// nothing or the whole entry.
func (r *examRegistry) Put(examID string, answerKey map[string]string, pointsByQuestion map[int]int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[examID] = ExamKey{AnswerKey: answerKey, PointsByQuestion: pointsByQuestion}
}

// Get returns a copy of the entry; callers may mutate the maps without
// affecting the registry.
func (r *examRegistry) Get(examID string) (ExamKey, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[examID]
	if !ok {
		return ExamKey{}, false
	}
	return ExamKey{
		AnswerKey:        maps.Clone(entry.AnswerKey),
		PointsByQuestion: maps.Clone(entry.PointsByQuestion),
	}, true
}
