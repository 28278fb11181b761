package schedule

import (
	"context"
	"fmt"
	"sync"

	"github.com/at-ishikawa/recall/internal/scheduler"
)

// MemoryStore keeps items and logs in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]scheduler.ScheduledItem
	logs  map[string][]ReviewLog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]scheduler.ScheduledItem),
		logs:  make(map[string][]ReviewLog),
	}
}

func (s *MemoryStore) Find(ctx context.Context, itemID string) (*scheduler.ScheduledItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[itemID]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *MemoryStore) FindAll(ctx context.Context) ([]scheduler.ScheduledItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]scheduler.ScheduledItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sortItems(items)
	return items, nil
}

func (s *MemoryStore) Save(ctx context.Context, item scheduler.ScheduledItem) error {
	if err := validateRecord(item); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var stored *scheduler.ScheduledItem
	if current, ok := s.items[item.ItemID]; ok {
		stored = &current
	}
	if err := checkSuccession(stored, item); err != nil {
		return err
	}
	s.items[item.ItemID] = item
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[itemID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, itemID)
	}
	delete(s.items, itemID)
	return nil
}

func (s *MemoryStore) AppendLogs(ctx context.Context, logs ...ReviewLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, log := range logs {
		s.logs[log.ItemID] = append(s.logs[log.ItemID], log)
	}
	return nil
}

func (s *MemoryStore) FindLogs(ctx context.Context, itemID string) ([]ReviewLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := append([]ReviewLog(nil), s.logs[itemID]...)
	sortLogs(logs)
	return logs, nil
}

func (s *MemoryStore) FindAllLogs(ctx context.Context) ([]ReviewLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var logs []ReviewLog
	for _, itemLogs := range s.logs {
		logs = append(logs, itemLogs...)
	}
	sortLogs(logs)
	return logs, nil
}

func (s *MemoryStore) DeleteLogs(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.logs, itemID)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
