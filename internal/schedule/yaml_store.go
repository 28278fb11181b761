package schedule

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/recall/internal/scheduler"
)

type yamlScheduleFile struct {
	Items []scheduler.ScheduledItem `yaml:"items"`
	Logs  []ReviewLog               `yaml:"logs,omitempty"`
}

// YAMLStore keeps items and logs in a single YAML file.
// Every operation reads the file, and writes replace it atomically.
type YAMLStore struct {
	mu   sync.Mutex
	path string
}

func NewYAMLStore(path string) *YAMLStore {
	return &YAMLStore{path: path}
}

func (s *YAMLStore) load() (yamlScheduleFile, error) {
	var file yamlScheduleFile
	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return file, nil
	}
	if err != nil {
		return file, fmt.Errorf("os.ReadFile(%s) > %w", s.path, err)
	}
	if err := yaml.Unmarshal(content, &file); err != nil {
		return file, fmt.Errorf("yaml.Unmarshal(%s) > %w", s.path, err)
	}
	return file, nil
}

func (s *YAMLStore) write(file yamlScheduleFile) error {
	sortItems(file.Items)
	sortLogs(file.Logs)

	content, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("yaml.Marshal() > %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(s.path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp() > %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("tmp.Write() > %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close() > %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("os.Rename(%s) > %w", s.path, err)
	}
	return nil
}

func (s *YAMLStore) Find(ctx context.Context, itemID string) (*scheduler.ScheduledItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, item := range file.Items {
		if item.ItemID == itemID {
			return &item, nil
		}
	}
	return nil, nil
}

func (s *YAMLStore) FindAll(ctx context.Context) ([]scheduler.ScheduledItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return nil, err
	}
	sortItems(file.Items)
	return file.Items, nil
}

func (s *YAMLStore) Save(ctx context.Context, item scheduler.ScheduledItem) error {
	if err := validateRecord(item); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	index := -1
	var stored *scheduler.ScheduledItem
	for i := range file.Items {
		if file.Items[i].ItemID == item.ItemID {
			index = i
			stored = &file.Items[i]
			break
		}
	}
	if err := checkSuccession(stored, item); err != nil {
		return err
	}

	if index < 0 {
		file.Items = append(file.Items, item)
	} else {
		file.Items[index] = item
	}
	return s.write(file)
}

func (s *YAMLStore) Delete(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	items := file.Items[:0]
	for _, item := range file.Items {
		if item.ItemID != itemID {
			items = append(items, item)
		}
	}
	if len(items) == len(file.Items) {
		return fmt.Errorf("%w: %s", ErrNotFound, itemID)
	}
	file.Items = items
	return s.write(file)
}

func (s *YAMLStore) AppendLogs(ctx context.Context, logs ...ReviewLog) error {
	if len(logs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}
	file.Logs = append(file.Logs, logs...)
	return s.write(file)
}

func (s *YAMLStore) FindLogs(ctx context.Context, itemID string) ([]ReviewLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return nil, err
	}
	var logs []ReviewLog
	for _, log := range file.Logs {
		if log.ItemID == itemID {
			logs = append(logs, log)
		}
	}
	sortLogs(logs)
	return logs, nil
}

func (s *YAMLStore) FindAllLogs(ctx context.Context) ([]ReviewLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return nil, err
	}
	sortLogs(file.Logs)
	return file.Logs, nil
}

func (s *YAMLStore) DeleteLogs(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}
	logs := file.Logs[:0]
	for _, log := range file.Logs {
		if log.ItemID != itemID {
			logs = append(logs, log)
		}
	}
	if len(logs) == len(file.Logs) {
		return nil
	}
	file.Logs = logs
	return s.write(file)
}

func (s *YAMLStore) Close() error {
	return nil
}
