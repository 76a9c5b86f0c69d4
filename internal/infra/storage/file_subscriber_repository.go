package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/domain/subscriber"
)

// FileSubscriberRepository persists subscriber records as a single JSON
// file mapping string-encoded Telegram IDs to records. Every mutation is a
// whole-file read-modify-write under one mutex, so concurrent writers from
// the bot handlers and the dispatch run cannot lose each other's updates.
type FileSubscriberRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileSubscriberRepository(path string) *FileSubscriberRepository {
	return &FileSubscriberRepository{path: path}
}

// load reads the full store. A missing or damaged file loads as an empty
// store so one bad write never takes the bot down.
func (r *FileSubscriberRepository) load() map[string]*subscriber.Subscriber {
	out := make(map[string]*subscriber.Subscriber)
	data, err := os.ReadFile(r.path)
	if err != nil {
		return out
	}
	var subs map[string]*subscriber.Subscriber
	if err := json.Unmarshal(data, &subs); err != nil || subs == nil {
		return out
	}
	return subs
}

func (r *FileSubscriberRepository) GetOrCreate(ctx context.Context, id int64) (*subscriber.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := r.load()
	key := strconv.FormatInt(id, 10)
	if s, ok := subs[key]; ok {
		return s, nil
	}

	s := &subscriber.Subscriber{}
	subs[key] = s
	if err := writeJSONFile(r.path, subs); err != nil {
		return nil, fmt.Errorf("error creating subscriber %d: %w", id, err)
	}
	return s, nil
}

func (r *FileSubscriberRepository) Update(ctx context.Context, id int64, patch subscriber.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := r.load()
	key := strconv.FormatInt(id, 10)
	s, ok := subs[key]
	if !ok {
		s = &subscriber.Subscriber{}
		subs[key] = s
	}
	patch.Apply(s)

	if err := writeJSONFile(r.path, subs); err != nil {
		return fmt.Errorf("error updating subscriber %d: %w", id, err)
	}
	return nil
}

func (r *FileSubscriberRepository) All(ctx context.Context) (map[string]*subscriber.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(), nil
}

func (r *FileSubscriberRepository) SaveAll(ctx context.Context, subs map[string]*subscriber.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := writeJSONFile(r.path, subs); err != nil {
		return fmt.Errorf("error saving subscribers: %w", err)
	}
	return nil
}
