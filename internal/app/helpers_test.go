package app

import (
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/infra/storage"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("test", true)
}

func testStores(t *testing.T) (*storage.FileSubscriberRepository, *storage.FileCatalogRepository, string) {
	t.Helper()
	dir := t.TempDir()
	return storage.NewFileSubscriberRepository(filepath.Join(dir, "users.json")),
		storage.NewFileCatalogRepository(filepath.Join(dir, "horoscopes.json")),
		dir
}

type sentMessage struct {
	ID   int64
	Text string
}

// fakeTransport records sends and fails on demand per recipient.
type fakeTransport struct {
	mu      sync.Mutex
	failFor map[int64]bool
	sent    []sentMessage
}

func newFakeTransport(failFor ...int64) *fakeTransport {
	f := &fakeTransport{failFor: make(map[int64]bool)}
	for _, id := range failFor {
		f.failFor[id] = true
	}
	return f
}

func (f *fakeTransport) SendMessage(recipientChatID int64, text string, _ *telebot.SendOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[recipientChatID] {
		return errors.New("forbidden: bot was blocked by the user")
	}
	f.sent = append(f.sent, sentMessage{ID: recipientChatID, Text: text})
	return nil
}

func (f *fakeTransport) sentTo() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.sent))
	for _, m := range f.sent {
		ids = append(ids, m.ID)
	}
	return ids
}
