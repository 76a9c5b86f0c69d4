package telegram

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"

	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/app"
	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/domain/subscriber"
	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/infra/storage"
)

const testAdminID int64 = 999

// recordingClient captures outbound sends so handler tests can assert on
// what a broadcast actually delivered.
type recordingClient struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingClient) SendMessage(recipientChatID int64, text string, _ *telebot.SendOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, text)
	return nil
}

func (r *recordingClient) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type adminFixture struct {
	bot       *telebot.Bot
	subsRepo  subscriber.Repository
	broadcast *app.BroadcastService
	client    *recordingClient
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	bot, err := telebot.NewBot(telebot.Settings{Offline: true, Synchronous: true})
	require.NoError(t, err)

	l := logrus.New()
	l.SetOutput(io.Discard)
	entry := l.WithField("test", true)

	subsRepo := storage.NewFileSubscriberRepository(filepath.Join(t.TempDir(), "users.json"))
	client := &recordingClient{}
	broadcast := app.NewBroadcastService(subsRepo, client, entry, 1000)
	adminService := app.NewAdminService(subsRepo, testAdminID)

	RegisterAdminHandlers(context.Background(), bot, adminService, broadcast, testAdminID, entry)

	return &adminFixture{bot: bot, subsRepo: subsRepo, broadcast: broadcast, client: client}
}

func (f *adminFixture) deliverText(senderID int64, text string) {
	f.bot.ProcessUpdate(telebot.Update{Message: &telebot.Message{
		Sender: &telebot.User{ID: senderID},
		Chat:   &telebot.Chat{ID: senderID},
		Text:   text,
	}})
}

func TestEmptyBroadcastPayloadDisarmsOperator(t *testing.T) {
	f := newAdminFixture(t)
	_, err := f.subsRepo.GetOrCreate(context.Background(), 101)
	require.NoError(t, err)

	f.broadcast.Arm(testAdminID)
	f.deliverText(testAdminID, "   ")

	assert.False(t, f.broadcast.Awaiting(testAdminID),
		"cancelled broadcast must not leave the operator armed")

	// a later unrelated message must not fire a mass send
	f.deliverText(testAdminID, "обычное сообщение")
	assert.Zero(t, f.client.count())
}

func TestBroadcastPayloadReachesSubscribers(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	_, err := f.subsRepo.GetOrCreate(ctx, 101)
	require.NoError(t, err)
	_, err = f.subsRepo.GetOrCreate(ctx, 102)
	require.NoError(t, err)

	f.broadcast.Arm(testAdminID)
	f.deliverText(testAdminID, "важное сообщение")

	assert.Equal(t, 2, f.client.count())
	assert.False(t, f.broadcast.Awaiting(testAdminID))
}

func TestForeignTextNeverConsumesPendingBroadcast(t *testing.T) {
	f := newAdminFixture(t)
	_, err := f.subsRepo.GetOrCreate(context.Background(), 101)
	require.NoError(t, err)

	f.broadcast.Arm(testAdminID)
	f.deliverText(101, "не рассылка")

	assert.Zero(t, f.client.count())
	assert.True(t, f.broadcast.Awaiting(testAdminID),
		"only the operator's own text carries the payload")
}
