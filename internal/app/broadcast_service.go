package app

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/domain/subscriber"
	domainTelegram "github.com/89500204828slopi-cloud/surh-scope-bot/internal/domain/telegram"
)

// BroadcastService delivers an operator-supplied message to every known
// subscriber. The waiting-for-payload state is kept per operator, so the
// next free text from one operator can never consume another operator's
// pending broadcast.
type BroadcastService struct {
	subs    subscriber.Repository
	tg      domainTelegram.Client
	limiter *rate.Limiter
	logger  *logrus.Entry

	mu       sync.Mutex
	awaiting map[int64]struct{}
}

func NewBroadcastService(
	sr subscriber.Repository,
	tc domainTelegram.Client,
	logger *logrus.Entry,
	sendRatePerSec int,
) *BroadcastService {
	if sendRatePerSec <= 0 {
		sendRatePerSec = DefaultSendRatePerSec
	}
	return &BroadcastService{
		subs:     sr,
		tg:       tc,
		limiter:  rate.NewLimiter(rate.Limit(sendRatePerSec), sendRatePerSec),
		logger:   logger,
		awaiting: make(map[int64]struct{}),
	}
}

// Arm marks the operator as waiting: their next plain-text message is the
// broadcast payload.
func (s *BroadcastService) Arm(operatorID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awaiting[operatorID] = struct{}{}
}

// Awaiting reports whether the operator's next message should be
// intercepted as a broadcast payload.
func (s *BroadcastService) Awaiting(operatorID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.awaiting[operatorID]
	return ok
}

// Cancel clears the operator's waiting state without sending anything,
// for when the intercepted payload turns out to be unusable. Like a
// completed broadcast, a cancelled one must never leave the operator
// armed.
func (s *BroadcastService) Cancel(operatorID int64) {
	s.disarm(operatorID)
}

func (s *BroadcastService) disarm(operatorID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.awaiting, operatorID)
}

// Send delivers the payload to every subscriber and returns how many sends
// succeeded out of how many were attempted. Individual transport failures
// are swallowed, same as in the daily dispatch. The operator's waiting
// state is cleared no matter what, so a stuck prompt never survives a
// failed broadcast.
func (s *BroadcastService) Send(ctx context.Context, operatorID int64, payload string) (sent, total int, err error) {
	defer s.disarm(operatorID)

	subs, err := s.subs.All(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("error loading subscribers: %w", err)
	}

	bcLogger := s.logger.WithField("operator_id", operatorID)
	for _, key := range sortedSubscriberKeys(subs) {
		id, parseErr := strconv.ParseInt(key, 10, 64)
		if parseErr != nil {
			continue
		}
		total++
		if waitErr := s.limiter.Wait(ctx); waitErr != nil {
			continue
		}
		if sendErr := s.tg.SendMessage(id, payload, nil); sendErr != nil {
			bcLogger.WithField("subscriber_id", key).WithError(sendErr).Warn("Broadcast delivery failed")
			continue
		}
		sent++
	}

	bcLogger.WithFields(logrus.Fields{"sent": sent, "total": total}).Info("Broadcast finished")
	return sent, total, nil
}
