package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/domain/horoscope"
	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/domain/subscriber"
	domainTelegram "github.com/89500204828slopi-cloud/surh-scope-bot/internal/domain/telegram"
)

// deliveryBanner prefixes every daily message.
const deliveryBanner = "🌀 Твой сюр-гороскоп на сегодня:\n\n"

// DefaultSendRatePerSec caps outbound sends when no rate is configured,
// staying under Telegram's ~30 msg/sec limit.
const DefaultSendRatePerSec = 25

// Outcome classifies what happened to one subscriber during a dispatch run.
type Outcome string

const (
	OutcomeSent             Outcome = "sent"
	OutcomeAlreadyDelivered Outcome = "skipped_already_delivered"
	OutcomeIncompletePrefs  Outcome = "skipped_incomplete_preferences"
	OutcomeNoContent        Outcome = "skipped_no_content"
	OutcomeTransportFailed  Outcome = "failed_transport"
)

// RunReport aggregates the per-subscriber outcomes of one dispatch run.
type RunReport struct {
	Sent             int
	AlreadyDelivered int
	IncompletePrefs  int
	NoContent        int
	TransportFailed  int
}

func (r *RunReport) count(o Outcome) {
	switch o {
	case OutcomeSent:
		r.Sent++
	case OutcomeAlreadyDelivered:
		r.AlreadyDelivered++
	case OutcomeIncompletePrefs:
		r.IncompletePrefs++
	case OutcomeNoContent:
		r.NoContent++
	case OutcomeTransportFailed:
		r.TransportFailed++
	}
}

// Total returns how many subscribers the run looked at.
func (r *RunReport) Total() int {
	return r.Sent + r.AlreadyDelivered + r.IncompletePrefs + r.NoContent + r.TransportFailed
}

// Dispatcher runs one complete daily delivery pass.
type Dispatcher interface {
	Run(ctx context.Context, today time.Time) (*RunReport, error)
}

// DispatchService walks all subscribers once per invocation, sends today's
// horoscope to everyone who is due one, records the delivery markers and
// prunes stale catalog dates. One subscriber's failure never aborts the
// run; only the inability to persist a store surfaces as a run error.
type DispatchService struct {
	subs    subscriber.Repository
	catalog horoscope.Repository
	tg      domainTelegram.Client
	limiter *rate.Limiter
	logger  *logrus.Entry
}

func NewDispatchService(
	sr subscriber.Repository,
	cr horoscope.Repository,
	tc domainTelegram.Client,
	logger *logrus.Entry,
	sendRatePerSec int,
) *DispatchService {
	if sendRatePerSec <= 0 {
		sendRatePerSec = DefaultSendRatePerSec
	}
	return &DispatchService{
		subs:    sr,
		catalog: cr,
		tg:      tc,
		limiter: rate.NewLimiter(rate.Limit(sendRatePerSec), sendRatePerSec),
		logger:  logger,
	}
}

// Run executes one dispatch pass for the given day. Delivery markers are
// persisted in a single write after the whole pass, so a killed run leaves
// no partial state and is safe to start over: already-delivered
// subscribers are re-skipped, nobody is double-sent.
func (s *DispatchService) Run(ctx context.Context, today time.Time) (*RunReport, error) {
	todayKey := horoscope.DateKey(today)
	runLogger := s.logger.WithField("date", todayKey)
	runLogger.Info("Dispatch run started")

	subs, err := s.subs.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading subscribers: %w", err)
	}
	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading catalog: %w", err)
	}

	report := &RunReport{}
	delivered := false

	if _, ok := catalog[todayKey]; ok {
		for _, key := range sortedSubscriberKeys(subs) {
			outcome := s.deliverOne(ctx, key, subs[key], catalog, todayKey)
			report.count(outcome)
			if outcome == OutcomeSent {
				delivered = true
			}
		}
	} else {
		runLogger.Info("No horoscopes stored for today, skipping subscriber pass")
	}

	var runErr error
	if delivered {
		if err := s.subs.SaveAll(ctx, subs); err != nil {
			// losing the markers risks duplicate sends tomorrow, so this
			// is the one condition worth failing the whole run over
			runLogger.WithError(err).Error("Failed to persist delivery markers")
			runErr = err
		}
	}

	pruned := catalog.Prune(today)
	if err := s.catalog.Save(ctx, pruned); err != nil {
		runLogger.WithError(err).Error("Failed to persist pruned catalog")
		if runErr == nil {
			runErr = err
		}
	} else if removed := len(catalog) - len(pruned); removed > 0 {
		runLogger.WithField("removed_dates", removed).Info("Pruned stale catalog dates")
	}

	runLogger.WithFields(logrus.Fields{
		"sent":              report.Sent,
		"already_delivered": report.AlreadyDelivered,
		"incomplete_prefs":  report.IncompletePrefs,
		"no_content":        report.NoContent,
		"transport_failed":  report.TransportFailed,
	}).Info("Dispatch run finished")
	return report, runErr
}

func (s *DispatchService) deliverOne(
	ctx context.Context,
	key string,
	rec *subscriber.Subscriber,
	catalog horoscope.Catalog,
	todayKey string,
) Outcome {
	if !rec.Complete() {
		return OutcomeIncompletePrefs
	}
	if rec.DeliveredOn(todayKey) {
		return OutcomeAlreadyDelivered
	}
	text, ok := catalog.Resolve(todayKey, rec.Sign, rec.Style)
	if !ok {
		return OutcomeNoContent
	}

	subLogger := s.logger.WithField("subscriber_id", key)
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		subLogger.Warn("Subscriber key is not a Telegram ID, skipping")
		return OutcomeTransportFailed
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return OutcomeTransportFailed
	}
	if err := s.tg.SendMessage(id, deliveryBanner+text, nil); err != nil {
		// blocked the bot or unreachable; the next run retries
		subLogger.WithError(err).Warn("Delivery failed")
		return OutcomeTransportFailed
	}

	rec.LastDeliveredDate = todayKey
	return OutcomeSent
}

// sortedSubscriberKeys orders the pass numerically by Telegram ID so runs
// are reproducible regardless of map iteration order.
func sortedSubscriberKeys(subs map[string]*subscriber.Subscriber) []string {
	keys := make([]string, 0, len(subs))
	for k := range subs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseInt(keys[i], 10, 64)
		b, errB := strconv.ParseInt(keys[j], 10, 64)
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}
