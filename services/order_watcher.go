package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"milano/pkg/logger"
	"milano/pkg/metrics"
	"milano/repository"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Alert is raised once per poll that saw at least one new order. It silences
// itself at Until.
type Alert struct {
	OrderIDs []uint    `json:"orderIds"`
	RaisedAt time.Time `json:"raisedAt"`
	Until    time.Time `json:"until"`
}

type AlertSink interface {
	Publish(Alert)
}

// NewOrderDetector diffs successive id snapshots of the order list.
type NewOrderDetector struct {
	mu   sync.Mutex
	seen map[uint]struct{}
}

func NewDetector() *NewOrderDetector {
	return &NewOrderDetector{seen: make(map[uint]struct{})}
}

// Observe returns the ids absent from the previous snapshot, ascending, and
// makes ids the new snapshot.
func (d *NewOrderDetector) Observe(ids []uint) []uint {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := make(map[uint]struct{}, len(ids))
	var novel []uint
	for _, id := range ids {
		if _, dup := next[id]; dup {
			continue
		}
		next[id] = struct{}{}
		if _, ok := d.seen[id]; !ok {
			novel = append(novel, id)
		}
	}
	d.seen = next
	sort.Slice(novel, func(i, j int) bool { return novel[i] < novel[j] })
	return novel
}

// Prime sets the snapshot without reporting anything.
func (d *NewOrderDetector) Prime(ids []uint) {
	d.Observe(ids)
}

// OrderWatcher polls the order list on a fixed interval and raises alerts
// for orders it has not seen before.
type OrderWatcher struct {
	Orders        repository.OrderStore
	Detector      *NewOrderDetector
	Sink          AlertSink
	Interval      time.Duration
	AlertDuration time.Duration
	Now           func() time.Time

	mu     sync.Mutex
	primed bool
	cron   *cron.Cron
}

func NewOrderWatcher(orders repository.OrderStore, sink AlertSink, interval, alertDuration time.Duration) *OrderWatcher {
	return &OrderWatcher{
		Orders:        orders,
		Detector:      NewDetector(),
		Sink:          sink,
		Interval:      interval,
		AlertDuration: alertDuration,
		Now:           func() time.Time { return time.Now().UTC() },
	}
}

// Start primes the detector with the current orders and schedules polling
// until ctx is done or Stop is called.
func (w *OrderWatcher) Start(ctx context.Context) {
	log := logger.FromContext(ctx).WithField("component", "order-watcher")
	if _, err := w.Poll(ctx); err != nil {
		log.WithError(err).Warn("initial order snapshot failed, will retry")
	}

	c := cron.New(cron.WithChain(
		cron.Recover(cron.PrintfLogger(log)),
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	c.Schedule(cron.Every(w.Interval), cron.FuncJob(func() {
		if _, err := w.Poll(ctx); err != nil {
			log.WithError(err).Warn("order poll failed")
		}
	}))

	w.mu.Lock()
	w.cron = c
	w.mu.Unlock()
	c.Start()
	log.WithField("interval", w.Interval.String()).Info("order watcher started")

	go func() {
		<-ctx.Done()
		w.Stop()
	}()
}

// Stop waits for a running poll to finish.
func (w *OrderWatcher) Stop() {
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

// Poll lists orders once. The first successful poll only primes the
// detector; later ones publish a single alert when anything is new.
func (w *OrderWatcher) Poll(ctx context.Context) (*Alert, error) {
	orders, err := w.Orders.ListOrders(ctx, repository.OrderFilter{})
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	w.mu.Lock()
	primed := w.primed
	w.primed = true
	w.mu.Unlock()
	if !primed {
		w.Detector.Prime(ids)
		return nil, nil
	}

	novel := w.Detector.Observe(ids)
	if len(novel) == 0 {
		return nil, nil
	}
	now := w.Now()
	alert := Alert{OrderIDs: novel, RaisedAt: now, Until: now.Add(w.AlertDuration)}
	metrics.AlertRaised()
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"orders": novel,
		"until":  alert.Until,
	}).Info("new orders")
	if w.Sink != nil {
		w.Sink.Publish(alert)
	}
	return &alert, nil
}
