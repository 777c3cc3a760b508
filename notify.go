package transfergo

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TransferEvent is the fact published after a successful transfer. The
// account views are post-transfer snapshots; listeners never see (or
// hold) live account state.
type TransferEvent struct {
	ID       snowflake.ID    `json:"id"`
	Sender   AccountView     `json:"sender"`
	Receiver AccountView     `json:"receiver"`
	Amount   decimal.Decimal `json:"amount"`
}

// Notifier delivers a single message to a single account holder.
// Delivery is best-effort; a returned error is logged by the dispatcher
// and never reaches the transfer path.
type Notifier interface {
	NotifyAboutTransfer(acct AccountView, msg string) error
}

// Dispatcher fans a TransferEvent out to the sender and receiver
// through a Notifier. Events are queued on a buffered channel and
// consumed by a single worker goroutine, so publication never blocks a
// transfer and listener code never runs under account locks. When the
// queue is full the event is dropped with a warning.
type Dispatcher struct {
	notifier Notifier
	log      *zerolog.Logger

	events chan TransferEvent
	done   chan struct{}
	once   sync.Once
}

func NewDispatcher(notifier Notifier, queueSize int, log *zerolog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	d := &Dispatcher{
		notifier: notifier,
		log:      log,
		events:   make(chan TransferEvent, queueSize),
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) Publish(evt TransferEvent) {
	select {
	case d.events <- evt:
	case <-d.done:
	default:
		d.log.Warn().
			Str("event_id", evt.ID.String()).
			Msg("notification queue full, event dropped")
	}
}

// Close stops the worker. Events still queued are dropped.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.done)
	})
}

func (d *Dispatcher) run() {
	for {
		select {
		case evt := <-d.events:
			d.dispatch(evt)
		case <-d.done:
			return
		}
	}
}

func (d *Dispatcher) dispatch(evt TransferEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Str("event_id", evt.ID.String()).
				Interface("panic", r).
				Msg("notifier panicked")
		}
	}()

	d.notify(evt.Sender, "You've just sent %s to account #%s.",
		evt.Amount, evt.Receiver.AcctID)
	d.notify(evt.Receiver, "You've just received %s from account #%s.",
		evt.Amount, evt.Sender.AcctID)
}

func (d *Dispatcher) notify(acct AccountView, tmpl string, args ...interface{}) {
	msg := fmt.Sprintf(tmpl, args...)
	if err := d.notifier.NotifyAboutTransfer(acct, msg); err != nil {
		d.log.Err(err).
			Str("acct_id", acct.AcctID).
			Msg("transfer notification failed")
	}
}

// LogNotifier writes notifications to the log. It stands in for a real
// delivery channel (email, push) behind the same interface.
type LogNotifier struct {
	Log *zerolog.Logger
}

var (
	_ Notifier = (*LogNotifier)(nil)
)

func (n *LogNotifier) NotifyAboutTransfer(acct AccountView, msg string) error {
	n.Log.Info().
		Str("acct_id", acct.AcctID).
		Str("message", msg).
		Msg("transfer notification")
	return nil
}
