// Package broadcast republishes pipeline outcomes on NATS so that processes
// other than the one running the fetch can observe the same channels.
//
// Subjects have the form <prefix>.<kind>.<channel>, for example
// recipefeed.outcomes.recipes.fallback.
package broadcast

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/recipefeed/internal/fetch"
	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/logfields"
	"git.home.luguber.info/inful/recipefeed/internal/outcome"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
)

// Publisher is the subset of *nats.Conn used for publishing.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Envelope is the message body published for each emission.
type Envelope struct {
	RequestID string          `json:"request_id"`
	Kind      recipes.Kind    `json:"kind"`
	Channel   fetch.Channel   `json:"channel"`
	Outcome   json.RawMessage `json:"outcome"`
	Timestamp time.Time       `json:"timestamp"`
}

// Subject returns the subject for one kind and channel.
func Subject(prefix string, kind recipes.Kind, ch fetch.Channel) string {
	return strings.Join([]string{prefix, kind.String(), string(ch)}, ".")
}

// Connect dials the NATS server used for outcome events.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url, nats.Name("recipefeed-events"))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryBroker, "failed to connect to NATS").
			WithContext("url", url).
			Retryable().
			Build()
	}
	return conn, nil
}

// NATSObserver implements fetch.Observer by publishing every emission.
// Publish failures are logged and dropped.
type NATSObserver[T any] struct {
	pub    Publisher
	prefix string
	kind   recipes.Kind
	now    func() time.Time
}

// NewNATSObserver publishes kind's emissions under prefix.
func NewNATSObserver[T any](pub Publisher, prefix string, kind recipes.Kind) *NATSObserver[T] {
	return &NATSObserver[T]{pub: pub, prefix: prefix, kind: kind, now: time.Now}
}

func (o *NATSObserver[T]) OnPrimary(req fetch.Request, out outcome.Outcome[T]) {
	o.publish(fetch.ChannelPrimary, req, out)
}

func (o *NATSObserver[T]) OnFallback(req fetch.Request, out outcome.Outcome[T]) {
	o.publish(fetch.ChannelFallback, req, out)
}

func (o *NATSObserver[T]) publish(ch fetch.Channel, req fetch.Request, out outcome.Outcome[T]) {
	subject := Subject(o.prefix, o.kind, ch)
	data, err := encode(ch, req, out, o.now())
	if err != nil {
		slog.Error("Failed to encode outcome event", logfields.Kind(o.kind.String()), logfields.Error(err))
		return
	}
	if err := o.pub.Publish(subject, data); err != nil {
		slog.Warn("Failed to publish outcome event",
			slog.String("subject", subject),
			logfields.RequestID(req.ID().String()),
			logfields.Error(err))
		return
	}
	slog.Debug("Published outcome event", slog.String("subject", subject), logfields.RequestID(req.ID().String()))
}

func encode[T any](ch fetch.Channel, req fetch.Request, out outcome.Outcome[T], ts time.Time) ([]byte, error) {
	body, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		RequestID: req.ID().String(),
		Kind:      req.Kind(),
		Channel:   ch,
		Outcome:   body,
		Timestamp: ts.UTC(),
	})
}

// Subscribe delivers every envelope published under prefix to handle until
// the returned subscription is drained or unsubscribed.
func Subscribe(conn *nats.Conn, prefix string, handle func(subject string, env Envelope)) (*nats.Subscription, error) {
	sub, err := conn.Subscribe(prefix+".>", func(msg *nats.Msg) {
		var env Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			slog.Warn("Dropping malformed outcome event", slog.String("subject", msg.Subject), logfields.Error(err))
			return
		}
		handle(msg.Subject, env)
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryBroker, "failed to subscribe to outcome events").
			WithContext("prefix", prefix).
			Build()
	}
	return sub, nil
}
