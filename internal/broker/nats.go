package broker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alphadose/haxmap"
	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/teascout/teascout/events"
	"github.com/teascout/teascout/pkg/slogx"
	"github.com/teascout/teascout/pkg/uuidx"
)

type natsBroker[T any] struct {
	client *nats.Conn
	topics *haxmap.Map[string, *natsTopic[T]]
}

// NATS creates a broker backed by a NATS connection. Events are serialized
// with the wire format from the events package, one subject per run.
func NATS[T any](client *nats.Conn) Broker[T] {
	return &natsBroker[T]{
		client: client,
		topics: haxmap.New[string, *natsTopic[T]](),
	}
}

func (b *natsBroker[T]) Topic(ctx context.Context, id string) Topic[T] {
	top, _ := b.topics.GetOrCompute(id, func() *natsTopic[T] {
		return &natsTopic[T]{
			subject: id,
			client:  b.client,
		}
	})
	return top
}

type natsTopic[T any] struct {
	client  *nats.Conn
	subject string
}

func (t *natsTopic[T]) Publish(ctx context.Context, event events.Event) error {
	eb, err := events.ToJSON(event)
	if err != nil {
		return err
	}
	return t.client.Publish(t.subject, eb)
}

func (t *natsTopic[T]) Subscribe(ctx context.Context, hook events.Hook[T]) (Subscription, error) {
	if hook == nil {
		return nil, fmt.Errorf("hook is required")
	}
	sub := make(chan events.Event, 50)
	nsub, err := t.client.Subscribe(t.subject, func(msg *nats.Msg) {
		event, err := events.FromJSON(msg.Data)
		if err != nil {
			slog.Error("failed to unmarshal event", slogx.Error(err))
			return
		}

		sub <- retypeResult[T](event)

		if msg.Reply != "" {
			if nerr := msg.Ack(); nerr != nil {
				slog.Error("failed to ack message", slogx.Error(nerr))
			}
		}
	})
	if err != nil {
		return nil, err
	}
	nsub.SetClosedHandler(func(_ string) { close(sub) })

	go forwardToHook(ctx, sub, hook)
	return &natsSubscription{
		id:  uuidx.NewString(),
		sub: nsub,
	}, nil
}

// retypeResult recovers the typed result from a wire-decoded event. The wire
// format erases the result type, so a round-trip yields Result[any].
func retypeResult[T any](event events.Event) events.Event {
	untyped, ok := event.(events.Result[any])
	if !ok {
		return event
	}
	if typed, ok := untyped.Result.(T); ok {
		return events.Result[T]{
			RunID:     untyped.RunID,
			TurnID:    untyped.TurnID,
			Result:    typed,
			Sender:    untyped.Sender,
			Timestamp: untyped.Timestamp,
		}
	}

	var result T
	raw, err := json.Marshal(untyped.Result)
	if err != nil {
		slog.Error("failed to remarshal result event", slogx.Error(err))
		return event
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		slog.Error("failed to decode result event", slogx.Error(err))
		return event
	}
	return events.Result[T]{
		RunID:     untyped.RunID,
		TurnID:    untyped.TurnID,
		Result:    result,
		Sender:    untyped.Sender,
		Timestamp: untyped.Timestamp,
	}
}

type natsSubscription struct {
	id  string
	sub *nats.Subscription
}

func (n *natsSubscription) ID() string {
	return n.id
}

func (n *natsSubscription) Unsubscribe() {
	if err := n.sub.Unsubscribe(); err != nil {
		slog.Error("failed to unsubscribe", slogx.Error(err), slog.String("subscription", n.id))
	}
}
