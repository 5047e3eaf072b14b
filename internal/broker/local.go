package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/teascout/teascout/events"
	"github.com/teascout/teascout/messages"
	"github.com/teascout/teascout/pkg/uuidx"
)

const defaultSlowSubscriberTimeout = 100 * time.Millisecond

type localBroker[T any] struct {
	topics                *haxmap.Map[string, *topic[T]]
	slowSubscriberTimeout time.Duration
}

// Local creates an in-process broker. Every run gets its own topic, keyed by
// run id, and subscribers receive the run's events through buffered channels.
func Local[T any]() Broker[T] {
	return &localBroker[T]{
		topics:                haxmap.New[string, *topic[T]](),
		slowSubscriberTimeout: defaultSlowSubscriberTimeout,
	}
}

func (b *localBroker[T]) Topic(ctx context.Context, id string) Topic[T] {
	topic, _ := b.topics.GetOrCompute(id, func() *topic[T] {
		return &topic[T]{
			ID:                    id,
			subscriptions:         haxmap.New[string, *subscription[T]](),
			slowSubscriberTimeout: b.slowSubscriberTimeout,
		}
	})
	return topic
}

type topic[T any] struct {
	ID                    string
	subscriptions         *haxmap.Map[string, *subscription[T]]
	slowSubscriberTimeout time.Duration
}

func (t *topic[T]) Publish(ctx context.Context, event events.Event) error {
	t.subscriptions.ForEach(func(id string, sub *subscription[T]) bool {
		if sub == nil {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-sub.ctx.Done():
			sub.Unsubscribe()
			return true
		default:
		}

		select {
		case <-ctx.Done():
			return false
		case <-sub.ctx.Done():
			sub.Unsubscribe()
		case sub.channel <- event:
		case <-time.After(t.slowSubscriberTimeout):
			// Subscriber is not draining its channel, drop it
			sub.Unsubscribe()
		}
		return true
	})
	return nil
}

func (t *topic[T]) Subscribe(ctx context.Context, hook events.Hook[T]) (Subscription, error) {
	if hook == nil {
		return nil, fmt.Errorf("hook is required")
	}
	sub := t.newSubscription(ctx, hook)
	return sub, nil
}

func (t *topic[T]) newSubscription(ctx context.Context, hook events.Hook[T]) *subscription[T] {
	id := uuidx.NewString()
	sub := &subscription[T]{
		id:        id,
		ctx:       ctx,
		channel:   make(chan events.Event, 50),
		closeOnce: sync.Once{},
		onClose:   func() { t.subscriptions.Del(id) },
		hook:      hook,
	}
	t.subscriptions.Set(id, sub)
	go forwardToHook(ctx, sub.channel, hook)
	return sub
}

type subscription[T any] struct {
	id        string
	ctx       context.Context
	channel   chan events.Event
	closeOnce sync.Once
	onClose   func()
	hook      events.Hook[T]
}

func (s *subscription[T]) ID() string {
	return s.id
}

func (s *subscription[T]) Unsubscribe() {
	s.closeOnce.Do(func() {
		if s.onClose != nil {
			s.onClose()
		}
		close(s.channel)
	})
}

// forwardToHook translates broker events back into hook callbacks. It exits
// when the channel closes or the context is cancelled.
func forwardToHook[T any](ctx context.Context, ch <-chan events.Event, hook events.Hook[T]) {
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			dispatchEvent(ctx, event, hook)
		case <-ctx.Done():
			return
		}
	}
}

func dispatchEvent[T any](ctx context.Context, event events.Event, hook events.Hook[T]) {
	switch event := event.(type) {
	case events.Delim:
		// stream control, not forwarded
	case events.Request[messages.UserMessage]:
		hook.OnUserPrompt(ctx, messages.Message[messages.UserMessage]{
			RunID:     event.RunID,
			TurnID:    event.TurnID,
			Payload:   event.Message,
			Sender:    event.Sender,
			Timestamp: event.Timestamp,
		})
	case events.Chunk[messages.AssistantMessage]:
		hook.OnAssistantChunk(ctx, messages.Message[messages.AssistantMessage]{
			RunID:     event.RunID,
			TurnID:    event.TurnID,
			Payload:   event.Chunk,
			Sender:    event.Sender,
			Timestamp: event.Timestamp,
		})
	case events.Chunk[messages.ToolCallMessage]:
		hook.OnToolCallChunk(ctx, messages.Message[messages.ToolCallMessage]{
			RunID:     event.RunID,
			TurnID:    event.TurnID,
			Payload:   event.Chunk,
			Sender:    event.Sender,
			Timestamp: event.Timestamp,
		})
	case events.Request[messages.ToolResponse]:
		hook.OnToolCallResponse(ctx, messages.Message[messages.ToolResponse]{
			RunID:     event.RunID,
			TurnID:    event.TurnID,
			Payload:   event.Message,
			Sender:    event.Sender,
			Timestamp: event.Timestamp,
		})
	case events.Response[messages.ToolCallMessage]:
		hook.OnToolCallMessage(ctx, messages.Message[messages.ToolCallMessage]{
			RunID:     event.RunID,
			TurnID:    event.TurnID,
			Payload:   event.Response,
			Sender:    event.Sender,
			Timestamp: event.Timestamp,
		})
	case events.Response[messages.AssistantMessage]:
		hook.OnAssistantMessage(ctx, messages.Message[messages.AssistantMessage]{
			RunID:     event.RunID,
			TurnID:    event.TurnID,
			Payload:   event.Response,
			Sender:    event.Sender,
			Timestamp: event.Timestamp,
		})
	case events.Result[T]:
		hook.OnResult(ctx, event.Result)
	case events.Error:
		hook.OnError(ctx, event)
	default:
		panic(fmt.Sprintf("unknown event type: %T", event))
	}
}
