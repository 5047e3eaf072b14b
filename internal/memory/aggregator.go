// Package memory tracks the runtime state of a workflow run: the ordered
// conversation thread, fork/join semantics for agent handoffs, and token
// usage accounting.
package memory

import (
	"iter"
	"slices"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/teascout/teascout/messages"
	"github.com/teascout/teascout/pkg/uuidx"
)

// AggregatedMessages is an ordered collection of type-erased thread messages.
type AggregatedMessages []messages.Message[messages.ModelMessage]

func (a AggregatedMessages) Len() int {
	return len(a)
}

// New returns an empty aggregator with a fresh id.
func New() *Aggregator {
	return &Aggregator{
		id:       uuidx.New(),
		messages: make(AggregatedMessages, 0),
	}
}

// Aggregator holds a conversation thread and its usage statistics. Forked
// aggregators remember the fork point so only messages added after the fork
// are carried back on Join.
type Aggregator struct {
	id       uuid.UUID
	messages AggregatedMessages
	initLen  int
	usage    Usage
}

func (a *Aggregator) ID() uuid.UUID {
	return a.id
}

func (a *Aggregator) Len() int {
	return a.messages.Len()
}

// TurnLen returns the number of messages added since the fork point.
func (a *Aggregator) TurnLen() int {
	return len(a.messages) - a.initLen
}

// Messages returns a copy of the thread.
func (a *Aggregator) Messages() AggregatedMessages {
	return slices.Clone(a.messages)
}

// MessagesIter iterates the thread without copying it.
func (a *Aggregator) MessagesIter() iter.Seq[messages.Message[messages.ModelMessage]] {
	return slices.Values(a.messages)
}

func eraseType[T messages.ModelMessage](m messages.Message[T]) messages.Message[messages.ModelMessage] {
	return messages.Message[messages.ModelMessage]{
		RunID:     m.RunID,
		TurnID:    m.TurnID,
		Payload:   m.Payload,
		Sender:    m.Sender,
		Timestamp: m.Timestamp,
	}
}

// AddMessage appends any message type to the aggregator. Prefer the typed
// Add methods where the payload type is statically known.
func AddMessage[T messages.ModelMessage](a *Aggregator, m messages.Message[T]) {
	a.add(eraseType(m))
}

func (a *Aggregator) AddUserPrompt(m messages.Message[messages.UserMessage]) {
	a.add(eraseType(m))
}

func (a *Aggregator) AddAssistantMessage(m messages.Message[messages.AssistantMessage]) {
	a.add(eraseType(m))
}

func (a *Aggregator) AddToolCall(m messages.Message[messages.ToolCallMessage]) {
	a.add(eraseType(m))
}

func (a *Aggregator) AddToolResponse(m messages.Message[messages.ToolResponse]) {
	a.add(eraseType(m))
}

func (a *Aggregator) add(m messages.Message[messages.ModelMessage]) {
	a.messages = append(a.messages, m)
}

func (a *Aggregator) Usage() Usage {
	return a.usage
}

func (a *Aggregator) AddUsage(u *Usage) {
	a.usage.AddUsage(u)
}

// Fork returns a new aggregator seeded with a copy of the current thread.
// The fork point is recorded so Join can bring back only new messages.
func (a *Aggregator) Fork() *Aggregator {
	return &Aggregator{
		id:       uuid.New(),
		messages: slices.Clone(a.messages),
		initLen:  a.Len(),
	}
}

// Join appends the messages b accumulated after its fork point, and folds
// b's usage into this aggregator.
func (a *Aggregator) Join(b *Aggregator) {
	a.messages = append(a.messages, b.messages[b.initLen:]...)
	a.usage.AddUsage(&b.usage)
}

// Checkpoint snapshots the aggregator state for persistence.
func (a *Aggregator) Checkpoint() Checkpoint {
	return Checkpoint{
		id:       a.id,
		messages: slices.Clone(a.messages),
		usage:    a.usage,
		initLen:  a.initLen,
	}
}

// Checkpoint is an immutable snapshot of an aggregator. Snapshots survive a
// JSON round-trip, so a run can be persisted and resumed later.
type Checkpoint struct {
	id       uuid.UUID
	messages AggregatedMessages
	usage    Usage
	initLen  int
}

func (c *Checkpoint) ID() uuid.UUID {
	return c.id
}

func (c *Checkpoint) Messages() AggregatedMessages {
	return slices.Clone(c.messages)
}

func (c *Checkpoint) Usage() Usage {
	return c.usage
}

// MergeInto replays the checkpoint's post-fork messages and usage into
// another aggregator.
func (c *Checkpoint) MergeInto(other *Aggregator) {
	other.messages = append(other.messages, c.messages[c.initLen:]...)
	other.usage.AddUsage(&c.usage)
	if other.id == uuid.Nil {
		other.id = c.id
	}
}

func (c Checkpoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       string                                    `json:"id"`
		Messages []messages.Message[messages.ModelMessage] `json:"messages"`
		Usage    Usage                                     `json:"usage"`
		InitLen  int                                       `json:"init_len"`
	}{
		ID:       c.id.String(),
		Messages: c.messages,
		Usage:    c.usage,
		InitLen:  c.initLen,
	})
}

func (c *Checkpoint) UnmarshalJSON(data []byte) error {
	var tmp struct {
		ID       string                                    `json:"id"`
		Messages []messages.Message[messages.ModelMessage] `json:"messages"`
		Usage    Usage                                     `json:"usage"`
		InitLen  int                                       `json:"init_len"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	id, err := uuid.Parse(tmp.ID)
	if err != nil {
		return err
	}
	c.id = id
	c.messages = tmp.Messages
	c.usage = tmp.Usage
	c.initLen = tmp.InitLen
	return nil
}
