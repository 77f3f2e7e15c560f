// Package queue manages the message bus used to notify downstream
// consumers about stored memories, deletions, orphaned blobs, and
// aggregate recounts.
//
// Overview
//   - Publish/subscribe decouples the upload pipeline from downstream
//     processing (sync clients, audit, analytics).
//   - Uniform envelope: Message[Payload] = Header + Payload.
//   - Topic constants live in topics.go, payload structs in payloads.go.
//   - JSON encoding via bytedance/sonic, easy to parse from any language.
//
// Envelope JSON structure:
//
//	{
//	  "header": {
//	    "topic": "mb.memory.stored",
//	    "trace_id": "optional-trace-id",
//	    "producer": "memorybox",
//	    "occurred_at": "2026-01-02T03:04:05.123456Z",
//	    "version": "v1"
//	  },
//	  "payload": { ... topic-specific ... }
//	}
//
// Publish/subscribe example:
//
//	payload := queue.MemoryStoredPayload{
//	  Blob: queue.BlobRef{
//	    Bucket:      "memorybox",
//	    ObjectKey:   "users/u1/memories/01J0...jpg",
//	    ETag:        "abc123",
//	    Size:        42,
//	    ContentType: "image/jpeg",
//	  },
//	  MemoryID: "mem-1",
//	  UserID:   "u1",
//	}
//
//	msg, _ := queue.NewWatermillMessage(
//	  queue.TopicMemoryStored, payload,
//	  queue.WithTraceID("trace-xyz"),
//	  queue.WithProducer("memorybox"),
//	)
//
//	// client, _ := mq.New(ctx)
//	// _ = client.Publish(ctx, queue.TopicMemoryStored, msg)
//
//	// ch, _ := client.Subscribe(ctx, queue.TopicMemoryStored)
//	// for m := range ch {
//	//     env, _ := queue.ParseWatermillMessage[queue.MemoryStoredPayload](m)
//	//     // env.Header / env.Payload ...
//	//     m.Ack()
//	// }
//
// Notes
//  1. occurred_at is UTC RFC3339.
//  2. version enables backward-compatible evolution; consumers should
//     ignore unknown fields.
//  3. Header.topic duplicates the broker subject on purpose, for
//     offline traceability.
package queue

import (
	"time"

	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"
)

const (
	PayloadVersionV1 string = "v1"
)

// NewEventHeader builds an event header for a topic.
func NewEventHeader(topic string, opts ...func(*EventHeader)) EventHeader {
	hdr := EventHeader{
		Topic:      topic,
		OccurredAt: time.Now().UTC(),
		Version:    PayloadVersionV1,
	}
	for _, opt := range opts {
		opt(&hdr)
	}

	return hdr
}

// WithTraceID sets the TraceID header.
func WithTraceID(id string) func(*EventHeader) { return func(h *EventHeader) { h.TraceID = id } }

// WithProducer sets the Producer header.
func WithProducer(p string) func(*EventHeader) { return func(h *EventHeader) { h.Producer = p } }

// Encode serializes an envelope to JSON.
func Encode[T any](msg Message[T]) ([]byte, error) { return sonic.Marshal(msg) }

// Decode deserializes a JSON envelope.
func Decode[T any](b []byte) (Message[T], error) {
	var m Message[T]

	err := sonic.Unmarshal(b, &m)

	return m, err
}

// NewWatermillMessage builds a watermill message with ID and metadata set.
func NewWatermillMessage[T any](topic string, payload T, opts ...func(*EventHeader)) (*message.Message, error) {
	header := NewEventHeader(topic, opts...)
	env := Message[T]{Header: header, Payload: payload}

	data, err := Encode(env)
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("topic", topic)

	if header.TraceID != "" {
		msg.Metadata.Set("trace_id", header.TraceID)
	}

	if header.Producer != "" {
		msg.Metadata.Set("producer", header.Producer)
	}

	msg.Metadata.Set("occurred_at", header.OccurredAt.Format(time.RFC3339Nano))

	if header.Version != "" {
		msg.Metadata.Set("version", header.Version)
	}

	return msg, nil
}

// ParseWatermillMessage decodes the typed envelope out of a watermill message.
func ParseWatermillMessage[T any](msg *message.Message) (Message[T], error) {
	return Decode[T](msg.Payload)
}
