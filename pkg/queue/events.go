package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- typed event helpers --------------------------

// PublishMemoryStored publishes mb.memory.stored after the blob upload
// and the metadata commit both succeed. Header fields (TraceID,
// Producer) can be injected via opts.
func PublishMemoryStored(pub message.Publisher, payload MemoryStoredPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicMemoryStored, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicMemoryStored, msg)
}

// ParseMemoryStored decodes a watermill message into a typed envelope.
func ParseMemoryStored(msg *message.Message) (Message[MemoryStoredPayload], error) {
	return ParseWatermillMessage[MemoryStoredPayload](msg)
}

// PublishMemoryDeleted publishes mb.memory.deleted after the blob and
// record are both removed.
func PublishMemoryDeleted(pub message.Publisher, payload MemoryDeletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicMemoryDeleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicMemoryDeleted, msg)
}

// ParseMemoryDeleted decodes a watermill message into a typed envelope.
func ParseMemoryDeleted(msg *message.Message) (Message[MemoryDeletedPayload], error) {
	return ParseWatermillMessage[MemoryDeletedPayload](msg)
}

// PublishMemoryPersistFailed publishes mb.memory.persist.failed so the
// orphaned blob can be reconciled later.
func PublishMemoryPersistFailed(pub message.Publisher, payload MemoryPersistFailedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicMemoryPersistFailed, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicMemoryPersistFailed, msg)
}

// ParseMemoryPersistFailed decodes a watermill message into a typed envelope.
func ParseMemoryPersistFailed(msg *message.Message) (Message[MemoryPersistFailedPayload], error) {
	return ParseWatermillMessage[MemoryPersistFailedPayload](msg)
}

// PublishProcessDegraded publishes mb.memory.process.degrade when image
// processing failed and the original file was stored instead.
func PublishProcessDegraded(pub message.Publisher, payload ProcessDegradedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicMemoryProcessDegrade, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicMemoryProcessDegrade, msg)
}

// PublishOrphanFound publishes mb.blob.orphan.found from the
// reconciliation job.
func PublishOrphanFound(pub message.Publisher, payload OrphanFoundPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicBlobOrphanFound, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicBlobOrphanFound, msg)
}

// PublishOrphanSwept publishes mb.blob.orphan.swept after the sweeper
// removes an orphaned blob.
func PublishOrphanSwept(pub message.Publisher, payload OrphanSweptPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicBlobOrphanSwept, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicBlobOrphanSwept, msg)
}

// PublishStatsRecounted publishes mb.stats.recounted after aggregates
// are recomputed from records.
func PublishStatsRecounted(pub message.Publisher, payload StatsRecountedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicStatsRecounted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicStatsRecounted, msg)
}

// PublishBatchCompleted publishes mb.batch.completed with the batch summary.
func PublishBatchCompleted(pub message.Publisher, payload BatchCompletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicBatchCompleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicBatchCompleted, msg)
}
