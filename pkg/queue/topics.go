// Package queue defines the message topics and wildcard patterns used
// for publish/subscribe.
package queue

// Topic naming: mb.<domain>.<action>[.<state>].
// Domains: memory (stored files), blob (object storage), stats (aggregates),
// batch (multi-file uploads).
// States: requested, failed, and past-tense completion (stored/deleted/recounted).

const (
	// Memory lifecycle.
	TopicMemoryStored         = "mb.memory.stored"          // blob uploaded and metadata committed
	TopicMemoryDeleted        = "mb.memory.deleted"         // blob and metadata removed
	TopicMemoryPersistFailed  = "mb.memory.persist.failed"  // blob uploaded but metadata write failed (orphaned blob)
	TopicMemoryProcessDegrade = "mb.memory.process.degrade" // image processing failed, original stored as-is

	// Blob storage maintenance.
	TopicBlobOrphanFound = "mb.blob.orphan.found" // reconciliation found a blob with no record
	TopicBlobOrphanSwept = "mb.blob.orphan.swept" // orphaned blob removed by the sweeper

	// Aggregate maintenance.
	TopicStatsRecounted = "mb.stats.recounted" // user/folder aggregates recomputed from records

	// Batch uploads.
	TopicBatchCompleted = "mb.batch.completed" // batch finished, per-file outcomes attached
)

// Topic groups, for batch subscribe or access control.
var (
	MemoryTopics = []string{
		TopicMemoryStored, TopicMemoryDeleted,
		TopicMemoryPersistFailed, TopicMemoryProcessDegrade,
	}

	BlobTopics = []string{
		TopicBlobOrphanFound, TopicBlobOrphanSwept,
	}

	StatsTopics = []string{
		TopicStatsRecounted, TopicBatchCompleted,
	}
)
