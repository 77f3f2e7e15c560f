package configs

import "github.com/spf13/viper"

// EventsConfig controls event publication, globally and per topic group.
type EventsConfig struct {
	Enabled bool               `mapstructure:"enabled"` // master switch
	Memory  MemoryEventsConfig `mapstructure:"memory"`
}

// MemoryEventsConfig toggles memory-domain events.
type MemoryEventsConfig struct {
	Stored          bool `mapstructure:"stored"`
	Deleted         bool `mapstructure:"deleted"`
	PersistFailed   bool `mapstructure:"persist_failed"`
	ProcessDegraded bool `mapstructure:"process_degraded"`
	StatsRecounted  bool `mapstructure:"stats_recounted"`
	BatchCompleted  bool `mapstructure:"batch_completed"`
	OrphanFound     bool `mapstructure:"orphan_found"`
	OrphanSwept     bool `mapstructure:"orphan_swept"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("events.enabled", true)

	// Stored/deleted and the persist-failed (orphaned blob) signal are the
	// minimum operators need; the rest is opt-in.
	v.SetDefault("events.memory.stored", true)
	v.SetDefault("events.memory.deleted", true)
	v.SetDefault("events.memory.persist_failed", true)

	v.SetDefault("events.memory.batch_completed", true)
	v.SetDefault("events.memory.orphan_swept", true)

	v.SetDefault("events.memory.process_degraded", false)
	v.SetDefault("events.memory.stats_recounted", false)
	v.SetDefault("events.memory.orphan_found", false)
}
