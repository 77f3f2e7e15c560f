// Package storage aggregates the backing stores: blob storage,
// database, message queue, and key-value cache.
//
// Example:
//
//	ctx := context.Background()
//	mgr, err := storage.Init(ctx)
//	if err != nil {
//	    // handle error
//	}
//
//	s3Client := mgr.GetS3Client()
//	dbClient := mgr.GetDBClient()
package storage

import (
	"context"
	"sync"

	dbc "github.com/eduardoinoa18/memorybox/pkg/internal/storage/db"
	kvc "github.com/eduardoinoa18/memorybox/pkg/internal/storage/kv"
	mqc "github.com/eduardoinoa18/memorybox/pkg/internal/storage/mq"
	s3c "github.com/eduardoinoa18/memorybox/pkg/internal/storage/s3"
	nlog "github.com/eduardoinoa18/memorybox/pkg/log"
)

// Manager aggregates all storage resources.
type Manager struct {
	S3 *s3c.Client
	DB *dbc.Client
	MQ *mqc.Client
	KV *kvc.Client
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init initializes the default storage from the global config.
// Repeated calls return the already-initialized instance.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		m := &Manager{}

		if dbi, e := dbc.New(ctx); e != nil {
			err = e
			return
		} else {
			m.DB = dbi
		}

		if s3i, e := s3c.New(ctx); e != nil {
			err = e
			return
		} else {
			m.S3 = s3i
		}

		if mqi, e := mqc.New(ctx); e != nil {
			err = e
			return
		} else {
			m.MQ = mqi
		}

		if kvi, e := kvc.NewKVClient(ctx); e != nil {
			err = e
			return
		} else {
			m.KV = kvi
		}

		mgr = m

		nlog.Logger().Info().Msg("storage manager initialized")
	})

	return mgr, err
}

// GetS3Client returns the blob storage client.
func (m *Manager) GetS3Client() *s3c.Client {
	return m.S3
}

// GetDBClient returns the database client.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetMQClient returns the message queue client.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// GetKVClient returns the key-value client.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// Close releases all storage resources.
func (m *Manager) Close() error {
	var err error

	if m.MQ != nil {
		if e := m.MQ.Close(); e != nil {
			err = e
		}
	}

	if m.KV != nil {
		if e := m.KV.Close(); e != nil {
			err = e
		}
	}

	if m.S3 != nil {
		if e := m.S3.Close(); e != nil {
			err = e
		}
	}

	if m.DB != nil {
		if sqlDB, e := m.DB.DB.DB(); e == nil {
			if e := sqlDB.Close(); e != nil {
				err = e
			}
		}
	}

	return err
}
