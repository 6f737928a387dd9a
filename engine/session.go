package engine

import (
	"github.com/chrisuehlinger/vibeshell/host"
	"github.com/chrisuehlinger/vibeshell/storage"
)

// persistPrefix marks partitions whose data outlives the process.
const persistPrefix = "persist:"

// SessionOptions configures a Session.
type SessionOptions struct {
	ID      string
	Persist bool
	Cache   bool
	// Storage backs app-level state for the session. A nil Storage gets an
	// in-memory provider.
	Storage storage.Provider
}

// Session binds a named storage partition to the views created with it.
type Session struct {
	id        string
	persist   bool
	cache     bool
	storage   storage.Provider
	partition host.Partition
}

// PartitionName returns the partition name used for a session id.
func PartitionName(id string, persist bool) string {
	if persist {
		return persistPrefix + id
	}
	return id
}

// NewSession resolves the session's partition through sh, creating it on
// first use.
func NewSession(sh host.SessionHost, opts SessionOptions) (*Session, error) {
	if opts.ID == "" {
		return nil, newError(ErrInvalidOptions, "session id is required")
	}
	p, err := sh.FromPartition(PartitionName(opts.ID, opts.Persist), host.PartitionOptions{
		Persist: opts.Persist,
		Cache:   opts.Cache,
	})
	if err != nil {
		return nil, err
	}
	if opts.Storage == nil {
		opts.Storage = storage.NewMemory()
	}
	return &Session{
		id:        opts.ID,
		persist:   opts.Persist,
		cache:     opts.Cache,
		storage:   opts.Storage,
		partition: p,
	}, nil
}

func (s *Session) ID() string { return s.id }
func (s *Session) Persist() bool { return s.persist }
func (s *Session) Cache() bool { return s.cache }
func (s *Session) Storage() storage.Provider { return s.storage }
func (s *Session) Partition() host.Partition { return s.partition }

// hostPartition tolerates a nil session, meaning the host's default partition.
func (s *Session) hostPartition() host.Partition {
	if s == nil {
		return nil
	}
	return s.partition
}
