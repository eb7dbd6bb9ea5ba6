package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dhruvladia/career-coach-ai/types"
)

// HistoryStore archives the conversation so clients can reload past messages.
// It is an archive, not the source of truth: the workflow checkpoint carries
// the history the engine actually works with.
type HistoryStore interface {
	// Append records new conversation entries for a session.
	Append(ctx context.Context, sessionID string, entries []types.ChatEntry) error
	// Recent returns up to limit entries for a session, oldest first.
	Recent(ctx context.Context, sessionID string, limit int) ([]types.ChatEntry, error)
	// Close releases the backing store.
	Close() error
}

// MemoryHistoryStore keeps the archive in process memory.
type MemoryHistoryStore struct {
	mu      sync.RWMutex
	entries map[string][]types.ChatEntry
}

// NewMemoryHistoryStore creates an in-memory history archive.
func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{entries: make(map[string][]types.ChatEntry)}
}

// Append records new conversation entries.
func (s *MemoryHistoryStore) Append(ctx context.Context, sessionID string, entries []types.ChatEntry) error {
	s.mu.Lock()
	s.entries[sessionID] = append(s.entries[sessionID], entries...)
	s.mu.Unlock()
	return nil
}

// Recent returns up to limit entries, oldest first.
func (s *MemoryHistoryStore) Recent(ctx context.Context, sessionID string, limit int) ([]types.ChatEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.entries[sessionID]
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out := make([]types.ChatEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// Close is a no-op for the in-memory archive.
func (s *MemoryHistoryStore) Close() error { return nil }

// chatRecord is the SQLite row shape.
type chatRecord struct {
	ID        uint   `gorm:"primaryKey"`
	SessionID string `gorm:"index;size:64"`
	Role      string `gorm:"size:16"`
	Content   string
	Stage     string `gorm:"size:32"`
	CreatedAt time.Time
}

func (chatRecord) TableName() string { return "chat_history" }

// SQLiteHistoryStore archives the conversation in a SQLite database via GORM.
type SQLiteHistoryStore struct {
	db *gorm.DB
}

// NewSQLiteHistoryStore opens (or creates) the database and migrates the
// schema.
func NewSQLiteHistoryStore(path string) (*SQLiteHistoryStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, types.NewError(types.ErrStoreFailure, "failed to open history database").WithCause(err)
	}
	if err := db.AutoMigrate(&chatRecord{}); err != nil {
		return nil, types.NewError(types.ErrStoreFailure, "failed to migrate history schema").WithCause(err)
	}
	return &SQLiteHistoryStore{db: db}, nil
}

// Append records new conversation entries.
func (s *SQLiteHistoryStore) Append(ctx context.Context, sessionID string, entries []types.ChatEntry) error {
	if len(entries) == 0 {
		return nil
	}
	records := make([]chatRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, chatRecord{
			SessionID: sessionID,
			Role:      string(e.Role),
			Content:   e.Content,
			Stage:     e.Stage,
		})
	}
	if err := s.db.WithContext(ctx).Create(&records).Error; err != nil {
		return types.NewError(types.ErrStoreFailure, "failed to append history").WithCause(err)
	}
	return nil
}

// Recent returns up to limit entries, oldest first.
func (s *SQLiteHistoryStore) Recent(ctx context.Context, sessionID string, limit int) ([]types.ChatEntry, error) {
	q := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var records []chatRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, types.NewError(types.ErrStoreFailure, "failed to load history").WithCause(err)
	}

	// Rows come back newest first; flip to chronological order.
	out := make([]types.ChatEntry, len(records))
	for i, r := range records {
		out[len(records)-1-i] = types.ChatEntry{
			Role:    types.Role(r.Role),
			Content: r.Content,
			Stage:   r.Stage,
		}
	}
	return out, nil
}

// Close releases the underlying connection pool.
func (s *SQLiteHistoryStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var (
	_ HistoryStore = (*MemoryHistoryStore)(nil)
	_ HistoryStore = (*SQLiteHistoryStore)(nil)
)
