package wal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aokimura/chatplaza/pkg/logger"
	"go.uber.org/zap"
)

// Entry is one journaled chat post.
type Entry struct {
	EntryID   string    `json:"entry_id"`
	UserID    string    `json:"user_id"`
	RoomID    uint      `json:"room_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// WAL is an append-only JSON-lines journal of chat posts. Every post is
// written and fsynced here before it reaches the database, so posts that
// were accepted but not yet persisted can be recovered after a crash.
type WAL struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

func New(filePath string) (*WAL, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &WAL{
		filePath: filePath,
		file:     file,
	}, nil
}

// Write appends an entry and syncs it to disk.
func (w *WAL) Write(entry Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("WAL: failed to marshal entry",
			zap.String("entry_id", entry.EntryID),
			zap.Error(err),
		)
		return err
	}

	if _, err := w.file.WriteString(string(data) + "\n"); err != nil {
		logger.Log.Error("WAL: failed to write entry",
			zap.String("entry_id", entry.EntryID),
			zap.Error(err),
		)
		return err
	}

	// Force sync to disk (durability)
	if err := w.file.Sync(); err != nil {
		logger.Log.Error("WAL: failed to sync to disk",
			zap.String("entry_id", entry.EntryID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// ReadAll reads every entry currently in the journal.
func (w *WAL) ReadAll() ([]Entry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.readAllUnsafe()
}

// Cleanup drops entries whose IDs have been persisted to the database,
// rewriting the journal atomically via a temp file.
func (w *WAL) Cleanup(persistedIDs []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	allEntries, err := w.readAllUnsafe()
	if err != nil {
		return err
	}

	persisted := make(map[string]bool, len(persistedIDs))
	for _, id := range persistedIDs {
		persisted[id] = true
	}

	var remaining []Entry
	for _, entry := range allEntries {
		if !persisted[entry.EntryID] {
			remaining = append(remaining, entry)
		}
	}

	if err := w.file.Close(); err != nil {
		return err
	}

	tempFile := w.filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	for _, entry := range remaining {
		data, _ := json.Marshal(entry)
		f.WriteString(string(data) + "\n")
	}

	f.Sync()
	f.Close()

	if err := os.Rename(tempFile, w.filePath); err != nil {
		return err
	}

	// Reopen with the same flags so subsequent writes keep appending
	newFile, err := os.OpenFile(w.filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	w.file = newFile

	logger.Log.Info("WAL: cleanup completed",
		zap.Int("before_count", len(allEntries)),
		zap.Int("remaining_count", len(remaining)),
	)

	return nil
}

func (w *WAL) readAllUnsafe() ([]Entry, error) {
	file, err := os.Open(w.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

// Close closes the journal file.
func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
