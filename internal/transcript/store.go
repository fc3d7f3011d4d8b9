// Package transcript persists per-month chat transcripts. One JSON
// file per month key holds the ordered message array; absent or
// malformed content degrades to an empty transcript, never an error.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/finassist/dashboard-bff-go/internal/domain"

	"go.uber.org/zap"
)

// FileStore keeps one transcript file per month key under dir.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates the store, creating dir if needed. A directory
// that cannot be created is not fatal: reads degrade to empty and
// writes become best-effort no-ops, per the persistence contract.
func NewFileStore(dir string, logger *zap.Logger) *FileStore {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("transcript: cannot create store directory, persistence disabled",
			zap.String("dir", dir),
			zap.Error(err),
		)
	}
	return &FileStore{dir: dir, logger: logger}
}

// Load reads the transcript for a month key. Missing file, unreadable
// file, or content that is not a JSON message array all yield an empty
// transcript and a nil error — corruption is never surfaced.
func (s *FileStore) Load(month string) []domain.ChatMessage {
	raw, err := os.ReadFile(s.path(month))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("transcript: read failed, starting empty",
				zap.String("month", month),
				zap.Error(err),
			)
		}
		return []domain.ChatMessage{}
	}

	var msgs []domain.ChatMessage
	if err := json.Unmarshal(raw, &msgs); err != nil {
		s.logger.Warn("transcript: malformed content, starting empty",
			zap.String("month", month),
			zap.Error(err),
		)
		return []domain.ChatMessage{}
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	return msgs
}

// Save persists the full transcript for a month key. Crash safety:
// the file is written to a temp name first and renamed into place so
// a partial write never corrupts the previous transcript. Failures
// are logged and swallowed; the in-memory transcript stays
// authoritative for the session.
func (s *FileStore) Save(month string, msgs []domain.ChatMessage) {
	data, err := json.Marshal(msgs)
	if err != nil {
		s.logger.Warn("transcript: marshal failed", zap.String("month", month), zap.Error(err))
		return
	}

	path := s.path(month)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.logger.Warn("transcript: write failed", zap.String("month", month), zap.Error(err))
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		s.logger.Warn("transcript: rename failed", zap.String("month", month), zap.Error(err))
		_ = os.Remove(tmp)
	}
}

// Delete erases the persisted entry for a month key, best-effort.
func (s *FileStore) Delete(month string) {
	if err := os.Remove(s.path(month)); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("transcript: delete failed", zap.String("month", month), zap.Error(err))
	}
}

// path derives the file name from the month key, keeping it safe for
// the filesystem even if a caller passes something odd.
func (s *FileStore) path(month string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-':
			return r
		default:
			return '_'
		}
	}, month)
	return filepath.Join(s.dir, fmt.Sprintf("chat-%s.json", safe))
}
