// /internal/storage/storage.go
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"initial-bot/internal/logging"

	"github.com/keshon/datastore"
	"github.com/rs/zerolog"
)

const commandHistoryLimit int = 20

// directMessages keys history for commands sent outside any guild.
const directMessages = "dm"

type Storage struct {
	ds     *datastore.DataStore
	cancel context.CancelFunc
	mu     sync.Mutex
}

type CommandHistoryRecord struct {
	GuildID   string    `json:"guild_id"`
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Param     string    `json:"param"`
	Failed    bool      `json:"failed"`
	Datetime  time.Time `json:"datetime"`
}

type Record struct {
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
}

// New opens the datastore at filePath. Autosaving stops when ctx is done
// or Close is called, whichever comes first.
func New(ctx context.Context, filePath string, log zerolog.Logger) (*Storage, error) {
	ctx, cancel := context.WithCancel(ctx)
	ds, err := datastore.New(ctx, filePath,
		datastore.WithLogger(logging.Slog(log.With().Str("component", "datastore").Logger())),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open datastore %s: %w", filePath, err)
	}
	return &Storage{ds: ds, cancel: cancel}, nil
}

// Close stops autosaving and flushes the store to disk.
func (s *Storage) Close() error {
	s.cancel()
	return s.ds.Close()
}

func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	var record Record
	exists, err := s.ds.Get(guildKey(guildID), &record)
	if err != nil {
		return nil, fmt.Errorf("load guild record: %w", err)
	}
	if !exists || record.CommandsHistoryList == nil {
		record.CommandsHistoryList = []CommandHistoryRecord{}
	}

	if len(record.CommandsHistoryList) > commandHistoryLimit {
		record.CommandsHistoryList = record.CommandsHistoryList[len(record.CommandsHistoryList)-commandHistoryLimit:]
	}

	return &record, nil
}

// AppendCommandToHistory appends a command history record for a guild,
// keeping only the most recent entries.
func (s *Storage) AppendCommandToHistory(guildID string, command CommandHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.CommandsHistoryList = append(record.CommandsHistoryList, command)
	if len(record.CommandsHistoryList) > commandHistoryLimit {
		record.CommandsHistoryList = record.CommandsHistoryList[len(record.CommandsHistoryList)-commandHistoryLimit:]
	}
	if err := s.ds.Set(guildKey(guildID), record); err != nil {
		return fmt.Errorf("save guild record: %w", err)
	}
	return nil
}

func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}

	return record.CommandsHistoryList, nil
}

func guildKey(guildID string) string {
	if guildID == "" {
		return directMessages
	}
	return guildID
}
