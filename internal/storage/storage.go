package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/volby-scraper/internal/election"
)

// Snapshot is the raw output of one run against an index page
type Snapshot struct {
	IndexURL  string  `json:"index_url"`
	UpdatedAt string  `json:"updated_at"`
	Locations []Entry `json:"locations"`
}

// Entry is a location record with its fetch error kept as text
type Entry struct {
	election.LocationRecord
	Error string `json:"error,omitempty"`
}

// Storage handles persistence of run snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// SnapshotPath returns the file that holds the snapshot for indexURL
func (s *Storage) SnapshotPath(indexURL string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(indexURL)))
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%s.json", hex.EncodeToString(sum[:6])))
}

// SaveSnapshot writes records for indexURL, replacing any earlier snapshot
func (s *Storage) SaveSnapshot(indexURL string, records []election.LocationRecord) error {
	snapshot := Snapshot{
		IndexURL:  indexURL,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		Locations: make([]Entry, 0, len(records)),
	}
	for _, rec := range records {
		entry := Entry{LocationRecord: rec}
		if rec.Err != nil {
			entry.Error = rec.Err.Error()
		}
		snapshot.Locations = append(snapshot.Locations, entry)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(s.SnapshotPath(indexURL), data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// LoadSnapshot reads the records saved for indexURL, in the order they were
// saved. A missing snapshot is reported as an error wrapping os.ErrNotExist.
func (s *Storage) LoadSnapshot(indexURL string) ([]election.LocationRecord, error) {
	path := s.SnapshotPath(indexURL)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no snapshot for %s: %w", indexURL, err)
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	records := make([]election.LocationRecord, 0, len(snapshot.Locations))
	for _, entry := range snapshot.Locations {
		rec := entry.LocationRecord
		if rec.Parties == nil {
			rec.Parties = make([]election.PartyResult, 0)
		}
		if entry.Error != "" {
			rec.Err = errors.New(entry.Error)
		}
		records = append(records, rec)
	}

	return records, nil
}
