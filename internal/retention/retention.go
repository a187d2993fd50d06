// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retention derives pseudonymous student tokens for logging and
// purges staged artifacts after the retention window. The purge is a
// one-shot in-process timer: it fires only if the host process is still
// alive at the scheduled instant, and pending jobs do not survive a
// restart.
package retention

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/scoreazy/report-engine/internal/logging"
	"github.com/scoreazy/report-engine/pkg/types"
)

// pseudonymBytes is the truncated digest width of a pseudonym token.
const pseudonymBytes = 4

// Pseudonymize derives the logging token for a student identifier: a keyed
// blake2b digest of identifier+salt, truncated, uppercased, and prefixed
// with "S". One-way; the system never reverses it.
func Pseudonymize(studentID, salt string) string {
	h, err := blake2b.New(pseudonymBytes, nil)
	if err != nil {
		// Unreachable for a valid size and nil key.
		panic(err)
	}
	h.Write([]byte(studentID + salt))
	return "S" + strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}

// Scheduler owns the deferred purge of the staging directories.
type Scheduler struct {
	log  *logging.Logger
	cfg  types.RetentionConfig
	dirs []string

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}

	// now is swapped in tests.
	now func() time.Time
}

// NewScheduler builds a Scheduler over the working directories.
func NewScheduler(cfg types.RetentionConfig, workDirs []string, log *logging.Logger) *Scheduler {
	return &Scheduler{
		log:  log.With("component", "retention"),
		cfg:  cfg,
		dirs: append([]string(nil), workDirs...),
		now:  time.Now,
	}
}

// ScheduleDeletion registers the one-shot purge at the given instant. At
// most one job is held at a time; scheduling again replaces the pending
// job.
func (s *Scheduler) ScheduleDeletion(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.done = make(chan struct{})
	done := s.done
	s.timer = time.AfterFunc(time.Until(at), func() {
		if err := s.Purge(); err != nil {
			s.log.Error("scheduled purge finished with errors", "error", err)
		}
		close(done)
	})
	s.log.Info("scheduled data deletion", "at", at.UTC().Format(time.RFC3339))
}

// Wait blocks until the pending purge has fired. It returns immediately
// when nothing is scheduled.
func (s *Scheduler) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Purge clears every working directory and recreates it empty, then appends
// a timestamped line to the deletion log. A directory that fails to clear
// is logged and does not stop the others.
func (s *Scheduler) Purge() error {
	s.log.Info("initiating data cleanup")

	var failed int
	for _, dir := range s.dirs {
		if err := clearDirectory(dir); err != nil {
			s.log.Error("error cleaning directory", "dir", dir, "error", err)
			failed++
			continue
		}
		s.log.Info("cleaned directory", "dir", dir)
	}

	if err := s.appendDeletionLog(); err != nil {
		s.log.Error("writing deletion log", "error", err)
		failed++
	}

	if failed > 0 {
		return fmt.Errorf("cleanup completed with %d failure(s)", failed)
	}
	s.log.Info("data cleanup completed")
	return nil
}

// clearDirectory removes dir recursively and recreates it empty. A missing
// directory is recreated, not an error.
func clearDirectory(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// appendDeletionLog appends one audit line to the append-only deletion log.
func (s *Scheduler) appendDeletionLog() error {
	f, err := os.OpenFile(s.cfg.DeletionLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "Data cleaned at %s\n", s.now().UTC().Format(time.RFC3339))
	return err
}
