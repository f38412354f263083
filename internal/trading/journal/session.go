package journal

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

const dateLayout = "2006-01-02"

var runPattern = regexp.MustCompile(`^run_(\d+)$`)

// Session lays out the journal folders of one live run:
//
//	{root}/{YYYY-MM-DD}/run_N/
//
// N is fixed for the lifetime of the session; a new date folder is created
// with the same N when the loop crosses midnight UTC.
type Session struct {
	root      string
	runNumber int
	date      string
	path      string
	mu        sync.Mutex
	log       *logger.Logger
}

// NewSession creates a session rooted at root. Initialize picks the run number.
func NewSession(root string, log *logger.Logger) *Session {
	return &Session{
		root: root,
		log:  log.Named("session"),
	}
}

// Initialize selects the next free run number for the date of now and creates its folder.
func (s *Session) Initialize(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.date = now.UTC().Format(dateLayout)

	runs, err := s.listRuns(s.date)
	if err != nil {
		return err
	}

	s.runNumber = 1
	if len(runs) > 0 {
		s.runNumber = runNumber(runs[len(runs)-1]) + 1
	}

	if err := s.createFolder(); err != nil {
		return err
	}

	s.log.Info("Session initialized",
		zap.String("run_id", s.runID()),
		zap.String("date", s.date),
		zap.String("path", s.path),
	)

	return nil
}

// HandleDateBoundary switches to the folder of t's date. It reports whether the folder changed.
func (s *Session) HandleDateBoundary(t time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := t.UTC().Format(dateLayout)
	if date == s.date {
		return false, nil
	}

	previous := s.date
	s.date = date

	if err := s.createFolder(); err != nil {
		return false, err
	}

	s.log.Info("Date boundary crossed",
		zap.String("old_date", previous),
		zap.String("new_date", date),
		zap.String("path", s.path),
	)

	return true, nil
}

// RunID returns the run folder name, e.g. run_1.
func (s *Session) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.runID()
}

// Date returns the UTC date of the current folder.
func (s *Session) Date() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.date
}

// Path returns the current run folder.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.path
}

// FilePath returns the path of filename inside the current run folder.
func (s *Session) FilePath(filename string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return filepath.Join(s.path, filename)
}

// ListRuns returns the run folders of date ordered by run number.
func (s *Session) ListRuns(date string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.listRuns(date)
}

func (s *Session) runID() string {
	return fmt.Sprintf("run_%d", s.runNumber)
}

func (s *Session) createFolder() error {
	s.path = filepath.Join(s.root, s.date, s.runID())

	if err := os.MkdirAll(s.path, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeJournalFailed, "failed to create run folder", err)
	}

	return nil
}

func (s *Session) listRuns(date string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, date))
	if os.IsNotExist(err) {
		return []string{}, nil
	}

	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalFailed, "failed to read date directory", err)
	}

	runs := []string{}

	for _, entry := range entries {
		if entry.IsDir() && runPattern.MatchString(entry.Name()) {
			runs = append(runs, entry.Name())
		}
	}

	slices.SortFunc(runs, func(a, b string) int {
		return cmp.Compare(runNumber(a), runNumber(b))
	})

	return runs, nil
}

func runNumber(run string) int {
	matches := runPattern.FindStringSubmatch(run)
	if len(matches) != 2 {
		return 0
	}

	n, _ := strconv.Atoi(matches[1])

	return n
}
