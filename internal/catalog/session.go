package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ehub-epfl/founders-explorer-api/internal/models"
)

// ViewMode selects how fetched rows are presented.
type ViewMode string

const (
	ViewList ViewMode = "list"
	ViewGrid ViewMode = "grid"
)

// SearchResult is one page of course rows plus the unpaginated total.
type SearchResult struct {
	Items []models.Course
	Total int
}

// CourseSource is the remote course query collaborator.
type CourseSource interface {
	Search(ctx context.Context, filter FilterSet, sort SortSpec, page, pageSize int) (SearchResult, error)
}

// Fetch is a snapshot of the parameters for one remote search, stamped with
// a monotonically increasing sequence number. Responses commit in issue
// order only: a commit whose sequence is not the latest issued is discarded,
// so a slow stale response can never overwrite a newer one.
type Fetch struct {
	Seq      uint64
	Filter   FilterSet
	Sort     SortSpec
	Page     int
	PageSize int
}

// Session owns the listing view state: the draft/applied filter machine,
// paging, sort, view mode, Pareto preference, and the lifecycle of remote
// fetches. All mutation goes through the session, which serializes access
// internally; a closed session never commits another result.
type Session struct {
	mu sync.Mutex

	state    State
	page     int
	pageSize int
	sort     SortSpec
	view     ViewMode
	pref     Preference

	source CourseSource
	logger *zap.Logger

	seq    uint64
	closed bool

	rows    []models.Course
	total   int
	lastErr error
}

// NewSession creates a list-view session with default paging.
func NewSession(source CourseSource, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		state:    NewState(),
		page:     1,
		pageSize: 20,
		view:     ViewList,
		pref:     DefaultPreference,
		source:   source,
		logger:   logger,
	}
}

// Edit runs a transition against the filter state machine. Instant edits and
// ApplyQuery reset paging to the first page.
func (s *Session) Edit(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.state.Applied
	fn(&s.state)
	if !s.state.Applied.Equal(before) {
		s.page = 1
	}
}

// Filter returns the applied filter snapshot.
func (s *Session) Filter() FilterSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Applied
}

// SetPage moves to the given page (1-based).
func (s *Session) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = 1
	}
	s.page = page
}

// SetPageSize changes the page size and resets to the first page.
func (s *Session) SetPageSize(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if size > 0 {
		s.pageSize = size
		s.page = 1
	}
}

// SetSort changes the primary sort and resets to the first page.
func (s *Session) SetSort(spec SortSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = spec
	s.page = 1
}

// SetView switches between list and grid presentation.
func (s *Session) SetView(view ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if view == ViewList || view == ViewGrid {
		s.view = view
	}
}

// SetPreference changes the Pareto objective directions.
func (s *Session) SetPreference(pref Preference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pref = pref
}

// NextFetch stamps and returns the parameters for the next remote search.
func (s *Session) NextFetch() Fetch {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return Fetch{
		Seq:      s.seq,
		Filter:   s.state.Applied,
		Sort:     s.sort,
		Page:     s.page,
		PageSize: s.pageSize,
	}
}

// Run executes a fetch against the source and commits the outcome. It is a
// convenience over NextFetch/Commit for callers driving the session
// synchronously.
func (s *Session) Run(ctx context.Context) bool {
	fetch := s.NextFetch()
	result, err := s.source.Search(ctx, fetch.Filter, fetch.Sort, fetch.Page, fetch.PageSize)
	return s.Commit(fetch.Seq, result, err)
}

// Commit applies a fetch outcome. Stale sequences and commits after Close
// are discarded. A failed fetch keeps the previous rows and records the
// error for display.
func (s *Session) Commit(seq uint64, result SearchResult, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	if seq != s.seq {
		s.logger.Debug("discarding stale search response",
			zap.Uint64("seq", seq), zap.Uint64("latest", s.seq))
		return false
	}

	if err != nil {
		s.lastErr = err
		return false
	}

	s.lastErr = nil
	s.rows = result.Items
	s.total = result.Total
	return true
}

// Rows returns the current page ordered for the active view: the multi-key
// sort in list view, Pareto ranks attached in grid view.
func (s *Session) Rows() []models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]models.Course, len(s.rows))
	copy(rows, s.rows)

	if s.view == ViewGrid {
		return RankCourses(rows, s.pref)
	}
	SortCourses(rows, s.sort)
	return rows
}

// Total returns the unpaginated result count from the last committed fetch.
func (s *Session) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Err returns the user-visible error from the last fetch, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close tears the session down; subsequent commits are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
