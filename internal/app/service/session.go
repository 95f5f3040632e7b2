package service

import (
	"context"
	"errors"
	"sync"

	"github.com/propferry/route-search-gateway/internal/app/dto"
	"github.com/propferry/route-search-gateway/internal/pkg/exception"
)

// SessionState is the search lifecycle for one form session.
type SessionState string

const (
	StateIdle      SessionState = "idle"
	StateSearching SessionState = "searching"
	StateSuccess   SessionState = "success"
	StateEmpty     SessionState = "empty"
	StateError     SessionState = "error"
)

// Searcher resolves one submission into a search response.
type Searcher interface {
	SearchRoutes(ctx context.Context, req dto.SearchRequest) (dto.SearchResponse, error)
}

// Session owns one search form's state: the field values, the current
// result, and the lifecycle state. Only the most recent submission may
// commit its outcome; responses for superseded submissions are
// discarded via a monotonically increasing token.
type Session struct {
	searcher Searcher

	mu          sync.Mutex
	state       SessionState
	token       uint64
	origin      string
	destination string
	date        string
	result      *dto.SearchResponse
	errMessage  string
}

func NewSession(searcher Searcher) *Session {
	return &Session{
		searcher: searcher,
		state:    StateIdle,
	}
}

// SetOrigin, SetDestination and SetDate bind the form fields.
func (s *Session) SetOrigin(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.origin = code
}

func (s *Session) SetDestination(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destination = code
}

func (s *Session) SetDate(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.date = date
}

// Swap exchanges origin and destination. It is only a field mutation
// and never triggers a search.
func (s *Session) Swap() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.origin, s.destination = s.destination, s.origin
}

// Submit runs a search for the current form fields. The prior result is
// cleared immediately so stale itineraries are never shown next to a
// new date. If a newer submission lands while this one is in flight,
// this one's outcome is dropped and ErrStaleSubmission is returned.
func (s *Session) Submit(ctx context.Context) (SessionState, error) {
	s.mu.Lock()
	req := dto.SearchRequest{
		Origin:      s.origin,
		Destination: s.destination,
		Date:        s.date,
	}
	s.token++
	token := s.token
	s.state = StateSearching
	s.result = nil
	s.errMessage = ""
	s.mu.Unlock()

	resp, err := s.searcher.SearchRoutes(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.token {
		return s.state, ErrStaleSubmission
	}

	if err != nil {
		s.state = StateError
		s.errMessage = errorMessage(err)

		return s.state, nil
	}

	if len(resp.Result.Itineraries) == 0 {
		s.state = StateEmpty
	} else {
		s.state = StateSuccess
	}

	s.result = &resp

	return s.state, nil
}

// Snapshot returns the visible state for rendering: lifecycle state,
// the current result if any, and the error message if any.
func (s *Session) Snapshot() (SessionState, *dto.SearchResponse, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *dto.SearchResponse
	if s.result != nil {
		copied := *s.result
		result = &copied
	}

	return s.state, result, s.errMessage
}

// errorMessage prefers a structured server-supplied message and falls
// back to the generic one for network and protocol faults.
func errorMessage(err error) string {
	var appErr exception.ApplicationError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}

	return genericErrorMessage
}
