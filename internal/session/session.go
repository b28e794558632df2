// Package session keeps the page controller mounted for each browser session.
// A session shows one page at a time; navigating elsewhere unmounts the
// previous controller and its state is discarded.
package session

import (
	"sync"
	"time"
)

const CookieName = "hrms_session"

// Page is a mounted page controller.
type Page interface {
	Close()
}

type Session struct {
	ID string

	mu       sync.Mutex
	name     string
	page     Page
	lastSeen time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, lastSeen: now}
}

// Mount returns the controller for name, building and mounting a new one when
// another page (or none) is active. fresh reports whether build ran.
func (s *Session) Mount(name string, build func() Page) (page Page, fresh bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page != nil && s.name == name {
		return s.page, false
	}
	return s.replace(name, build()), true
}

// Remount always discards the current controller, as a fresh navigation does.
func (s *Session) Remount(name string, build func() Page) Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replace(name, build())
}

// Active reports the name of the mounted page.
func (s *Session) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *Session) replace(name string, page Page) Page {
	if s.page != nil {
		s.page.Close()
	}
	s.name = name
	s.page = page
	return page
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page != nil {
		s.page.Close()
		s.page = nil
		s.name = ""
	}
}
