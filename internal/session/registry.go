package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultTTL = 30 * time.Minute

type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewRegistry(ttl time.Duration, logger ...*zap.Logger) *Registry {
	l := zap.L().Named("session.registry")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.registry")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   l,
	}
}

// Resolve returns the live session for id, or a new one when id is unknown
// or expired. created reports the latter.
func (r *Registry) Resolve(id string) (s *Session, created bool) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok && s.idleSince(now) < r.ttl {
		s.touch(now)
		return s, false
	}

	s = newSession(uuid.NewString(), now)
	r.sessions[s.ID] = s
	return s, true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep unmounts and forgets sessions idle for longer than the TTL.
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.idleSince(now) >= r.ttl {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done, then unmounts everything.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("expired sessions swept", zap.Int("count", n))
			}
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range all {
		s.close()
	}
}
