package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakePage struct {
	closed bool
}

func (p *fakePage) Close() { p.closed = true }

func TestSession_MountReusesSamePage(t *testing.T) {
	s := newSession("s1", time.Now())
	builds := 0
	build := func() Page { builds++; return &fakePage{} }

	first, fresh := s.Mount("employees", build)
	assert.True(t, fresh)

	again, fresh := s.Mount("employees", build)
	assert.False(t, fresh)
	assert.Same(t, first, again)
	assert.Equal(t, 1, builds)
}

func TestSession_NavigationUnmountsPrevious(t *testing.T) {
	s := newSession("s1", time.Now())

	emp, _ := s.Mount("employees", func() Page { return &fakePage{} })
	att, fresh := s.Mount("attendance", func() Page { return &fakePage{} })

	assert.True(t, fresh)
	assert.True(t, emp.(*fakePage).closed)
	assert.False(t, att.(*fakePage).closed)
	assert.Equal(t, "attendance", s.Active())

	again := s.Remount("attendance", func() Page { return &fakePage{} })
	assert.NotSame(t, att, again)
	assert.True(t, att.(*fakePage).closed)
}

func TestRegistry_ResolveAndSweep(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	r := NewRegistry(10*time.Minute, zap.NewNop())
	r.now = func() time.Time { return now }

	s, created := r.Resolve("")
	assert.True(t, created)
	page, _ := s.Mount("dashboard", func() Page { return &fakePage{} })

	same, created := r.Resolve(s.ID)
	assert.False(t, created)
	assert.Same(t, s, same)

	now = now.Add(11 * time.Minute)
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 0, r.Len())
	assert.True(t, page.(*fakePage).closed)

	_, created = r.Resolve(s.ID)
	assert.True(t, created)
}
