// Package session keeps the per-browser download counters shown in the stats panel.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	xlog "github.com/ytget/yt-webui/internal/log"
	"github.com/ytget/yt-webui/internal/model"
)

// CookieName is the cookie carrying the session ID
const CookieName = "ytwebui_session"

// DefaultMaxAge is how long an idle session is kept
const DefaultMaxAge = 24 * time.Hour

// Stats is the per-session summary rendered by the page
type Stats struct {
	Downloads   int    `json:"downloads"`
	Attempts    int    `json:"attempts"`
	SuccessRate string `json:"success_rate"`
}

type entry struct {
	downloads int
	attempts  int
	lastSeen  time.Time
}

// Counter counts download attempts and successes per session
type Counter struct {
	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time
}

// NewCounter creates an empty counter
func NewCounter() *Counter {
	return &Counter{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

func (c *Counter) get(id string) *entry {
	e, ok := c.sessions[id]
	if !ok {
		e = &entry{}
		c.sessions[id] = e
	}
	e.lastSeen = c.now()
	return e
}

// Record counts one finished download attempt and returns the updated stats
func (c *Counter) Record(id string, success bool) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.get(id)
	e.attempts++
	if success {
		e.downloads++
	}
	return e.stats()
}

// Stats returns the current stats of a session
func (c *Counter) Stats(id string) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.sessions[id]
	if !ok {
		return (&entry{}).stats()
	}
	return e.stats()
}

// Len returns the number of tracked sessions
func (c *Counter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// Prune drops sessions idle for longer than maxAge and returns how many were removed
func (c *Counter) Prune(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-maxAge)
	removed := 0
	for id, e := range c.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(c.sessions, id)
			removed++
		}
	}
	return removed
}

func (e *entry) stats() Stats {
	return Stats{
		Downloads:   e.downloads,
		Attempts:    e.attempts,
		SuccessRate: SuccessRate(e.downloads, e.attempts),
	}
}

// SuccessRate renders downloads/attempts as a percentage. A session without
// attempts reports 100%.
func SuccessRate(downloads, attempts int) string {
	if attempts <= 0 {
		return "100%"
	}
	return model.FormatPercent(float64(downloads) / float64(attempts))
}

// ID returns the session ID of the request, issuing a new cookie when absent
func ID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(DefaultMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Middleware makes sure every request carries a session ID in its context
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ID(w, r)
		next.ServeHTTP(w, r.WithContext(xlog.ContextWithSessionID(r.Context(), id)))
	})
}

// FromRequest returns the session ID placed in the context by Middleware
func FromRequest(r *http.Request) string {
	return xlog.SessionIDFromContext(r.Context())
}
