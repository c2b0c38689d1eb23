// Package session carries the one-time notice queue between a redirecting
// request and the page it redirects to.
package session

import (
	"context"
	"database/sql"
	"encoding/gob"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/notice"
)

const (
	cookieName = "librarian_session"
	keyNotices = "notices"
)

func init() {
	gob.Register([]notice.Notice{})
}

// Manager wraps scs.SessionManager with the notice queue.
type Manager struct {
	*scs.SessionManager
}

// NewSQLiteManager keeps sessions in the catalog's SQLite database.
func NewSQLiteManager(sqlDB *sql.DB, cfg config.Session) (*Manager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	return newManager(sqlite3store.New(sqlDB), cfg), nil
}

// NewMemoryManager keeps sessions in process memory.
func NewMemoryManager(cfg config.Session) *Manager {
	return newManager(memstore.New(), cfg)
}

func newManager(store scs.Store, cfg config.Session) *Manager {
	sm := scs.New()
	sm.Store = store
	if cfg.Lifetime > 0 {
		sm.Lifetime = cfg.Lifetime
	}

	sm.Cookie.Name = cookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}
}

// AddNotice appends n to the queue shown by the next rendered page.
func (m *Manager) AddNotice(ctx context.Context, n notice.Notice) {
	queued, _ := m.Get(ctx, keyNotices).([]notice.Notice)
	m.Put(ctx, keyNotices, append(queued, n))
}

// PopNotices returns the queued notices in insertion order and clears them.
func (m *Manager) PopNotices(ctx context.Context) []notice.Notice {
	queued, _ := m.Pop(ctx, keyNotices).([]notice.Notice)
	return queued
}
