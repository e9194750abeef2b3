// Package session keeps the browser login in a server-side Fiber session
// and logs it out after a period of inactivity.
package session

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	keyUserID       = "user_id"
	keyLastActivity = "last_activity"
	keyFlash        = "flash"

	// LocExpired is set on requests whose session just timed out.
	LocExpired = "session_expired"
)

type Config struct {
	CookieName  string
	Secure      bool
	IdleTimeout time.Duration
}

type Manager struct {
	Store       *session.Store
	IdleTimeout time.Duration
	Now         func() time.Time
}

func NewManager(cfg Config) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = "library_session"
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	store := session.New(session.Config{
		Expiration:     24 * time.Hour,
		KeyLookup:      "cookie:" + cfg.CookieName,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Secure,
		CookieSameSite: "Lax",
	})
	return &Manager{Store: store, IdleTimeout: cfg.IdleTimeout, Now: time.Now}
}

func (m *Manager) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

// Middleware checks the idle timer of a logged-in session and refreshes it.
// An expired session is destroyed and the request continues anonymously.
func (m *Manager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := m.Store.Get(c)
		if err != nil {
			log.Printf("[WARN] session load failed: %v", err)
			return c.Next()
		}
		if sess.Get(keyUserID) == nil {
			return c.Next()
		}

		now := m.now()
		last, _ := sess.Get(keyLastActivity).(int64)
		if last != 0 && now.Sub(time.Unix(last, 0)) > m.IdleTimeout {
			if err := sess.Destroy(); err != nil {
				log.Printf("[WARN] session destroy failed: %v", err)
			}
			c.Locals(LocExpired, true)
			return c.Next()
		}

		sess.Set(keyLastActivity, now.Unix())
		if err := sess.Save(); err != nil {
			log.Printf("[WARN] session save failed: %v", err)
		}
		return c.Next()
	}
}

// Login binds userID to a fresh session id.
func (m *Manager) Login(c *fiber.Ctx, userID uint) error {
	sess, err := m.Store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(keyUserID, userID)
	sess.Set(keyLastActivity, m.now().Unix())
	return sess.Save()
}

func (m *Manager) Logout(c *fiber.Ctx) error {
	sess, err := m.Store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// UserID returns the logged-in user of the request, if any.
func (m *Manager) UserID(c *fiber.Ctx) (uint, bool) {
	if expired, _ := c.Locals(LocExpired).(bool); expired {
		return 0, false
	}
	sess, err := m.Store.Get(c)
	if err != nil {
		return 0, false
	}
	id, ok := sess.Get(keyUserID).(uint)
	return id, ok && id != 0
}

// Flash stores a one-shot message for the next page.
func (m *Manager) Flash(c *fiber.Ctx, msg string) {
	sess, err := m.Store.Get(c)
	if err != nil {
		return
	}
	sess.Set(keyFlash, msg)
	if err := sess.Save(); err != nil {
		log.Printf("[WARN] flash save failed: %v", err)
	}
}

// PopFlash returns and clears the pending message.
func (m *Manager) PopFlash(c *fiber.Ctx) string {
	sess, err := m.Store.Get(c)
	if err != nil {
		return ""
	}
	msg, _ := sess.Get(keyFlash).(string)
	if msg == "" {
		return ""
	}
	sess.Delete(keyFlash)
	if err := sess.Save(); err != nil {
		log.Printf("[WARN] flash save failed: %v", err)
	}
	return msg
}
