package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smartcafe/cafeteria-portal/pkg/session"
)

const (
	// SessionContextKey holds the request's *session.Session
	SessionContextKey = "session"
	storeContextKey   = "session_store"
)

// SessionStore moves sessions between the cookie and the request context
type SessionStore struct {
	codec      *session.Codec
	cookieName string
	secure     bool
	logger     *logrus.Logger
}

// NewSessionStore creates a cookie session store
func NewSessionStore(codec *session.Codec, cookieName string, secure bool, logger *logrus.Logger) *SessionStore {
	return &SessionStore{
		codec:      codec,
		cookieName: cookieName,
		secure:     secure,
		logger:     logger,
	}
}

// LoadSession decodes the session cookie into the context. A missing, expired
// or tampered cookie starts an empty session.
func LoadSession(store *SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.New()
		if token, err := c.Cookie(store.cookieName); err == nil && token != "" {
			decoded, err := store.codec.Decode(token)
			if err != nil {
				store.logger.WithField("path", c.Request.URL.Path).WithError(err).Debug("Discarding session cookie")
			} else {
				sess = decoded
			}
		}

		c.Set(SessionContextKey, sess)
		c.Set(storeContextKey, store)
		c.Next()
	}
}

// GetSession returns the request's session, creating an empty one if
// LoadSession did not run
func GetSession(c *gin.Context) *session.Session {
	if value, exists := c.Get(SessionContextKey); exists {
		if sess, ok := value.(*session.Session); ok {
			return sess
		}
	}
	sess := session.New()
	c.Set(SessionContextKey, sess)
	return sess
}

// SaveSession writes the request's session back to the cookie
func SaveSession(c *gin.Context) error {
	value, exists := c.Get(storeContextKey)
	if !exists {
		return errors.New("session store not loaded")
	}
	store := value.(*SessionStore)

	token, err := store.codec.Encode(GetSession(c))
	if err != nil {
		store.logger.WithError(err).Error("Failed to encode session")
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(store.cookieName, token, int(store.codec.MaxAge().Seconds()), "/", "", store.secure, true)
	return nil
}
