package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Sessions are created by the account service; this API only reads them.
// Cookie and Redis layout follow express-session/connect-redis.
const (
	SessionCookieName  = "akaguri.sid"
	SessionRedisPrefix = "session:"
)

const (
	sessionIDLocal = "session_id"
	userLocal      = "user"
)

// SessionUser is the shape stored in the session under "user".
type SessionUser struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type sessionData struct {
	User *SessionUser `json:"user"`
}

// Session loads the session named by the cookie (or a Bearer token) from Redis
// and puts its user in Locals. With a secret, signed cookies whose signature
// does not match are ignored. Without one the session id itself is the bearer
// credential and the signature is only stripped.
func Session(rdb *redis.Client, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := sessionID(c, secret)
		c.Locals(sessionIDLocal, sid)
		if sid == "" || rdb == nil {
			return c.Next()
		}

		b, err := rdb.Get(c.UserContext(), SessionRedisPrefix+sid).Bytes()
		if err != nil {
			if err != redis.Nil {
				log.Error().Err(err).Str("trace_id", GetTraceID(c)).Msg("session lookup failed")
			}
			return c.Next()
		}
		var data sessionData
		if err := json.Unmarshal(b, &data); err == nil && data.User != nil && data.User.UserID != "" {
			c.Locals(userLocal, data.User)
		}
		return c.Next()
	}
}

func sessionID(c *fiber.Ctx, secret string) string {
	sid := c.Cookies(SessionCookieName)
	if sid == "" {
		if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
			sid = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		}
	}
	if strings.Contains(sid, "%") {
		if u, err := url.PathUnescape(sid); err == nil {
			sid = u
		}
	}
	if !strings.HasPrefix(sid, "s:") {
		return sid
	}
	return unsign(sid[2:], secret)
}

// unsign checks an express cookie-signature value "<id>.<base64 hmac-sha256>".
func unsign(signed, secret string) string {
	i := strings.LastIndex(signed, ".")
	if i < 0 {
		return ""
	}
	id, sig := signed[:i], signed[i+1:]
	if secret == "" {
		return id
	}
	if !hmac.Equal([]byte(sig), []byte(Sign(id, secret))) {
		return ""
	}
	return id
}

// Sign produces the express cookie-signature of id, without the "s:" prefix.
func Sign(id, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(id))
	return strings.TrimRight(base64.StdEncoding.EncodeToString(mac.Sum(nil)), "=")
}

// GetSessionID returns the session id the request presented, if any.
func GetSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(sessionIDLocal).(string)
	return sid
}
