package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/rubisha/heartsite/internal/session"
)

// playerTokenTTL is how long an identity cookie stays valid.
const playerTokenTTL = 180 * 24 * time.Hour

// ctxPlayerKey is the context key type for storing *session.Player.
type ctxPlayerKey struct{}

// playerFrom returns the player attached by withPlayer.
func playerFrom(r *http.Request) *session.Player {
	p, _ := r.Context().Value(ctxPlayerKey{}).(*session.Player)
	return p
}

// withPlayer resolves the caller's player from the identity token and
// attaches it to the request context. Callers without a valid token get
// a new player and a fresh cookie.
func (s *Server) withPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := s.playerIDFromToken(bearerOrCookie(r, s.opts.CookieName))
		if id == "" {
			id = session.NewID()
			if err := s.issueToken(w, id); err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("sign player token")
				writeError(w, http.StatusInternalServerError, "sign_failed")
				return
			}
		}

		p, err := s.loadPlayer(r.Context(), id)
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Str("player", id).Msg("load player")
			writeError(w, http.StatusInternalServerError, "player_unavailable")
			return
		}
		ctx := context.WithValue(r.Context(), ctxPlayerKey{}, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loadPlayer returns the live player for id, creating it on first use.
func (s *Server) loadPlayer(ctx context.Context, id string) (*session.Player, error) {
	return s.opts.Players.GetOrCreate(ctx, id, func() (*session.Player, error) {
		return s.newPlayer(ctx, id)
	})
}

// playerIDFromToken validates an HS256 token and returns its subject, or
// "" if the token is missing, invalid, expired or names a malformed ID.
func (s *Server) playerIDFromToken(tok string) string {
	if tok == "" {
		return ""
	}
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.opts.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid || !session.ValidID(claims.Subject) {
		return ""
	}
	return claims.Subject
}

// signToken creates an HS256 identity token for id.
func (s *Server) signToken(id string, now time.Time) (string, time.Time, error) {
	exp := now.Add(playerTokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString([]byte(s.opts.JWTSecret))
	return ss, exp, err
}

// issueToken signs a token for id and sets it as the identity cookie.
func (s *Server) issueToken(w http.ResponseWriter, id string) error {
	tok, exp, err := s.signToken(id, time.Now())
	if err != nil {
		return err
	}
	sameSite := http.SameSiteLaxMode
	if s.opts.Secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: sameSite,
		Expires:  exp,
	})
	return nil
}

// bearerOrCookie extracts a bearer token from Authorization header or the
// identity cookie.
func bearerOrCookie(r *http.Request, cookieName string) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}
