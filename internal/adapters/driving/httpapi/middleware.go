package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

const requestIDHeader = "X-Request-ID"

type ctxKey int

const sessionKey ctxKey = iota

// Session is the authenticated caller of a request.
type Session struct {
	UserID         string
	OrganizationID string
}

// SessionFrom returns the session set by the auth middleware.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}

// requestID takes the caller's X-Request-ID or generates one, echoes it in
// the response and tags the request logger with it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.FromContext(r.Context()).Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// sessionClaims are the JWT claims the API reads.
type sessionClaims struct {
	Org string `json:"org,omitempty"`
	jwt.RegisteredClaims
}

// authenticate verifies the bearer token (HS256) and stores the session.
// A missing or invalid token is rejected with 401 before the engine runs.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.parseSession(r.Header.Get("Authorization"))
		if err != nil {
			logger.FromContext(r.Context()).Debug("rejected session", zap.Error(err))
			s.writeError(w, domain.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, session)))
	})
}

func (s *Server) parseSession(header string) (Session, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return Session{}, domain.ErrUnauthenticated
	}
	if s.cfg.JWTSecret == "" {
		return Session{}, domain.ErrUnauthenticated
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(_ *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Session{}, err
	}
	if claims.Subject == "" {
		return Session{}, domain.ErrUnauthenticated
	}
	return Session{UserID: claims.Subject, OrganizationID: claims.Org}, nil
}

// IssueToken signs a session token. Used by the CLI for local testing.
func IssueToken(secret, userID, orgID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Org: orgID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
