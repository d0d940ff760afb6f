// internal/httpserver/server.go
//
// HTTP server wiring for the heartsite backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, access log, panic recovery,
//     timeouts, JSON, CORS).
//   - Public endpoints: "/" (the page), "/static/*", "/health".
//   - Widget endpoints under /api: game (+ websocket), quiz, valentine.
//   - Player identity cookie and lazy creation of per-player widget state.
//
// Notes:
//   - Every /api request runs as a player. A missing or invalid identity
//     cookie gets a fresh player instead of a 401.
//   - The websocket route sits outside the timeout middleware.

package httpserver

import (
	"context"
	"encoding/json"
	"html/template"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/rubisha/heartsite/assets"
	"github.com/rubisha/heartsite/internal/best"
	"github.com/rubisha/heartsite/internal/minegame"
	"github.com/rubisha/heartsite/internal/page"
	"github.com/rubisha/heartsite/internal/quiz"
	"github.com/rubisha/heartsite/internal/session"
	"github.com/rubisha/heartsite/internal/valentine"
)

// Options carries the server's dependencies and settings.
type Options struct {
	Players      session.Store
	Best         best.Store
	Questions    []quiz.Question
	Page         page.Page
	Rules        minegame.Rules
	Scheduler    minegame.Scheduler // nil uses a real ticker
	JWTSecret    string
	CookieName   string
	ClientOrigin string
	Secure       bool // Secure cookies (production)
}

// Server bundles router, player sessions and the best-score store.
type Server struct {
	r        *chi.Mux
	opts     Options
	tmpl     *template.Template
	upgrader websocket.Upgrader
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) (*Server, error) {
	tmpl, err := assets.Templates()
	if err != nil {
		return nil, err
	}
	if opts.CookieName == "" {
		opts.CookieName = "heartsite_player"
	}
	s := &Server{r: chi.NewRouter(), opts: opts, tmpl: tmpl}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	// --- middleware ---
	s.r.Use(chimw.RequestID)               // add X-Request-ID
	s.r.Use(chimw.RealIP)                  // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))   // request-scoped logger
	s.r.Use(hlog.AccessHandler(accessLog)) // one line per request
	s.r.Use(chimw.Recoverer)               // recover from panics

	// --- page + diagnostics ---
	s.r.With(s.withPlayer).Get("/", s.handlePage)
	s.r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(assets.StaticFS())))
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/api", func(r chi.Router) {
		r.Use(cors(opts.ClientOrigin))
		r.Use(s.withPlayer)

		r.Get("/game/ws", s.handleGameWS)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
			r.Use(jsonContentType)                 // default JSON responses

			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"service":"heartsite","endpoints":["/api/game","/api/quiz","/api/valentine"]}`))
			})
			s.mountGame(r)
			s.mountQuiz(r)
			s.mountValentine(r)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s, nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.r }

// RunSweeper evicts idle players every ttl/4 until ctx is done.
func (s *Server) RunSweeper(ctx context.Context, ttl time.Duration) {
	every := ttl / 4
	if every < time.Second {
		every = time.Second
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.opts.Players.Sweep(ttl); n > 0 {
				log.Info().Int("evicted", n).Msg("swept idle players")
			}
		}
	}
}

// newPlayer builds fresh widget state for id. The best score is read back
// from the store, so a returning player keeps it after eviction.
func (s *Server) newPlayer(ctx context.Context, id string) (*session.Player, error) {
	g, err := minegame.New(ctx, minegame.Options{
		Rules:     s.opts.Rules,
		Scheduler: s.opts.Scheduler,
		Best:      best.NewEntry(s.opts.Best, id, minegame.BestKey),
	})
	if err != nil {
		return nil, err
	}
	return &session.Player{
		ID:        id,
		Game:      g,
		Quiz:      quiz.New(s.opts.Questions),
		Valentine: valentine.New(rand.New(rand.NewSource(time.Now().UnixNano()))),
	}, nil
}

// ----------------------------- page ----------------------------------------

type pageData struct {
	Title string
	Links []page.Link
	Grid  int
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := pageData{
		Title: "Hi Rubisha",
		Links: s.opts.Page.ScrollLinks(),
		Grid:  s.opts.Rules.GridSize,
	}
	if err := s.tmpl.ExecuteTemplate(w, "index", data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render page")
	}
}

// ----------------------------- middleware ----------------------------------

// accessLog writes one structured line per request.
func accessLog(r *http.Request, status, size int, dur time.Duration) {
	hlog.FromRequest(r).Info().
		Str("req_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("dur", dur).
		Msg("http")
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin != "" {
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// checkOrigin accepts same-host upgrades, the configured client origin and
// non-browser clients that send no Origin at all.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == s.opts.ClientOrigin {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

// decode reads a JSON body into dst, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return false
	}
	return true
}

// writeJSON sends v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends {"error": code} with the given status.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
