// internal/httpserver/routes_game.go
//
// HTTP routes for the heart-reveal game.
// Exposes under /api/game:
//   - GET  /game            → current snapshot
//   - POST /game/start      → start (or restart) a round
//   - POST /game/reveal     → reveal one tile
//   - POST /game/best/reset → zero the best score
//   - GET  /game/ws         → websocket; pushes a snapshot on every change
//     (including timer ticks) and accepts "start"/"reveal" commands.
//
// Reveals the page would ignore (idle game, unknown or repeated tile)
// answer 200 with outcome "ignored" and the unchanged snapshot.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/rubisha/heartsite/internal/minegame"
	"github.com/rubisha/heartsite/internal/session"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPingPeriod = 30 * time.Second
	wsReadLimit  = 1 << 10
)

// mountGame registers all /game routes except the websocket.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Get("/", s.handleGameState)
		r.Post("/start", s.handleGameStart)
		r.Post("/reveal", s.handleGameReveal)
		r.Post("/best/reset", s.handleGameResetBest)
	})
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(playerFrom(r).Game.Snapshot())
}

func (s *Server) handleGameStart(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r)
	snap := p.Game.Start()
	hlog.FromRequest(r).Debug().Str("player", p.ID).Msg("game started")
	_ = json.NewEncoder(w).Encode(snap)
}

// revealReq is the request payload for /game/reveal.
type revealReq struct {
	Index *int `json:"index"`
}

// revealRes is the response payload for /game/reveal.
type revealRes struct {
	Outcome minegame.Outcome  `json:"outcome"`
	Game    minegame.Snapshot `json:"game"`
}

func (s *Server) handleGameReveal(w http.ResponseWriter, r *http.Request) {
	var req revealReq
	if !decode(w, r, &req) {
		return
	}
	p := playerFrom(r)
	if req.Index == nil {
		_ = json.NewEncoder(w).Encode(revealRes{Outcome: minegame.OutcomeIgnored, Game: p.Game.Snapshot()})
		return
	}
	out, snap := p.Game.Reveal(r.Context(), *req.Index)
	_ = json.NewEncoder(w).Encode(revealRes{Outcome: out, Game: snap})
}

func (s *Server) handleGameResetBest(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(playerFrom(r).Game.ResetBest(r.Context()))
}

// -----------------------------------------------------------------------------
// websocket

// wsMsg is the envelope for both directions.
type wsMsg struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// handleGameWS streams snapshots to the client until either side closes.
func (s *Server) handleGameWS(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r)
	logger := hlog.FromRequest(r).With().Str("player", p.ID).Logger()

	// Carry a freshly issued identity cookie through the handshake.
	var hdr http.Header
	if cookies := w.Header().Values("Set-Cookie"); len(cookies) > 0 {
		hdr = http.Header{"Set-Cookie": cookies}
	}
	conn, err := s.upgrader.Upgrade(w, r, hdr)
	if err != nil {
		logger.Warn().Err(err).Msg("ws: upgrade")
		return
	}
	defer conn.Close()
	logger.Debug().Msg("ws: connect")

	updates := make(chan minegame.Snapshot, 1)
	unsubscribe := p.Game.Subscribe(func(snap minegame.Snapshot) { offerLatest(updates, snap) })
	defer unsubscribe()

	// The request context ends with the handshake; the reader owns the
	// connection's lifetime from here on.
	done := make(chan struct{})
	go func() {
		defer close(done)
		wsReader(conn, p, logger)
	}()

	first := p.Game.Snapshot()
	if err := writeState(conn, first); err != nil {
		logger.Debug().Err(err).Msg("ws: write")
		return
	}
	last := first.Version

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-done:
			logger.Debug().Msg("ws: closed")
			return
		case snap := <-updates:
			if snap.Version <= last {
				continue
			}
			if err := writeState(conn, snap); err != nil {
				logger.Debug().Err(err).Msg("ws: write")
				return
			}
			last = snap.Version
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

// wsReader applies client commands until the connection fails.
func wsReader(conn *websocket.Conn, p *session.Player, logger zerolog.Logger) {
	conn.SetReadLimit(wsReadLimit)
	conn.SetPongHandler(func(string) error {
		p.Touch(time.Now())
		return nil
	})
	for {
		var in wsMsg
		if err := conn.ReadJSON(&in); err != nil {
			return
		}
		p.Touch(time.Now())
		switch in.Type {
		case "start":
			p.Game.Start()
		case "reveal":
			var req revealReq
			if err := json.Unmarshal(in.Data, &req); err != nil || req.Index == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), wsWriteWait)
			p.Game.Reveal(ctx, *req.Index)
			cancel()
		default:
			logger.Debug().Str("type", in.Type).Msg("ws: unknown message")
		}
	}
}

func writeState(conn *websocket.Conn, snap minegame.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(wsMsg{Type: "state", Data: data})
}

// offerLatest puts snap on a one-slot channel, replacing anything older the
// writer has not picked up yet. Slow clients skip frames, never block the
// game.
func offerLatest(ch chan minegame.Snapshot, snap minegame.Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case old := <-ch:
			if old.Version > snap.Version {
				snap = old
			}
		default:
		}
	}
}
