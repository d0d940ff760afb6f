package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rubisha/heartsite/internal/valentine"
)

// mountValentine registers /valentine routes.
func (s *Server) mountValentine(r chi.Router) {
	r.Route("/valentine", func(r chi.Router) {
		r.Get("/", s.handleValentine(nil))
		r.Post("/dodge", s.handleValentineDodge)
		r.Post("/accept", s.handleValentine((*valentine.Widget).Accept))
		r.Post("/resize", s.handleValentine((*valentine.Widget).Resize))
	})
}

// handleValentine applies op (if any) and returns the widget state.
func (s *Server) handleValentine(op func(*valentine.Widget)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := playerFrom(r)
		p.Mu.Lock()
		if op != nil {
			op(p.Valentine)
		}
		v := p.Valentine.View()
		p.Mu.Unlock()
		_ = json.NewEncoder(w).Encode(v)
	}
}

// dodgeReq carries the measured container and button sizes.
type dodgeReq struct {
	Container valentine.Size `json:"container"`
	Button    valentine.Size `json:"button"`
}

func (s *Server) handleValentineDodge(w http.ResponseWriter, r *http.Request) {
	var req dodgeReq
	if !decode(w, r, &req) {
		return
	}
	p := playerFrom(r)
	p.Mu.Lock()
	p.Valentine.Dodge(req.Container, req.Button)
	v := p.Valentine.View()
	p.Mu.Unlock()
	_ = json.NewEncoder(w).Encode(v)
}
