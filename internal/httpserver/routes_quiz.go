package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rubisha/heartsite/internal/quiz"
)

// mountQuiz registers /quiz routes.
func (s *Server) mountQuiz(r chi.Router) {
	r.Route("/quiz", func(r chi.Router) {
		r.Get("/", s.handleQuizState)
		r.Post("/answer", s.handleQuizAnswer)
		r.Post("/reset", s.handleQuizReset)
	})
}

func (s *Server) handleQuizState(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r)
	p.Mu.Lock()
	v := p.Quiz.View()
	p.Mu.Unlock()
	_ = json.NewEncoder(w).Encode(v)
}

// answerReq is the request payload for /quiz/answer.
type answerReq struct {
	Question int `json:"question"`
	Option   int `json:"option"`
}

// answerRes reports whether the click counted plus the new quiz state.
type answerRes struct {
	Applied bool      `json:"applied"`
	Quiz    quiz.View `json:"quiz"`
}

func (s *Server) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	req := answerReq{Question: -1, Option: -1}
	if !decode(w, r, &req) {
		return
	}
	p := playerFrom(r)
	p.Mu.Lock()
	applied := p.Quiz.Answer(req.Question, req.Option)
	v := p.Quiz.View()
	p.Mu.Unlock()
	_ = json.NewEncoder(w).Encode(answerRes{Applied: applied, Quiz: v})
}

func (s *Server) handleQuizReset(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r)
	p.Mu.Lock()
	p.Quiz.Reset()
	v := p.Quiz.View()
	p.Mu.Unlock()
	_ = json.NewEncoder(w).Encode(v)
}
