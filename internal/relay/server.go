package relay

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fishcrypt/internal/domain"
)

const (
	// MaxQueue bounds the envelopes held for one recipient.
	MaxQueue = 1024
	// MaxBody bounds a request body.
	MaxBody = 64 << 10
)

type ackRequest struct {
	Count int `json:"count"`
}

// Server is the in-memory store-and-forward relay. It only ever sees wire
// lines, never keys or plaintext.
type Server struct {
	mu     sync.Mutex
	queues map[domain.Target][]domain.Envelope
	now    func() time.Time
	log    *zap.Logger
}

// NewServer returns an empty relay.
func NewServer(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		queues: make(map[domain.Target][]domain.Envelope),
		now:    time.Now,
		log:    log.Named("relay"),
	}
}

// Handler returns the relay's routes wrapped in an access log.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /msg/{user}", s.handleDeliver)
	mux.HandleFunc("GET /msg/{user}", s.handleFetch)
	mux.HandleFunc("POST /msg/{user}/ack", s.handleAck)
	return s.accessLog(mux)
}

func (s *Server) handleDeliver(w http.ResponseWriter, r *http.Request) {
	to := domain.Target(r.PathValue("user")).Normalize()
	var env domain.Envelope
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBody)).Decode(&env); err != nil {
		http.Error(w, "bad envelope: "+err.Error(), http.StatusBadRequest)
		return
	}
	if env.Line == "" {
		http.Error(w, "empty line", http.StatusBadRequest)
		return
	}
	env.To = to
	env.From = env.From.Normalize()
	if env.ID == "" {
		env.ID = uuid.NewString()
	}
	if env.Timestamp == 0 {
		env.Timestamp = s.now().Unix()
	}

	s.mu.Lock()
	q := s.queues[to]
	if len(q) >= MaxQueue {
		s.mu.Unlock()
		http.Error(w, "queue full", http.StatusTooManyRequests)
		return
	}
	s.queues[to] = append(q, env)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"id": env.ID})
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	to := domain.Target(r.PathValue("user")).Normalize()
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	s.mu.Lock()
	q := s.queues[to]
	if limit > 0 && limit < len(q) {
		q = q[:limit]
	}
	out := append([]domain.Envelope{}, q...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAck(w http.ResponseWriter, r *http.Request) {
	to := domain.Target(r.PathValue("user")).Normalize()
	var req ackRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBody)).Decode(&req); err != nil || req.Count < 0 {
		http.Error(w, "bad ack", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	q := s.queues[to]
	if req.Count >= len(q) {
		delete(s.queues, to)
	} else {
		s.queues[to] = append([]domain.Envelope(nil), q[req.Count:]...)
	}
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)))
	})
}
