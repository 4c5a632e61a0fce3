package health

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// Server exposes a localhost liveness endpoint for operators: whether the
// sampling loop is running and whether the most recent delivery succeeded.
type Server struct {
	port           string
	running        int32
	lastDeliveryOK int32
}

func New(port string) *Server {
	return &Server{port: port}
}

func (s *Server) SetRunning(ok bool) {
	if ok {
		atomic.StoreInt32(&s.running, 1)
	} else {
		atomic.StoreInt32(&s.running, 0)
	}
}

func (s *Server) SetLastDeliveryOK(ok bool) {
	if ok {
		atomic.StoreInt32(&s.lastDeliveryOK, 1)
	} else {
		atomic.StoreInt32(&s.lastDeliveryOK, 0)
	}
}

func (s *Server) Serve() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	return http.ListenAndServe("127.0.0.1:"+s.port, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"running":          atomic.LoadInt32(&s.running) == 1,
		"last_delivery_ok": atomic.LoadInt32(&s.lastDeliveryOK) == 1,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
