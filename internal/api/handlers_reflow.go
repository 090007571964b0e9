package api

import (
	"encoding/json"
	"net/http"

	"github.com/hqzhou/textreflow/internal/reflow"
)

type reflowRequest struct {
	Text    string          `json:"text"`
	Options reflowOverrides `json:"options"`
}

type reflowResponse struct {
	Text string `json:"text"`
}

// handleReflow reflows text synchronously, no extraction involved.
func (s *Server) handleReflow(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req reflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	opts, err := req.Options.apply(s.cfg.ReflowDefaults())
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	out := reflow.Reflow(req.Text, opts)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reflowResponse{Text: out})
}
