package ingest

import (
	"io"
	"net/http"
	"strings"

	"github.com/hkmoud/fogsign/internal/domain"
	"github.com/hkmoud/fogsign/internal/logger"
)

// Handler serves the single text-ingestion endpoint: POST /post with a
// plain-text body. Ingestion is request/response — the body is parsed
// synchronously and either committed whole or rejected with no board
// mutation at all.
type Handler struct {
	mode domain.Mode
	sink domain.Sink
	log  *logger.Logger
}

// NewHandler creates the HTTP ingestion handler.
func NewHandler(mode domain.Mode, sink domain.Sink, log *logger.Logger) *Handler {
	return &Handler{mode: mode, sink: sink, log: log}
}

// Register mounts the endpoint on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/post", h.post)
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, flowAccumCap))
	if err != nil || len(body) == 0 {
		h.log.Warn("http: rejected payload: %v", domain.ErrEmptyPayload)
		http.Error(w, "no body", http.StatusBadRequest)
		return
	}

	text := string(body)
	if h.mode == domain.ModeFixed {
		rows, err := ParseFixed(text)
		if err != nil {
			h.log.Warn("http: rejected payload: %v", err)
			http.Error(w, "need 6 lines", http.StatusBadRequest)
			return
		}
		text = strings.Join(rows, "\n")
	}

	h.log.Info("http: payload received (%d bytes)", len(text))
	h.sink.Put(domain.Payload{Text: text, Source: "http"})
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "ok")
}
