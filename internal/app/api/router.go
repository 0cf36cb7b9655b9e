package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Mathieu1704/icare-mvp/internal/app/pipeline"
	"github.com/Mathieu1704/icare-mvp/internal/ports"
)

func NewRouter(p *pipeline.ChatPipeline, obs ports.Observability) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	h := &chatHandler{pipeline: p, obs: obs}
	r.HandleFunc("/chat", h.handleChat).Methods("POST")

	return r
}
