package server

import "net/http"

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.health)
	mux.HandleFunc("GET /api/pages", s.pages)
	mux.HandleFunc("GET /api/summary", s.summary)
	mux.HandleFunc("GET /api/correlations", s.correlations)
	mux.HandleFunc("GET /api/hypotheses", s.hypotheses)
	mux.HandleFunc("GET /api/inputs", s.inputs)
	mux.HandleFunc("GET /api/predictions/inherited", s.predictInherited)
	mux.HandleFunc("POST /api/predictions", s.predictHouse)
	mux.HandleFunc("GET /api/performance", s.performance)
	mux.HandleFunc("GET /api/plots/scatter/{feature}", s.scatterPlot)
	mux.HandleFunc("GET /api/plots/inherited", s.inheritedPlot)
	mux.HandleFunc("GET /api/plots/target", s.targetPlot)
	mux.HandleFunc("GET /api/export/inherited.xlsx", s.exportInherited)

	return mux
}
