package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"olx-browser/models"
	"olx-browser/services"
	"olx-browser/storage"
	"olx-browser/utils"
)

// Searcher is the crawl surface the API needs; *olx.Crawler satisfies it.
type Searcher interface {
	FetchPage(ctx context.Context, query string, page int) ([]models.Listing, int, error)
	FetchAll(ctx context.Context, query string) ([]models.Listing, error)
}

type Server struct {
	router     *chi.Mux
	searcher   Searcher
	ranker     *services.Ranker
	cleaner    *services.Cleaner
	benchmarks []models.Benchmark
	store      storage.RankWriter
	logger     *utils.Logger
	topK       int
}

// NewServer wires the routes. store may be nil, in which case ranking runs
// are not persisted.
func NewServer(searcher Searcher, ranker *services.Ranker, cleaner *services.Cleaner,
	benchmarks []models.Benchmark, store storage.RankWriter, logger *utils.Logger, topK int) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		searcher:   searcher,
		ranker:     ranker,
		cleaner:    cleaner,
		benchmarks: benchmarks,
		store:      store,
		logger:     logger,
		topK:       topK,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/search", s.handleSearch)
	s.router.Get("/search/all", s.handleSearchAll)
	s.router.Post("/rank", s.handleRank)
	s.router.Get("/stats", s.handleStats)
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondFailure maps fetch failures to 502 and everything else to 500.
func (s *Server) respondFailure(w http.ResponseWriter, err error) {
	if models.IsNetworkError(err) {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.logger.Error("[api] %v", err)
	respondError(w, http.StatusInternalServerError, err.Error())
}
