package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"olx-browser/models"
	"olx-browser/services"
	"olx-browser/utils"
)

type searchResponse struct {
	Items      []models.Listing `json:"items"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

type searchAllResponse struct {
	Items []models.Listing `json:"items"`
	Total int              `json:"total"`
}

type rankRequest struct {
	Query     string           `json:"query"`
	Listings  []models.Listing `json:"listings"`
	MinPrice  *float64         `json:"min_price"`
	MaxPrice  *float64         `json:"max_price"`
	Condition string           `json:"condition"`
	Top       int              `json:"top"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		page = n
	}

	listings, total, err := s.searcher.FetchPage(r.Context(), query, page)
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, searchResponse{Items: nonNil(listings), Page: page, TotalPages: total})
}

func (s *Server) handleSearchAll(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "q is required")
		return
	}

	listings, err := s.searcher.FetchAll(r.Context(), query)
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, searchAllResponse{Items: nonNil(listings), Total: len(listings)})
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" && len(req.Listings) == 0 {
		respondError(w, http.StatusBadRequest, "query or listings is required")
		return
	}
	if req.Top < 0 {
		respondError(w, http.StatusBadRequest, "top must not be negative")
		return
	}

	listings := req.Listings
	if req.Query != "" {
		var err error
		listings, err = s.searcher.FetchAll(r.Context(), req.Query)
		if err != nil {
			s.respondFailure(w, err)
			return
		}
	} else {
		listings = s.cleaner.Clean(listings)
	}

	filters := services.Filters{
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
		Condition: utils.NormalizeText(req.Condition),
	}
	top := req.Top
	if top == 0 {
		top = s.topK
	}

	results := s.ranker.Rank(listings, s.benchmarks, filters)
	run := models.NewRankRun(req.Query, services.Top(results, top))
	if s.store != nil {
		if err := s.store.WriteRankRun(run); err != nil {
			s.logger.Warn("[api] Could not persist rank run %s: %v", run.ID, err)
		}
	}
	respondJSON(w, http.StatusOK, run)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, utils.Snapshot())
}

func nonNil(listings []models.Listing) []models.Listing {
	if listings == nil {
		return []models.Listing{}
	}
	return listings
}
