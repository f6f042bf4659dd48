// ABOUTME: HTTP handlers for wardrobe CRUD and outfit recommendations
// ABOUTME: Maps pipeline errors onto status codes; mutations invalidate cached vectors
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/samsam9395/my-ootd/internal/models"
	"github.com/samsam9395/my-ootd/internal/recommend"
	"github.com/samsam9395/my-ootd/internal/storage/sqlite"
)

const (
	defaultPageSize = 30
	maxPageSize     = 200
	shuffleCount    = 5
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleRecommend runs the recommendation pipeline for the selected cloth.
// Pipeline outcomes (including unsuccessful ones) return 200 with the outfit
// payload; only missing items and upstream failures map to error statuses.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID int64 `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID <= 0 {
		writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	owner := ownerFromContext(r.Context())
	outfit, err := s.recommender.RecommendOutfit(r.Context(), owner, req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrNotFound):
			writeError(w, http.StatusNotFound, "item not found")
		case errors.Is(err, recommend.ErrUpstreamUnavailable):
			writeError(w, http.StatusInternalServerError, "stylist service unavailable")
		default:
			log.Printf("[HTTP] recommendation failed for owner %s item %d: %v", owner, req.ItemID, err)
			writeError(w, http.StatusInternalServerError, "recommendation failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, outfit)
}

func (s *Server) handleListClothes(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r.Context())

	category := r.URL.Query().Get("category")
	if category == "all" {
		category = ""
	}
	limit := queryInt(r, "limit", defaultPageSize)
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	details, err := s.store.ListByCategory(r.Context(), owner, category, limit, offset)
	if err != nil {
		log.Printf("[HTTP] failed to list clothes for owner %s: %v", owner, err)
		writeError(w, http.StatusInternalServerError, "failed to list clothes")
		return
	}
	if details == nil {
		details = []models.ClothDetail{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"clothes": details})
}

func (s *Server) handleUpsertCloth(w http.ResponseWriter, r *http.Request) {
	var input sqlite.ClothInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(input.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	owner := ownerFromContext(r.Context())
	cloth, err := s.store.UpsertCloth(r.Context(), owner, input)
	if err != nil {
		log.Printf("[HTTP] failed to upsert cloth for owner %s: %v", owner, err)
		writeError(w, http.StatusInternalServerError, "failed to save cloth")
		return
	}

	s.cache.Invalidate(owner)
	writeJSON(w, http.StatusCreated, cloth)
}

func (s *Server) handleUpdateImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cloth id")
		return
	}

	var req struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "image_url is required")
		return
	}

	owner := ownerFromContext(r.Context())
	ok, err := s.store.UpdateImageURL(r.Context(), owner, id, req.ImageURL)
	if err != nil {
		log.Printf("[HTTP] failed to update image for cloth %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to update image")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "cloth not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "image_url": req.ImageURL})
}

func (s *Server) handleDeleteCloth(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cloth id")
		return
	}

	owner := ownerFromContext(r.Context())
	ok, err := s.store.DeleteCloth(r.Context(), owner, id)
	if err != nil {
		log.Printf("[HTTP] failed to delete cloth %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to delete cloth")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "cloth not found")
		return
	}

	s.cache.Invalidate(owner)
	writeJSON(w, http.StatusOK, map[string]string{"message": "cloth deleted"})
}

func (s *Server) handleRandomClothes(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r.Context())

	details, err := s.store.RandomClothes(r.Context(), owner, shuffleCount)
	if err != nil {
		log.Printf("[HTTP] failed to shuffle clothes for owner %s: %v", owner, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch clothes")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"clothes": details})
}

func (s *Server) handleStyleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.store.StyleTags(r.Context())
	if err != nil {
		log.Printf("[HTTP] failed to list style tags: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list style tags")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"style_tags": tags})
}

func (s *Server) handleCreateStyleTags(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Names []string `json:"names"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Names) == 0 {
		writeError(w, http.StatusBadRequest, "names is required")
		return
	}

	tags, err := s.store.CreateStyleTags(r.Context(), req.Names)
	if err != nil {
		log.Printf("[HTTP] failed to create style tags: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create style tags")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"style_tags": tags})
}

// queryInt reads an integer query parameter with a fallback
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
