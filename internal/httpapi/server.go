// ABOUTME: HTTP server exposing the wardrobe and recommendation API
// ABOUTME: Thin routing layer; all domain logic lives in storage and recommend
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/samsam9395/my-ootd/internal/models"
	"github.com/samsam9395/my-ootd/internal/storage/sqlite"
)

// recommender is the slice of the recommendation service the API invokes
type recommender interface {
	RecommendOutfit(ctx context.Context, ownerID string, selectedID int64) (*models.Outfit, error)
}

// invalidator lets catalog mutations drop an owner's cached vectors
type invalidator interface {
	Invalidate(ownerID string)
}

// Server serves the JSON API over net/http
type Server struct {
	store       *sqlite.Store
	recommender recommender
	cache       invalidator
	jwtSecret   []byte
	httpServer  *http.Server
}

// NewServer wires the API around the catalog store and recommendation service
func NewServer(addr string, store *sqlite.Store, rec recommender, cache invalidator, jwtSecret string) *Server {
	s := &Server{
		store:       store,
		recommender: rec,
		cache:       cache,
		jwtSecret:   []byte(jwtSecret),
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes builds the full request handler, including middleware
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/recommendations", s.requireOwner(s.handleRecommend))

	mux.HandleFunc("GET /api/clothes", s.requireOwner(s.handleListClothes))
	mux.HandleFunc("POST /api/clothes", s.requireOwner(s.handleUpsertCloth))
	mux.HandleFunc("PUT /api/clothes/{id}/image", s.requireOwner(s.handleUpdateImage))
	mux.HandleFunc("DELETE /api/clothes/{id}", s.requireOwner(s.handleDeleteCloth))
	mux.HandleFunc("GET /api/clothes/random", s.requireOwner(s.handleRandomClothes))

	mux.HandleFunc("GET /api/clothes/style-tags", s.requireOwner(s.handleStyleTags))
	mux.HandleFunc("POST /api/clothes/style-tags", s.requireOwner(s.handleCreateStyleTags))

	mux.HandleFunc("GET /healthz", s.handleHealth)

	return s.withRequestLog(mux)
}

// Start blocks serving requests until the listener fails or Shutdown is called
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the listener
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
