package historian

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jason-s-yu/colortrick/internal/middleware"
	"github.com/jason-s-yu/colortrick/internal/models"
	"github.com/jason-s-yu/colortrick/internal/rating"
	"github.com/sirupsen/logrus"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
	leaderboardWindow  = 500
)

// Router exposes a health check, the most recent recorded games and a rating table.
// With no allowed origins, any http or https origin may read it.
func Router(svc *Service, logger *logrus.Logger, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"https://*", "http://*"}
	}
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.LogMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		MaxAge:         300,
	}))
	r.Use(chimw.Heartbeat("/ping"))

	r.Get("/games/recent", func(w http.ResponseWriter, r *http.Request) {
		limit := defaultRecentLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > maxRecentLimit {
				http.Error(w, "limit must be between 1 and 100", http.StatusBadRequest)
				return
			}
			limit = n
		}
		games, err := svc.store.RecentGames(r.Context(), limit)
		if err != nil {
			svc.log.WithError(err).Error("recent games query failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if games == nil {
			games = []models.GameSummary{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(games)
	})

	r.Get("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		games, err := svc.store.RecentGames(r.Context(), leaderboardWindow)
		if err != nil {
			svc.log.WithError(err).Error("leaderboard query failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rating.Leaderboard(games))
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"pending": svc.Pending()})
	})
	return r
}
