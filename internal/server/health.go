package server

import (
	"context"
	"net/http"
	"time"

	"github.com/andrasnagy-data/peliculas/internal/shared/database"
	"github.com/andrasnagy-data/peliculas/internal/shared/respond"
	"github.com/rs/zerolog/hlog"
)

type (
	// HealthSrvc checks whether the database answers queries
	HealthSrvc struct {
		db database.DBTX
	}

	// HealthResponse represents the response structure for health check endpoint
	HealthResponse struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
		Database  bool      `json:"database"`
	}
)

func NewHealthHandler(srvc *HealthSrvc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := hlog.FromRequest(r)

		response := srvc.check(r.Context())
		if !response.Database {
			logger.Error().Msg("Database healthcheck failed")
			respond.JSON(w, r, http.StatusServiceUnavailable, response)
			return
		}

		logger.Debug().Msg("Database healthcheck ok")
		respond.JSON(w, r, http.StatusOK, response)
	}
}

func NewHealthSrvc(db database.DBTX) *HealthSrvc {
	return &HealthSrvc{db: db}
}

func (s *HealthSrvc) check(ctx context.Context) HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var res int
	err := s.db.QueryRow(ctx, "SELECT 1").Scan(&res)

	resp := HealthResponse{
		Status:    "serving",
		Timestamp: time.Now().UTC(),
		Database:  err == nil && res == 1,
	}
	if !resp.Database {
		resp.Status = "not serving"
	}
	return resp
}
