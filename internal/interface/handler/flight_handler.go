package handler

import (
	"context"
	"net/http"
	"strconv"

	"flightscout-service/internal/domain/entity"
	"flightscout-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UserIDHeader identifies the requester; anonymous requests omit it
const UserIDHeader = "X-User-ID"

// FlightSearcher runs ranked searches
type FlightSearcher interface {
	SmartSearch(ctx context.Context, userID string, profile *entity.TravelerProfile, params entity.SearchParams) (*entity.SearchResult, error)
	RecentSearches(ctx context.Context, userID string, limit int) ([]*entity.SearchRecord, error)
}

// FlightHandler serves flight search requests
type FlightHandler struct {
	searcher FlightSearcher
	logger   logger.Logger
}

// NewFlightHandler creates a new flight handler
func NewFlightHandler(searcher FlightSearcher, logger logger.Logger) *FlightHandler {
	return &FlightHandler{
		searcher: searcher,
		logger:   logger,
	}
}

// Search handles POST /api/v1/flights/search
func (h *FlightHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrorBody{Code: "VALIDATION_ERROR", Message: err.Error()})
		return
	}

	params, err := req.ToParams()
	if err != nil {
		respondFailure(c, h.logger, err)
		return
	}

	result, err := h.searcher.SmartSearch(c.Request.Context(), c.GetHeader(UserIDHeader), req.ToProfile(), params)
	if err != nil {
		respondFailure(c, h.logger, err)
		return
	}
	respondOK(c, result)
}

// RecentSearches handles GET /api/v1/flights/searches
func (h *FlightHandler) RecentSearches(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil || l < 0 {
			respondError(c, http.StatusBadRequest, ErrorBody{Code: "VALIDATION_ERROR", Message: "must be a non-negative integer", Field: "limit"})
			return
		}
		limit = l
	}

	records, err := h.searcher.RecentSearches(c.Request.Context(), c.GetHeader(UserIDHeader), limit)
	if err != nil {
		respondFailure(c, h.logger, err)
		return
	}
	respondOK(c, records)
}
