package handler

import (
	"context"
	"net/http"
	"strconv"

	"flightscout-service/internal/domain/entity"
	"flightscout-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PricePredictor forecasts route prices
type PricePredictor interface {
	Predict(ctx context.Context, req entity.PredictionRequest) (*entity.PredictionResult, error)
}

// PriceHistoryReader reads recorded price history
type PriceHistoryReader interface {
	Query(ctx context.Context, route entity.RouteKey, sinceDays int) ([]entity.PriceHistoryPoint, error)
}

// PriceHandler serves price prediction and history requests
type PriceHandler struct {
	predictor PricePredictor
	history   PriceHistoryReader
	logger    logger.Logger
}

// NewPriceHandler creates a new price handler
func NewPriceHandler(predictor PricePredictor, history PriceHistoryReader, logger logger.Logger) *PriceHandler {
	return &PriceHandler{
		predictor: predictor,
		history:   history,
		logger:    logger,
	}
}

// Prediction handles GET /api/v1/prices/prediction
func (h *PriceHandler) Prediction(c *gin.Context) {
	req := entity.PredictionRequest{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		CabinClass:  entity.CabinClass(c.Query("cabinClass")),
	}
	if raw := c.Query("departureDate"); raw != "" {
		departure, err := parseDate("departureDate", raw)
		if err != nil {
			respondFailure(c, h.logger, err)
			return
		}
		req.DepartureDate = &departure
	}
	days, ok := h.intQuery(c, "lookbackDays")
	if !ok {
		return
	}
	req.LookbackDays = days

	result, err := h.predictor.Predict(c.Request.Context(), req)
	if err != nil {
		respondFailure(c, h.logger, err)
		return
	}
	respondOK(c, result)
}

// History handles GET /api/v1/prices/history
func (h *PriceHandler) History(c *gin.Context) {
	route := entity.NewRouteKey(c.Query("origin"), c.Query("destination"))
	if !entity.IsIATACode(route.Origin) {
		respondFailure(c, h.logger, &entity.ValidationError{Field: "origin", Message: "must be a 3-letter IATA code"})
		return
	}
	if !entity.IsIATACode(route.Destination) {
		respondFailure(c, h.logger, &entity.ValidationError{Field: "destination", Message: "must be a 3-letter IATA code"})
		return
	}
	days, ok := h.intQuery(c, "days")
	if !ok {
		return
	}

	points, err := h.history.Query(c.Request.Context(), route, days)
	if err != nil {
		respondFailure(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    points,
		"count":   len(points),
	})
}

// intQuery reads an optional non-negative integer; it writes the 400 itself
func (h *PriceHandler) intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		respondError(c, http.StatusBadRequest, ErrorBody{Code: "VALIDATION_ERROR", Message: "must be a non-negative integer", Field: name})
		return 0, false
	}
	return v, true
}
