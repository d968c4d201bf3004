package handler

import (
	"net/http"
	"time"

	"flightscout-service/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIKeyHeader carries the shared API key
const APIKeyHeader = "X-API-KEY"

// RouterConfig configures the HTTP surface
type RouterConfig struct {
	APIKey     string
	AppVersion string
	// Gatherer backs /metrics; nil uses the default prometheus registry
	Gatherer prometheus.Gatherer
}

// NewRouter wires every route of the service
func NewRouter(config RouterConfig, flights *FlightHandler, prices *PriceHandler, log logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(cors.New(corsConfig()))

	gatherer := config.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "flightscout",
			"version": config.AppVersion,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	v1.Use(apiKeyAuth(config.APIKey))
	{
		f := v1.Group("/flights")
		{
			f.POST("/search", flights.Search)
			f.GET("/searches", flights.RecentSearches)
		}

		p := v1.Group("/prices")
		{
			p.GET("/prediction", prices.Prediction)
			p.GET("/history", prices.History)
		}
	}
	return r
}

func corsConfig() cors.Config {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = append(config.AllowHeaders, APIKeyHeader, UserIDHeader)
	return config
}

// apiKeyAuth is a no-op when no key is configured
func apiKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		if c.GetHeader(APIKeyHeader) != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   ErrorBody{Code: "UNAUTHORIZED", Message: "Unauthorized"},
			})
			return
		}
		c.Next()
	}
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"durationMs", time.Since(start).Milliseconds(),
			"clientIP", c.ClientIP(),
		)
	}
}
