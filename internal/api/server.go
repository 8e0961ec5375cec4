package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// scanCompletedMessage is the fixed response body of the scan trigger. The
// pipeline never fails the request, so the trigger always answers 200.
const scanCompletedMessage = "video scan completed successfully"

// Scanner runs one full pass over the configured channels.
type Scanner interface {
	Run(ctx context.Context, channelIDs []string)
}

// NewServer builds the HTTP trigger. Both GET and POST on the root path start
// a scan, which is what Cloud Scheduler style invokers send.
func NewServer(scanner Scanner, channelIDs []string, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))
	r.Use(gin.Recovery())

	scan := func(c *gin.Context) {
		runID := uuid.NewString()
		log := logger.With("run_id", runID)
		log.Info("scan triggered", "remote", c.ClientIP())

		// Per-channel failures are reported through the notifier; the
		// trigger itself always answers 200.
		scanner.Run(c.Request.Context(), channelIDs)

		log.Info("scan completed")
		c.String(http.StatusOK, scanCompletedMessage)
	}

	r.GET("/", scan)
	r.POST("/", scan)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return r
}
