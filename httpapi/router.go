// Package httpapi exposes the question-answering invoker over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"structuredqa"
	"structuredqa/qa"
)

const Version = "0.1.0"

// Asker answers one question per call.
type Asker interface {
	Ask(ctx context.Context, question string) (structuredqa.Response, error)
}

// NewRouter wires the routes. Model failures map to 502.
func NewRouter(asker Asker) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": Version})
	})
	r.POST("/ask", func(c *gin.Context) {
		var req structuredqa.QueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if strings.TrimSpace(req.Question) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": qa.ErrEmptyQuestion.Error()})
			return
		}
		resp, err := asker.Ask(c.Request.Context(), req.Question)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	})
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		structuredqa.Logger.Info("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
