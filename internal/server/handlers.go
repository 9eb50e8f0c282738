package server

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/frsuministros/orderflow/internal/common"
	"github.com/gin-gonic/gin"
)

type catalogEntry struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	ArticleID   string `json:"articleId,omitempty"`
	ImageBase64 string `json:"imageBase64,omitempty"`
}

type confirmRequest struct {
	Description string `json:"description" binding:"required"`
	Selection   string `json:"selection" binding:"required"`
}

type markReadRequest struct {
	SourceID string `json:"sourceId" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCatalog(c *gin.Context) {
	rows := s.index.Rows()
	entries := make([]catalogEntry, 0, len(rows))
	for _, row := range rows {
		entry := catalogEntry{
			Code:        row.Code,
			Description: row.Description,
			ArticleID:   row.ArticleID,
		}
		if len(row.Image) > 0 {
			entry.ImageBase64 = base64.StdEncoding.EncodeToString(row.Image)
		}
		entries = append(entries, entry)
	}
	c.JSON(http.StatusOK, gin.H{"data": entries, "total": len(entries)})
}

func (s *Server) handlePredictions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"predictions": s.publisher.Snapshot()})
}

// handleConfirm records a human correction and answers with the refreshed
// batch so the frontend can re-render without a second round trip.
func (s *Server) handleConfirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description and selection are required"})
		return
	}

	if err := s.updater.Confirm(c.Request.Context(), req.Description, req.Selection); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, common.ErrMalformedItem) {
			status = http.StatusBadRequest
		}

		msg := err.Error()
		var uerr *common.UserError
		if errors.As(err, &uerr) {
			msg = uerr.UserMessage
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	if s.trigger != nil {
		s.trigger.TriggerNow()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "confirmed",
		"predictions": s.publisher.Snapshot(),
	})
}

func (s *Server) handleMarkRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sourceId is required"})
		return
	}

	if err := s.mail.MarkProcessed(c.Request.Context(), req.SourceID); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, common.ErrMailRateLimit) {
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	// The acknowledged item should drop out of the batch right away, not
	// linger until the next tick.
	if s.trigger != nil {
		s.trigger.TriggerNow()
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAudio(c *gin.Context) {
	if s.audio == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "audio not available"})
		return
	}

	name, data, ok, err := s.audio.FetchAudio(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pending audio"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "audio/mpeg", data)
}
