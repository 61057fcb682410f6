package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document/service"
	"github.com/gogotex/gogotex/backend/go-editor/pkg/logger"
)

// RegisterDocumentRoutes mounts the document API on r.
func RegisterDocumentRoutes(r gin.IRouter, svc service.Service) {
	r.GET("/api/owners/:owner/draft", func(c *gin.Context) {
		d, err := svc.FetchDraft(c.Request.Context(), c.Param("owner"))
		if err != nil {
			writeError(c, err)
			return
		}
		if d == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, d)
	})

	r.GET("/api/documents", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.POST("/api/documents", func(c *gin.Context) {
		var req struct {
			ID      string `json:"id"`
			OwnerID string `json:"ownerId"`
			Title   string `json:"title"`
			Body    string `json:"body"`
			Status  string `json:"status"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status, ok := document.ParseStatus(req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		d, err := svc.Save(c.Request.Context(), document.SaveInput{
			ID:      req.ID,
			OwnerID: req.OwnerID,
			Title:   req.Title,
			Body:    req.Body,
			Status:  status,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		code := http.StatusOK
		if req.ID == "" {
			code = http.StatusCreated
		}
		c.JSON(code, d)
	})

	r.GET("/api/documents/:id", func(c *gin.Context) {
		d, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	})

	r.DELETE("/api/documents/:id", func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.POST("/api/documents/:id/publish", transitionHandler(svc.Publish))
	r.POST("/api/documents/:id/approve", transitionHandler(svc.Approve))
	r.POST("/api/documents/:id/reject", transitionHandler(svc.Reject))

	r.GET("/api/documents/:id/archive", func(c *gin.Context) {
		url, err := svc.ArchiveURL(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "url": url})
	})
}

type transitionFunc func(ctx context.Context, id string) (*document.Document, error)

func transitionHandler(fn transitionFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := fn(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// writeError maps service errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, document.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoArchive):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
