package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the document service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>gogotex-editor documents - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "gogotex-editor documents", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "Document": {
        "type": "object",
        "properties": {
          "id": {"type":"string"},
          "ownerId": {"type":"string"},
          "title": {"type":"string"},
          "body": {"type":"string"},
          "status": {"type":"string","enum":["draft","approved","rejected","published"]},
          "createdAt": {"type":"string","format":"date-time"},
          "updatedAt": {"type":"string","format":"date-time"}
        }
      }
    }
  },
  "paths": {
    "/api/owners/{owner}/draft": {
      "get": {
        "summary": "Current draft of an owner",
        "parameters": [{"name":"owner","in":"path","required":true,"schema":{"type":"string"}}],
        "responses": { "200": { "description": "draft document" }, "204": { "description": "owner has no draft" } }
      }
    },
    "/api/documents": {
      "get": { "summary": "List documents", "responses": { "200": { "description": "documents, newest first" } } },
      "post": {
        "summary": "Save a document (create when id is empty)",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"id":{"type":"string"},"ownerId":{"type":"string"},"title":{"type":"string"},"body":{"type":"string"},"status":{"type":"string"}}}}}},
        "responses": { "200": { "description": "updated" }, "201": { "description": "created" }, "400": { "description": "invalid body or status" }, "404": { "description": "unknown id" } }
      }
    },
    "/api/documents/{id}": {
      "get": { "summary": "Get a document", "responses": { "200": { "description": "document" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a document", "responses": { "204": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/documents/{id}/publish": {
      "post": { "summary": "Publish a draft", "responses": { "200": { "description": "published" }, "404": { "description": "not found" }, "409": { "description": "not a draft" } } }
    },
    "/api/documents/{id}/approve": {
      "post": { "summary": "Approve a draft", "responses": { "200": { "description": "approved" }, "404": { "description": "not found" }, "409": { "description": "not a draft" } } }
    },
    "/api/documents/{id}/reject": {
      "post": { "summary": "Reject a draft", "responses": { "200": { "description": "rejected" }, "404": { "description": "not found" }, "409": { "description": "not a draft" } } }
    },
    "/api/documents/{id}/archive": {
      "get": { "summary": "Link to the published snapshot", "responses": { "200": { "description": "presigned url" }, "404": { "description": "not published" }, "501": { "description": "archive not configured" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
