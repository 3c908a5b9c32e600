package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// lookupErrorMessage is the only error a caller of the gist route ever sees
const lookupErrorMessage = "User not found or API error"

// GistsResponse is returned when the upstream lookup succeeds
type GistsResponse struct {
	Gists []string `json:"gists"`
}

// ErrorResponse is returned for every failed lookup
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleGetGists proxies a username to the gists API.
// Both outcomes are answered with 200; the body key tells them apart.
func (s *Server) handleGetGists(c *gin.Context) {
	username := c.Param("username")

	res, err := s.lookup.Lookup(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusOK, ErrorResponse{Error: lookupErrorMessage})
		return
	}

	c.JSON(http.StatusOK, GistsResponse{Gists: res.URLs})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}
