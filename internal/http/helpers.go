package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// --- Response Types ---

// Envelope is the standard response format for all API endpoints.
type Envelope struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
	Message  string `json:"message,omitempty"`
	Demo     bool   `json:"demo,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
	Empty    bool   `json:"empty,omitempty"`
}

// ListEnvelope wraps paginated data with pagination metadata.
type ListEnvelope struct {
	Success    bool  `json:"success"`
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, Envelope{Success: false, Error: resource + " not found"})
}

// respondConflict sends a 409 Conflict response.
func respondConflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, Envelope{Success: false, Error: message})
}

// respondInternalError logs the error and sends a 500 Internal Server
// Error response. The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, Envelope{Success: false, Error: "internal server error"})
}

// --- Success Response Helpers ---

// respondOK sends a 200 OK response with data.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// respondMessage sends a 200 OK response with a message and no data.
func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// respondList sends a 200 OK response with paginated data.
func respondList(c *gin.Context, data any, total int64, page, limit int) {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	c.JSON(http.StatusOK, ListEnvelope{
		Success:    true,
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	})
}

// requireIDParam extracts a non-empty ID from URL parameters.
// Responds with a 400 error and returns false when missing.
func requireIDParam(c *gin.Context, paramName string) (string, bool) {
	id := c.Param(paramName)
	if id == "" {
		respondBadRequest(c, paramName+" is required")
		return "", false
	}
	return id, true
}
