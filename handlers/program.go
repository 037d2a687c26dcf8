package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esha04492/FitApp/db"
	"github.com/esha04492/FitApp/middleware"
	"github.com/esha04492/FitApp/services"
	"github.com/esha04492/FitApp/utils"
)

type createProgramRequest struct {
	UserID    string                   `json:"userId"`
	Name      string                   `json:"name"`
	Exercises []services.ExerciseInput `json:"exercises"`
}

// CreateProgram creates a custom program and binds the caller to it.
func CreateProgram(c *gin.Context) {
	var req createProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	if req.UserID == "" {
		req.UserID = middleware.UserID(c)
	}

	programID, err := services.CreateCustom(db.DB, utils.Logger, req.UserID, req.Name, req.Exercises)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "programId": programID})
}

type pickBuiltinRequest struct {
	UserID string `json:"userId"`
}

// PickBuiltinProgram binds the caller to the shared built-in program.
func PickBuiltinProgram(c *gin.Context) {
	var req pickBuiltinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	if req.UserID == "" {
		req.UserID = middleware.UserID(c)
	}

	program, err := services.PickBuiltin(db.DB, utils.Logger, req.UserID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "programId": program.ID, "program": program})
}

// statusFor maps the service error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case services.IsValidation(err):
		return http.StatusBadRequest
	case services.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
