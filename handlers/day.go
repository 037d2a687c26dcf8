package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esha04492/FitApp/db"
	"github.com/esha04492/FitApp/middleware"
	"github.com/esha04492/FitApp/models"
	"github.com/esha04492/FitApp/services"
	"github.com/esha04492/FitApp/utils"
)

func requestUserID(c *gin.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if q := c.Query("userId"); q != "" {
		return q
	}
	return middleware.UserID(c)
}

// GetDay returns the caller's active day session with derived totals. A day
// that loaded with a diagnostic still returns its (empty) session so the
// client can show "day unusable" instead of "day complete".
func GetDay(c *gin.Context) {
	userID := requestUserID(c, "")

	session, err := services.LoadDaySession(db.DB, utils.Logger, userID)
	if err != nil && session == nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	resp := gin.H{
		"ok":           true,
		"session":      session,
		"totals":       services.Totals(session),
		"allCompleted": services.AllCompleted(session),
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

type updateRepsRequest struct {
	UserID     string `json:"userId"`
	ExerciseID string `json:"exerciseId"`
	Delta      int    `json:"delta"`
	Custom     string `json:"custom"`
}

// UpdateReps applies a delta (or a free-text custom amount) to one exercise.
func UpdateReps(c *gin.Context) {
	var req updateRepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	userID := requestUserID(c, req.UserID)

	delta := req.Delta
	if req.Custom != "" {
		delta = services.ParseCustomReps(req.Custom)
		if delta == 0 {
			// Unparseable or zero custom input is a no-op, not an error.
			c.JSON(http.StatusOK, gin.H{"ok": true, "noop": true})
			return
		}
	}

	value, err := services.UpdateReps(db.DB, utils.Logger, userID, req.ExerciseID, delta)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "value": value})
}

type closeDayRequest struct {
	UserID string `json:"userId"`
	Skip   bool   `json:"skip"`
}

// CloseDay records history for the active day and advances the pointer.
// Skip closes the day without the completion check.
func CloseDay(c *gin.Context) {
	var req closeDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	userID := requestUserID(c, req.UserID)

	session, err := services.LoadDaySession(db.DB, utils.Logger, userID)
	if err != nil && session == nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	next, err := services.CloseDay(db.DB, utils.Logger, session, req.Skip)
	if err != nil && next == nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	resp := gin.H{
		"ok":           true,
		"session":      next,
		"totals":       services.Totals(next),
		"allCompleted": services.AllCompleted(next),
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

type resetRequest struct {
	UserID  string `json:"userId"`
	Confirm string `json:"confirm"`
}

// ResetDay wipes the caller's progress and history back to day 1. Gated by
// the constant confirmation code.
func ResetDay(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	userID := requestUserID(c, req.UserID)

	var state models.UserState
	if err := db.DB.Where("user_id = ?", userID).First(&state).Error; err != nil || state.ProgramID == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no program chosen yet"})
		return
	}

	session, err := services.ResetProgress(db.DB, utils.Logger, userID, *state.ProgramID, req.Confirm)
	if err != nil && session == nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "session": session})
}

type editExerciseRequest struct {
	UserID     string `json:"userId"`
	ExerciseID string `json:"exerciseId"`
	Scope      string `json:"scope"`
	Name       string `json:"name"`
	Target     int    `json:"target"`
}

// EditExercise renames/retargets an exercise for today only or across the
// whole program.
func EditExercise(c *gin.Context) {
	var req editExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	userID := requestUserID(c, req.UserID)

	scope := services.EditScope(req.Scope)
	if scope != services.ScopeToday && scope != services.ScopeProgram {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "scope must be today or program"})
		return
	}

	var state models.UserState
	if err := db.DB.Where("user_id = ?", userID).First(&state).Error; err != nil || state.ProgramID == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no program chosen yet"})
		return
	}

	err := services.EditExercise(db.DB, utils.Logger, *state.ProgramID, req.ExerciseID, scope, req.Name, req.Target)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
