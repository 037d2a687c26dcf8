package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esha04492/FitApp/db"
	"github.com/esha04492/FitApp/models"
	"github.com/esha04492/FitApp/services"
	"github.com/esha04492/FitApp/utils"
)

// GetStats returns the derived history view for the caller's program.
func GetStats(c *gin.Context) {
	userID := requestUserID(c, "")

	var state models.UserState
	if err := db.DB.Where("user_id = ?", userID).First(&state).Error; err != nil || state.ProgramID == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no program chosen yet"})
		return
	}

	stats, err := services.BuildStats(db.DB, utils.Logger, userID, *state.ProgramID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": stats, "currentDay": state.CurrentDay})
}
