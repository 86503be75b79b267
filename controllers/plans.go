package controllers

import (
	"net/http"
	"time"

	"project/database"
	"project/models"
	"project/utils"
)

// PlanListHandler returns the active plans currently inside their visibility
// window.
func PlanListHandler(w http.ResponseWriter, r *http.Request) {
	db := database.DB

	var plans []models.Plan
	if err := db.Where("status = ?", "Active").Order("min_amount ASC, id ASC").Find(&plans).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	now := time.Now()
	visible := make([]map[string]interface{}, 0, len(plans))
	for i := range plans {
		p := &plans[i]
		if !p.VisibleAt(now) {
			continue
		}
		visible = append(visible, map[string]interface{}{
			"id":                  p.ID,
			"name":                p.Name,
			"min_amount":          p.MinAmount,
			"max_amount":          p.MaxAmount,
			"daily_roi":           p.DailyROI,
			"duration_days":       p.DurationDays,
			"payout_type":         p.PayoutType,
			"payout_delay_hours":  p.PayoutDelayHours,
			"lump_sum_percentage": p.LumpSumPercentage,
			"compounding_enabled": p.CompoundingEnabled,
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"plans": visible},
	})
}
