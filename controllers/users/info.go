package users

import (
	"errors"
	"net/http"

	"project/database"
	"project/models"
	"project/utils"

	"gorm.io/gorm"
)

func InfoHandler(w http.ResponseWriter, r *http.Request) {
	// Auth middleware sets user ID in context; use that
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	var setting models.Setting
	err := db.Model(&models.Setting{}).Select("name, company, maintenance").Take(&setting).Error
	healthy := err == nil

	var activeInvestments int64
	db.Model(&models.Investment{}).
		Where("user_id = ? AND status = ?", user.ID, models.InvestmentActive).
		Count(&activeInvestments)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"user": map[string]interface{}{
				"name":               user.Name,
				"number":             user.Number,
				"reff_code":          user.ReffCode,
				"investment_wallet":  utils.RoundFloat(user.InvestmentWallet, 2),
				"earning_wallet":     utils.RoundFloat(user.EarningWallet, 2),
				"total_invested":     utils.RoundFloat(user.TotalInvested, 2),
				"total_earned":       utils.RoundFloat(user.TotalEarned, 2),
				"investment_status":  user.InvestmentStatus,
				"active_investments": activeInvestments,
			},
			"application": map[string]interface{}{
				"name":    setting.Name,
				"company": setting.Company,
				"healthy": healthy,
			},
		},
	})
}
