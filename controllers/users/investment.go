package users

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"project/database"
	"project/middleware"
	"project/models"
	"project/services"
	"project/utils"
)

type CreateInvestmentRequest struct {
	PlanID uint    `json:"plan_id" validate:"required"`
	Amount float64 `json:"amount" validate:"required"`
}

// POST /api/users/investments
func CreateInvestmentHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req CreateInvestmentRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if req.Amount <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Amount must be positive"})
		return
	}

	db := database.DB
	settings := services.NewSettingsService(db)
	svc := services.NewInvestmentService(db, settings, services.NewCommissionService(db, settings))

	inv, err := svc.CreateInvestment(uid, req.PlanID, req.Amount, false)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Plan not available"})
		case errors.Is(err, services.ErrInvalidAmount):
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Amount is outside the plan limits"})
		case errors.Is(err, services.ErrInsufficientBalance):
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Insufficient wallet balance"})
		default:
			utils.WriteError(w, http.StatusInternalServerError, "Failed to create investment")
		}
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Investment created",
		Data:    investmentPayload(inv),
	})
}

// GET /api/users/investments
func ListInvestmentsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	status := r.URL.Query().Get("status")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	db := database.DB
	q := db.Model(&models.Investment{}).Where("user_id = ?", uid)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var totalRows int64
	if err := q.Count(&totalRows).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	var investments []models.Investment
	if err := q.Preload("Plan").Order("id DESC").
		Offset((page - 1) * limit).Limit(limit).Find(&investments).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	items := make([]map[string]interface{}, 0, len(investments))
	for i := range investments {
		items = append(items, investmentPayload(&investments[i]))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"investments": items,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
			},
		},
	})
}

func investmentPayload(inv *models.Investment) map[string]interface{} {
	payload := map[string]interface{}{
		"id":                  inv.ID,
		"order_id":            inv.OrderID,
		"plan_id":             inv.PlanID,
		"amount":              inv.Amount,
		"current_balance":     inv.CurrentBalance,
		"total_earned":        inv.TotalEarned,
		"daily_roi":           inv.DailyROI,
		"duration_days":       inv.DurationDays,
		"payout_type":         inv.PayoutType,
		"compounding_enabled": inv.CompoundingEnabled,
		"is_welcome_bonus":    inv.IsWelcomeBonus,
		"status":              inv.Status,
		"start_date":          inv.StartDate,
		"end_date":            inv.EndDate,
		"last_payout_date":    inv.LastPayoutDate,
	}
	if inv.Plan != nil {
		payload["plan_name"] = inv.Plan.Name
	}
	return payload
}
