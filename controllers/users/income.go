package users

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"project/database"
	"project/models"
	"project/utils"
)

// GET /api/users/income?type=&page=&limit=
func IncomeHistoryHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	incomeType := strings.TrimSpace(r.URL.Query().Get("type"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	db := database.DB
	q := db.Model(&models.IncomeTransaction{}).Where("user_id = ?", uid)
	if incomeType != "" && incomeType != "null" {
		q = q.Where("income_type = ?", incomeType)
	}

	var totalRows int64
	if err := q.Count(&totalRows).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	var totalAmount float64
	if err := q.Select("COALESCE(SUM(amount),0)").Scan(&totalAmount).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	var rows []models.IncomeTransaction
	if err := q.Order("id DESC").Offset((page - 1) * limit).Limit(limit).Find(&rows).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	items := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		item := map[string]interface{}{
			"id":                    row.ID,
			"order_id":              row.OrderID,
			"income_type":           row.IncomeType,
			"amount":                row.Amount,
			"earning_wallet_before": row.EarningWalletBefore,
			"earning_wallet_after":  row.EarningWalletAfter,
			"created_at":            row.CreatedAt,
		}
		if row.Level != nil {
			item["level"] = *row.Level
		}
		if row.InvestmentID != nil {
			item["investment_id"] = *row.InvestmentID
		}
		if row.Message != nil {
			item["message"] = *row.Message
		}
		items = append(items, item)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"income":       items,
			"total_amount": utils.RoundFloat(totalAmount, 2),
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
			},
		},
	})
}
