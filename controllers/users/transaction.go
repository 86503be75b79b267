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

// GET /api/users/transactions?type=&wallet=&page=&limit=&search=
func GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	txType := strings.TrimSpace(r.URL.Query().Get("type"))
	wallet := strings.TrimSpace(r.URL.Query().Get("wallet"))
	searchQuery := strings.TrimSpace(r.URL.Query().Get("search"))

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	db := database.DB
	q := db.Model(&models.Transaction{}).Where("user_id = ?", uid)
	if txType != "" && txType != "null" {
		q = q.Where("transaction_type = ?", txType)
	}
	if wallet != "" {
		q = q.Where("wallet = ?", wallet)
	}
	if searchQuery != "" {
		q = q.Where("order_id LIKE ?", "%"+searchQuery+"%")
	}

	var totalRows int64
	if err := q.Count(&totalRows).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	var rows []models.Transaction
	if err := q.Order("id DESC").Offset((page - 1) * limit).Limit(limit).Find(&rows).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	items := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		item := map[string]interface{}{
			"id":               row.ID,
			"order_id":         row.OrderID,
			"wallet":           row.Wallet,
			"amount":           row.Amount,
			"balance_after":    row.BalanceAfter,
			"transaction_flow": row.TransactionFlow,
			"transaction_type": row.TransactionType,
			"status":           row.Status,
			"created_at":       row.CreatedAt,
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
			"transactions": items,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
			},
		},
	})
}
