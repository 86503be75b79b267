package controllers

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"project/database"
	"project/services"
	"project/utils"

	"github.com/gorilla/mux"
)

// cronAuthorized checks the X-CRON-KEY header against CRON_KEY. An unset
// CRON_KEY disables the cron endpoints entirely.
func cronAuthorized(r *http.Request) bool {
	key := os.Getenv("CRON_KEY")
	return key != "" && r.Header.Get("X-CRON-KEY") == key
}

// POST /api/cron/daily-returns?force=true
func CronDailyReturnsHandler(w http.ResponseWriter, r *http.Request) {
	if !cronAuthorized(r) {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	force := r.URL.Query().Get("force") == "true"
	scheduler := services.NewPayoutScheduler(database.DB)

	processed, total, err := scheduler.ProcessDailyROI(force)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Payout pass failed")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Daily returns processed",
		Data: map[string]interface{}{
			"processed": processed,
			"total":     total,
			"force":     force,
		},
	})
}

// POST /api/cron/daily-returns/{id}?force=true
func CronInvestmentPayoutHandler(w http.ResponseWriter, r *http.Request) {
	if !cronAuthorized(r) {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid investment id"})
		return
	}
	force := r.URL.Query().Get("force") == "true"

	scheduler := services.NewPayoutScheduler(database.DB)
	err = scheduler.ProcessInvestment(uint(id), force, time.Now())
	switch {
	case err == nil:
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
			Success: true,
			Message: "Payout processed",
			Data:    map[string]interface{}{"investment_id": id, "processed": true},
		})
	case errors.Is(err, services.ErrNotDue):
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
			Success: true,
			Message: "Payout not due",
			Data:    map[string]interface{}{"investment_id": id, "processed": false},
		})
	case errors.Is(err, services.ErrNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Investment not found"})
	case errors.Is(err, services.ErrInvalidConfiguration):
		utils.WriteJSON(w, http.StatusUnprocessableEntity, utils.APIResponse{Success: false, Message: "Investment has an invalid payout configuration"})
	default:
		utils.WriteError(w, http.StatusInternalServerError, "Payout failed")
	}
}

// POST /api/cron/commissions?limit=100
func CronCommissionsHandler(w http.ResponseWriter, r *http.Request) {
	if !cronAuthorized(r) {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	db := database.DB
	commissions := services.NewCommissionService(db, services.NewSettingsService(db))
	done, err := commissions.DispatchPending(limit)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Commission dispatch failed")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Commission jobs dispatched",
		Data:    map[string]interface{}{"dispatched": done},
	})
}
