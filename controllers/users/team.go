package users

import (
	"net/http"
	"strconv"
	"strings"

	"project/database"
	"project/models"
	"project/services"
	"project/utils"

	"github.com/gorilla/mux"
)

// TeamInvitedHandler serves /api/users/team-invited and
// /api/users/team-invited/{level}. Without a level it returns a per-level
// summary of the whole downline; with one it also returns that level's
// members.
func TeamInvitedHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	maxLevels, err := services.NewSettingsService(db).GetMaxTeamLevels()
	if err != nil || maxLevels < 1 {
		maxLevels = services.DefaultMaxTeamLevels
	}

	levelStr := mux.Vars(r)["level"]
	level, levelErr := strconv.Atoi(levelStr)
	hasLevel := levelErr == nil && level >= 1 && level <= maxLevels
	if levelStr != "" && !hasLevel {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid team level"})
		return
	}

	fetch := func(parentIDs []uint) ([]models.User, error) {
		var members []models.User
		if len(parentIDs) == 0 {
			return members, nil
		}
		err := db.Where("reff_by IN ?", parentIDs).
			Select("id, name, number, reff_by, investment_status, total_invested, created_at").
			Find(&members).Error
		return members, err
	}

	countActive := func(members []models.User) int {
		n := 0
		for _, m := range members {
			if strings.ToLower(m.InvestmentStatus) == "active" {
				n++
			}
		}
		return n
	}

	summary := make([]map[string]interface{}, 0, maxLevels)
	var requested []models.User
	parents := []uint{uid}
	totalMembers := 0

	for lvl := 1; lvl <= maxLevels; lvl++ {
		members, err := fetch(parents)
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if len(members) == 0 {
			break
		}

		var invested float64
		parents = parents[:0]
		for _, m := range members {
			invested += m.TotalInvested
			parents = append(parents, m.ID)
		}

		summary = append(summary, map[string]interface{}{
			"level":          lvl,
			"total":          len(members),
			"active":         countActive(members),
			"total_invested": utils.RoundFloat(invested, 2),
		})
		totalMembers += len(members)

		if hasLevel && lvl == level {
			requested = members
		}
	}

	data := map[string]interface{}{
		"levels":        summary,
		"max_levels":    maxLevels,
		"total_members": totalMembers,
	}
	if hasLevel {
		members := make([]map[string]interface{}, 0, len(requested))
		for _, m := range requested {
			members = append(members, map[string]interface{}{
				"name":              maskName(m.Name),
				"number":            maskNumber(m.Number),
				"investment_status": m.InvestmentStatus,
				"total_invested":    utils.RoundFloat(m.TotalInvested, 2),
				"joined_at":         m.CreatedAt,
			})
		}
		data["level"] = level
		data["members"] = members
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: data})
}

func maskNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[:3] + strings.Repeat("*", len(number)-5) + number[len(number)-2:]
}

func maskName(name string) string {
	if len(name) <= 2 {
		return name
	}
	return name[:2] + strings.Repeat("*", len(name)-2)
}
