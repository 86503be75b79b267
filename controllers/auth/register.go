package auth

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/http"
	"strings"
	"time"

	"project/database"
	"project/middleware"
	"project/models"
	"project/services"
	"project/utils"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,nameok"`
	Number               string `json:"number" validate:"required,phone8"`
	Password             string `json:"password" validate:"required,pwdmin"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	ReferralCode         string `json:"referral_code"`
}

const reffCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateReffCode() string {
	b := make([]byte, 8)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(reffCodeAlphabet))))
		if err != nil {
			n = big.NewInt(time.Now().UnixNano() % int64(len(reffCodeAlphabet)))
		}
		b[i] = reffCodeAlphabet[n.Int64()]
	}
	return string(b)
}

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	var appSetting models.Setting
	if err := database.DB.Model(&models.Setting{}).Select("closed_register, maintenance, name").Take(&appSetting).Error; err == nil {
		if appSetting.ClosedRegister {
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{
				Success: false,
				Message: "Registration is currently closed",
				Data:    map[string]interface{}{"closed_register": true, "application": appSetting.Name},
			})
			return
		}
		if appSetting.Maintenance {
			utils.WriteJSON(w, http.StatusServiceUnavailable, utils.APIResponse{
				Success: false,
				Message: "Application is under maintenance, please try again later",
				Data:    map[string]interface{}{"maintenance": true, "application": appSetting.Name},
			})
			return
		}
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Number = strings.TrimSpace(req.Number)
	req.ReferralCode = strings.TrimSpace(req.ReferralCode)

	db := database.DB

	var existing models.User
	if err := db.Where("number = ?", req.Number).Select("id").First(&existing).Error; err == nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Phone number is already registered"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	var reffBy *uint
	if req.ReferralCode != "" {
		var referrer models.User
		if err := db.Where("reff_code = ?", req.ReferralCode).Select("id").First(&referrer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Referral code not found"})
				return
			}
			utils.WriteError(w, http.StatusInternalServerError, "Database error")
			return
		}
		reffBy = &referrer.ID
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	user := models.User{
		Name:     req.Name,
		Number:   req.Number,
		Password: string(hashed),
		ReffBy:   reffBy,
		Status:   "Active",
	}

	// Retry on the rare reff_code collision.
	for attempt := 0; attempt < 3; attempt++ {
		user.ReffCode = generateReffCode()
		if err = db.Create(&user).Error; err == nil {
			break
		}
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	// The welcome bonus is best effort: a failure here must not undo the
	// registration itself.
	settings := services.NewSettingsService(db)
	investments := services.NewInvestmentService(db, settings, services.NewCommissionService(db, settings))
	if err := investments.GrantWelcomeBonus(user.ID); err != nil {
		log.WithField("user_id", user.ID).Warnf("welcome bonus grant failed: %v", err)
	}

	token, err := utils.GenerateAccessToken(user.ID, "user")
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Registration successful",
		Data: map[string]interface{}{
			"token": token,
			"user": map[string]interface{}{
				"id":        user.ID,
				"name":      user.Name,
				"number":    user.Number,
				"reff_code": user.ReffCode,
			},
		},
	})
}
