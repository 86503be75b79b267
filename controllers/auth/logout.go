package auth

import (
	"net/http"
	"strings"
	"time"

	"project/utils"
)

// LogoutHandler revokes the presented access token for the remainder of its
// lifetime. Without a configured Redis the revocation is a no-op and the
// client simply drops the token.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenStr == "" || tokenStr == authHeader {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	_, claims, err := utils.ValidateAccessToken(tokenStr)
	if err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid token"})
		return
	}

	ttl := 24 * time.Hour
	if exp, ok := claims["exp"].(float64); ok {
		if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
			ttl = remaining
		}
	}
	if jti, ok := claims["jti"].(string); ok {
		if err := utils.RevokeJTI(jti, ttl); err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Failed to revoke token")
			return
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out"})
}
