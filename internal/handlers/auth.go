package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/acfc/acfc/internal/auth"
	"github.com/acfc/acfc/internal/httpx"
	"github.com/acfc/acfc/internal/i18n"
	"github.com/acfc/acfc/internal/middleware"
	"github.com/acfc/acfc/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthHandler porte la connexion, la déconnexion et la fiche de session.
type AuthHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewAuthHandler(db *gorm.DB, log *zap.Logger) *AuthHandler {
	return &AuthHandler{DB: db, Log: log}
}

type loginRequest struct {
	Pseudo   string `json:"pseudo"`
	Password string `json:"password"`
}

// Login : POST /login — JSON ou formulaire. Trois échecs consécutifs
// verrouillent le compte jusqu'à intervention d'un administrateur.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}
	lang := middleware.LangFrom(r)

	var req loginRequest
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
			return
		}
		req.Pseudo = r.Form.Get("pseudo")
		req.Password = r.Form.Get("password")
	}
	req.Pseudo = strings.TrimSpace(req.Pseudo)
	if req.Pseudo == "" || req.Password == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_credentials", i18n.T(lang, "invalid_credentials"))
		return
	}

	var user models.User
	err := h.DB.Where("pseudo = ? AND is_active = ?", req.Pseudo, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Même réponse qu'un mauvais mot de passe, pas d'énumération de comptes.
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", i18n.T(lang, "invalid_credentials"))
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	if user.IsLocked {
		httpx.JSONError(w, http.StatusForbidden, "account_locked", i18n.T(lang, "account_locked"))
		return
	}
	if !auth.VerifyPassword(req.Password, user.ShaMdp) {
		updates := map[string]any{"nb_errors": user.NbErrors + 1}
		if user.NbErrors+1 >= models.MaxLoginErrors {
			updates["is_locked"] = true
			h.Log.Warn("compte verrouillé après échecs de connexion",
				zap.String("pseudo", user.Pseudo))
		}
		h.DB.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates)
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", i18n.T(lang, "invalid_credentials"))
		return
	}

	if user.NbErrors != 0 {
		h.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("nb_errors", 0)
	}
	auth.CreateSession(w, auth.Identity{
		UserID:        user.ID,
		Pseudo:        user.Pseudo,
		Habilitations: user.Permission,
	})
	h.Log.Info("connexion", zap.String("pseudo", user.Pseudo))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"pseudo":        user.Pseudo,
		"habilitations": user.Permission,
		"is_chg_mdp":    user.IsChgMdp,
	})
}

// Logout : POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}
	auth.ClearSession(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me : GET /me — fiche de la session courante.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user_id":       id.UserID,
		"pseudo":        id.Pseudo,
		"habilitations": id.Habilitations,
	})
}

// ChangePassword : POST /password — change le mot de passe de la session
// courante et lève le flag is_chg_mdp.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req struct {
		Current string `json:"current"`
		New     string `json:"new"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if len(req.New) < 8 {
		httpx.JSONError(w, http.StatusBadRequest, "password_too_short", nil)
		return
	}
	var user models.User
	if err := h.DB.First(&user, id.UserID).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if !auth.VerifyPassword(req.Current, user.ShaMdp) {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	hash, err := auth.HashPassword(req.New)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	err = h.DB.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]any{"sha_mdp": hash, "is_chg_mdp": false, "date_chg_mdp": gorm.Expr("CURRENT_TIMESTAMP")}).Error
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}
