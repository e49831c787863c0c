package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberconnect/internal/config"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/models"
	"github.com/BruksfildServices01/barberconnect/internal/timezone"
	"github.com/BruksfildServices01/barberconnect/internal/validators"
)

type AuthHandler struct {
	db          *gorm.DB
	config      *config.Config
	emailDomain *validators.EmailDomainChecker
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, emailDomain: validators.NewEmailDomainChecker(nil)}
}

// --------- Requests ---------

type RegisterRequest struct {
	ShopName    string `json:"shop_name" binding:"required"`
	ShopSlug    string `json:"shop_slug" binding:"required"`
	ShopPhone   string `json:"shop_phone"`
	ShopAddress string `json:"shop_address"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.ShopSlug))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !h.emailDomain.Valid(c.Request.Context(), email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not look valid.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", err.Error())
		return
	}

	shop := models.Shop{
		Name:               req.ShopName,
		Slug:               slug,
		Phone:              req.ShopPhone,
		Address:            req.ShopAddress,
		Timezone:           timezone.DefaultTimezone,
		BillingEmail:       email,
		SubscriptionStatus: models.SubscriptionTrialing,
	}
	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "owner",
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&shop).Error; err != nil {
			return err
		}
		user.ShopID = shop.ID
		return tx.Omit("Shop").Create(&user).Error
	})
	if constraint, ok := uniqueViolation(err); ok {
		if strings.Contains(constraint, "email") {
			httperr.BadRequest(c, "email_already_exists", "An account with this email already exists.")
			return
		}
		httperr.BadRequest(c, "slug_already_exists", "That shop address is already taken.")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("register failed")
		httperr.Internal(c, "failed_to_register", err.Error())
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  userJSON(&user),
		"shop":  shopJSON(&shop),
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Shop").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Incorrect email or password.")
			return
		}
		httperr.Internal(c, "internal_error", err.Error())
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Incorrect email or password.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userJSON(&user),
		"shop":  shopJSON(&user.Shop),
		"token": token,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    user.ID.String(),
		"shopId": user.ShopID.String(),
		"role":   user.Role,
		"exp":    now.Add(24 * time.Hour).Unix(),
		"iat":    now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

// --------- Views ---------

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":      u.ID,
		"name":    u.Name,
		"email":   u.Email,
		"phone":   u.Phone,
		"role":    u.Role,
		"shop_id": u.ShopID,
	}
}

func shopJSON(s *models.Shop) gin.H {
	return gin.H{
		"id":                  s.ID,
		"name":                s.Name,
		"slug":                s.Slug,
		"phone":               s.Phone,
		"address":             s.Address,
		"logo_url":            s.LogoURL,
		"timezone":            s.Timezone,
		"opening_time":        s.OpeningTime,
		"closing_time":        s.ClosingTime,
		"subscription_status": s.SubscriptionStatus,
		"account_balance":     s.AccountBalance,
	}
}
