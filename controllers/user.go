package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"cosmetics-storefront/middleware"
	"cosmetics-storefront/models"
	"cosmetics-storefront/pricing"
	"cosmetics-storefront/store"
	"cosmetics-storefront/utils"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// VerificationSender mails the email verification link
type VerificationSender interface {
	SendVerificationEmail(toEmail, token string) error
}

// BalanceReader reads the loyalty balance of a session
type BalanceReader interface {
	Balance(ctx context.Context, sess *models.Session) (int64, error)
}

// UserController handles user-related requests
type UserController struct {
	records  Records
	emails   VerificationSender
	balances BalanceReader
}

// NewUserController creates a new UserController
func NewUserController(records Records, emails VerificationSender, balances BalanceReader) *UserController {
	return &UserController{records: records, emails: emails, balances: balances}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *UserController) findOne(ctx context.Context, filter map[string]any) (*models.User, error) {
	var users []models.User
	if err := uc.records.Read(ctx, store.UsersCollection, filter, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, store.ErrNotFound
	}
	return &users[0], nil
}

func (uc *UserController) findByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}
	return uc.findOne(ctx, map[string]any{"_id": oid})
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	email := normalizeEmail(body.Email)
	if email == "" || !strings.Contains(email, "@") {
		http.Error(w, "A valid email is required", http.StatusBadRequest)
		return
	}
	if len(body.Password) < minPasswordLen {
		http.Error(w, "Password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if _, err := uc.findOne(ctx, map[string]any{"email": email}); err == nil {
		http.Error(w, "User already exists", http.StatusBadRequest)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error().Err(err).Msg("failed to look up user")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}
	verificationToken, err := utils.GenerateVerificationToken(email)
	if err != nil {
		http.Error(w, "Error generating verification token", http.StatusInternalServerError)
		return
	}

	user := models.User{
		Name:              strings.TrimSpace(body.Name),
		Email:             email,
		Password:          string(hashedPassword),
		Phone:             strings.TrimSpace(body.Phone),
		Role:              "user",
		VerificationToken: verificationToken,
	}
	if _, err := uc.records.Create(ctx, store.UsersCollection, user); err != nil {
		log.Error().Err(err).Msg("failed to create user")
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	if err := uc.emails.SendVerificationEmail(email, verificationToken); err != nil {
		log.Error().Err(err).Str("email", email).Msg("failed to send verification email")
		http.Error(w, "Error sending verification email", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, "User registered successfully. Please check your email to verify your account.")
}

// VerifyEmail handles email verification
func (uc *UserController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Verification token missing", http.StatusBadRequest)
		return
	}
	if _, err := utils.ParseJWT(token); err != nil {
		http.Error(w, "Invalid token", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	user, err := uc.findOne(ctx, map[string]any{"verification_token": token})
	if err != nil {
		http.Error(w, "User not found or already verified", http.StatusBadRequest)
		return
	}
	err = uc.records.Update(ctx, store.UsersCollection, user.ID.Hex(), map[string]any{
		"is_verified":        true,
		"verification_token": "",
	})
	if err != nil {
		http.Error(w, "Error updating user verification status", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, "Email verified successfully. You can now log in.")
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	user, err := uc.findOne(ctx, map[string]any{"email": normalizeEmail(creds.Email)})
	if err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if !user.IsVerified {
		http.Error(w, "Email not verified", http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetProfile retrieves the authenticated user's profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.CurrentSession(r.Context())
	if !ok {
		http.Error(w, "Could not parse user from context", http.StatusUnauthorized)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	user, err := uc.findByID(ctx, sess.UserID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile changes the display name, phone and default address
func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.CurrentSession(r.Context())
	if !ok {
		http.Error(w, "Could not parse user from context", http.StatusUnauthorized)
		return
	}
	var body struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	err := uc.records.Update(ctx, store.UsersCollection, sess.UserID, map[string]any{
		"name":    strings.TrimSpace(body.Name),
		"phone":   strings.TrimSpace(body.Phone),
		"address": strings.TrimSpace(body.Address),
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", sess.UserID).Msg("failed to update profile")
		http.Error(w, "Error updating profile", http.StatusInternalServerError)
		return
	}
	user, err := uc.findByID(ctx, sess.UserID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetLoyalty returns the point balance and how much of it can be redeemed
func (uc *UserController) GetLoyalty(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.CurrentSession(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	balance, err := uc.balances.Balance(ctx, sess)
	if err != nil {
		log.Error().Err(err).Str("user_id", sess.UserID).Msg("failed to read loyalty balance")
		http.Error(w, "Loyalty balance unavailable", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, pricing.LoyaltyProgress(balance))
}
