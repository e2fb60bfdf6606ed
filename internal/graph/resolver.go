package graph

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storefront-dev/storefront/internal/auth"
	"github.com/storefront-dev/storefront/internal/models"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("cannot manage addresses of another user")
)

// LogoutObserver is told how each logout ended: "revoked" or "anonymous"
type LogoutObserver func(result string)

// Resolver implements the account API operations
type Resolver struct {
	db       *gorm.DB
	issuer   *auth.Issuer
	validate *validator.Validate
	logger   zerolog.Logger
	onLogout LogoutObserver
	now      func() time.Time
}

// NewResolver creates a resolver backed by db
func NewResolver(db *gorm.DB, issuer *auth.Issuer, logger zerolog.Logger) *Resolver {
	return &Resolver{
		db:       db,
		issuer:   issuer,
		validate: validator.New(),
		logger:   logger,
		onLogout: func(string) {},
		now:      time.Now,
	}
}

// OnLogout registers an observer for logout outcomes
func (r *Resolver) OnLogout(fn LogoutObserver) {
	r.onLogout = fn
}

func userPayload(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
	}
}

func addressPayload(a *models.Address) map[string]interface{} {
	return map[string]interface{}{
		"id":           a.ID,
		"fullName":     a.FullName,
		"phone":        a.Phone,
		"addressLine1": a.AddressLine1,
		"addressLine2": a.AddressLine2,
		"city":         a.City,
		"state":        a.State,
		"country":      a.Country,
		"postalCode":   a.PostalCode,
		"isDefault":    a.IsDefault,
	}
}

func requireSession(p graphql.ResolveParams) (*auth.SessionData, error) {
	s, ok := auth.SessionFromContext(p.Context)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return s, nil
}

func (r *Resolver) login(p graphql.ResolveParams) (interface{}, error) {
	email, _ := p.Args["email"].(string)
	password, _ := p.Args["password"].(string)

	var user models.User
	if err := r.db.WithContext(p.Context).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		r.logger.Error().Err(err).Msg("Failed to find user")
		return nil, errors.New("internal server error")
	}

	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, _, err := r.issuer.GenerateToken(user.ID, user.Email)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to generate token")
		return nil, errors.New("failed to generate token")
	}

	r.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User logged in")

	return map[string]interface{}{
		"token": token,
		"user":  userPayload(&user),
	}, nil
}

// logout revokes the token of the calling session. Without a session there
// is nothing to revoke and the call succeeds.
func (r *Resolver) logout(p graphql.ResolveParams) (interface{}, error) {
	s, ok := auth.SessionFromContext(p.Context)
	if !ok {
		r.onLogout("anonymous")
		return true, nil
	}

	db := r.db.WithContext(p.Context)
	revoked := &models.RevokedToken{
		TokenID:   s.TokenID,
		UserID:    s.UserID,
		ExpiresAt: s.ExpiresAt,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(revoked).Error; err != nil {
		r.logger.Error().Err(err).Str("user_id", s.UserID).Msg("Failed to revoke token")
		return nil, errors.New("failed to end session")
	}

	// Expired tokens fail validation on their own, their revocations can go
	if err := db.Where("expires_at < ?", r.now()).Delete(&models.RevokedToken{}).Error; err != nil {
		r.logger.Warn().Err(err).Msg("Failed to purge expired revocations")
	}

	r.onLogout("revoked")
	r.logger.Info().Str("user_id", s.UserID).Str("token_id", s.TokenID).Msg("User logged out")

	return true, nil
}

func (r *Resolver) me(p graphql.ResolveParams) (interface{}, error) {
	s, ok := auth.SessionFromContext(p.Context)
	if !ok {
		return nil, nil
	}

	var user models.User
	if err := r.db.WithContext(p.Context).Where("id = ?", s.UserID).First(&user).Error; err != nil {
		r.logger.Error().Err(err).Str("user_id", s.UserID).Msg("Failed to find user")
		return nil, errors.New("internal server error")
	}

	return userPayload(&user), nil
}

func (r *Resolver) userAddresses(p graphql.ResolveParams) (interface{}, error) {
	s, err := requireSession(p)
	if err != nil {
		return nil, err
	}

	var addresses []models.Address
	if err := r.db.WithContext(p.Context).
		Where("user_id = ?", s.UserID).
		Order("is_default DESC, created_at ASC, id ASC").
		Find(&addresses).Error; err != nil {
		r.logger.Error().Err(err).Str("user_id", s.UserID).Msg("Failed to list addresses")
		return nil, errors.New("internal server error")
	}

	out := make([]interface{}, len(addresses))
	for i := range addresses {
		out[i] = addressPayload(&addresses[i])
	}
	return out, nil
}

// addressInput mirrors the AddressInput GraphQL type
type addressInput struct {
	FullName     string `validate:"required,max=200"`
	Phone        string `validate:"max=40"`
	AddressLine1 string `validate:"required,max=200"`
	AddressLine2 string `validate:"max=200"`
	City         string `validate:"required,max=100"`
	State        string `validate:"max=100"`
	Country      string `validate:"required,max=100"`
	PostalCode   string `validate:"required,max=20"`
	IsDefault    bool
}

func parseAddressInput(m map[string]interface{}) addressInput {
	str := func(key string) string {
		s, _ := m[key].(string)
		return s
	}
	isDefault, _ := m["isDefault"].(bool)

	return addressInput{
		FullName:     str("fullName"),
		Phone:        str("phone"),
		AddressLine1: str("addressLine1"),
		AddressLine2: str("addressLine2"),
		City:         str("city"),
		State:        str("state"),
		Country:      str("country"),
		PostalCode:   str("postalCode"),
		IsDefault:    isDefault,
	}
}

func (r *Resolver) validateAddress(in addressInput) error {
	err := r.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid address: %s failed on '%s'", fe.Field(), fe.Tag())
	}
	return fmt.Errorf("invalid address: %w", err)
}

func (r *Resolver) createAddress(p graphql.ResolveParams) (interface{}, error) {
	s, err := requireSession(p)
	if err != nil {
		return nil, err
	}

	userID, _ := p.Args["userId"].(string)
	if userID != s.UserID {
		return nil, ErrForbidden
	}

	raw, _ := p.Args["input"].(map[string]interface{})
	in := parseAddressInput(raw)
	if err := r.validateAddress(in); err != nil {
		return nil, err
	}

	addr := models.Address{
		UserID:       userID,
		FullName:     in.FullName,
		Phone:        in.Phone,
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		City:         in.City,
		State:        in.State,
		Country:      in.Country,
		PostalCode:   in.PostalCode,
	}

	err = r.db.WithContext(p.Context).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Address{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}

		// The first address is always the default
		addr.IsDefault = in.IsDefault || count == 0
		if addr.IsDefault && count > 0 {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ? AND is_default = ?", userID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}

		return tx.Create(&addr).Error
	})
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create address")
		return nil, errors.New("failed to create address")
	}

	r.logger.Info().Str("user_id", userID).Str("address_id", addr.ID).Msg("Address created")

	return addressPayload(&addr), nil
}
