package service

import (
	"context"
	"fmt"

	"storeapi/internal/api/apperror"
	"storeapi/internal/api/mapping"

	"golang.org/x/crypto/bcrypt"
)

const passwordKey = "password"

// AccountService hashes passwords before they reach the store. The account
// mapping never exposes the password column.
type AccountService struct {
	*Base
}

func NewAccountService(base *Base) *AccountService {
	return &AccountService{Base: base}
}

func (slf *AccountService) Create(ctx context.Context, input mapping.Entity) (mapping.Entity, error) {
	if input.String(passwordKey) == "" {
		return nil, apperror.NewValidation(apperror.ErrorItem{
			Field:   passwordKey,
			Message: "password is required",
			Type:    apperror.TypeRequired,
		})
	}
	hashed, err := slf.hash(input)
	if err != nil {
		return nil, err
	}
	return slf.Base.Create(ctx, hashed)
}

func (slf *AccountService) Update(ctx context.Context, id string, input mapping.Entity) (mapping.Entity, error) {
	if !input.Has(passwordKey) {
		return slf.Base.Update(ctx, id, input)
	}
	if input.String(passwordKey) == "" {
		// An empty password keeps the current one.
		trimmed := copyEntity(input)
		delete(trimmed, passwordKey)
		return slf.Base.Update(ctx, id, trimmed)
	}
	hashed, err := slf.hash(input)
	if err != nil {
		return nil, err
	}
	return slf.Base.Update(ctx, id, hashed)
}

func (slf *AccountService) hash(input mapping.Entity) (mapping.Entity, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.String(passwordKey)), bcrypt.DefaultCost)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error hashing password")
		return nil, fmt.Errorf("hash password: %w", err)
	}
	out := copyEntity(input)
	out[passwordKey] = string(hashedPassword)
	return out, nil
}

// CheckPassword reports whether plain matches the stored hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func copyEntity(e mapping.Entity) mapping.Entity {
	out := make(mapping.Entity, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
