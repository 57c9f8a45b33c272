package floor

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptAuthorizer approves credentials matching a configured bcrypt hash.
type BcryptAuthorizer struct {
	hash []byte
}

func NewBcryptAuthorizer(hash string) (*BcryptAuthorizer, error) {
	if hash == "" {
		return nil, errors.New("admin password hash is required")
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}
	return &BcryptAuthorizer{hash: []byte(hash)}, nil
}

func (a *BcryptAuthorizer) Authorize(ctx context.Context, credential string) bool {
	if credential == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.hash, []byte(credential)) == nil
}
