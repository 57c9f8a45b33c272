package floor

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewBcryptAuthorizer(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword() error = %v", err)
	}

	tests := []struct {
		name    string
		hash    string
		wantErr bool
	}{
		{name: "validHash", hash: string(hash)},
		{name: "emptyHash", hash: "", wantErr: true},
		{name: "plaintext", hash: testAdminPassword, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewBcryptAuthorizer(tt.hash)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewBcryptAuthorizer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && a == nil {
				t.Error("NewBcryptAuthorizer() returned nil")
			}
		})
	}
}

func TestBcryptAuthorizerAuthorize(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	a, err := NewBcryptAuthorizer(string(hash))
	if err != nil {
		t.Fatalf("NewBcryptAuthorizer() error = %v", err)
	}

	tests := []struct {
		name       string
		credential string
		want       bool
	}{
		{name: "correctPassword", credential: testAdminPassword, want: true},
		{name: "wrongPassword", credential: "admin124", want: false},
		{name: "emptyPassword", credential: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Authorize(context.Background(), tt.credential); got != tt.want {
				t.Errorf("Authorize(%q) = %v, want %v", tt.credential, got, tt.want)
			}
		})
	}
}
