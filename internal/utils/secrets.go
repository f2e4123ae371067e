package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecret generates a cryptographically secure random hex secret
func GenerateSecret(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ServerSecrets are the shared secrets the API server needs at startup
type ServerSecrets struct {
	JWTSecret         string
	MaintenanceSecret string
}

// GenerateServerSecrets generates independent JWT and maintenance secrets
func GenerateServerSecrets() (ServerSecrets, error) {
	jwtSecret, err := GenerateSecret(32) // 256-bit
	if err != nil {
		return ServerSecrets{}, fmt.Errorf("failed to generate JWT secret: %w", err)
	}

	maintenanceSecret, err := GenerateSecret(24)
	if err != nil {
		return ServerSecrets{}, fmt.Errorf("failed to generate maintenance secret: %w", err)
	}

	return ServerSecrets{JWTSecret: jwtSecret, MaintenanceSecret: maintenanceSecret}, nil
}
