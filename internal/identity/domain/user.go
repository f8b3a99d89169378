package domain

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	// Provider / ProviderID record a federated identity; such users have
	// no local password.
	Provider   string    `json:"provider,omitempty"`
	ProviderID string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}
