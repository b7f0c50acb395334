package repositories

import (
	"encoding/json"
	"testing"

	"cardbank/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The cache serializes through encoding/json, and Customer strips Password
// from JSON. The envelope must carry the hash anyway or a login served from
// the cache would compare against an empty string.
func TestCustomerCacheEntry_KeepsPasswordHash(t *testing.T) {
	stored := &models.Customer{
		Email:    "alice@example.com",
		Password: "$2a$10$abcdefghijklmnopqrstuv",
		Name:     "Alice",
		Role:     models.RoleCustomer,
	}

	data, err := json.Marshal(newCustomerCacheEntry(stored))
	require.NoError(t, err)

	var roundTripped customerCacheEntry
	require.NoError(t, json.Unmarshal(data, &roundTripped))

	got := roundTripped.customer()
	assert.Equal(t, stored.Email, got.Email)
	assert.Equal(t, stored.Password, got.Password, "password hash must survive the cache round trip")
}

// The model itself must keep hiding the hash from API responses.
func TestCustomerJSON_OmitsPassword(t *testing.T) {
	data, err := json.Marshal(models.Customer{Email: "alice@example.com", Password: "secret-hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-hash")
}
