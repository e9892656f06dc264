package database

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuriajuanca/casamiento/internal/config"
)

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(&config.Config{DatabaseProvider: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database provider")
}

func TestNewNeonRequiresConnectionString(t *testing.T) {
	_, err := New(&config.Config{DatabaseProvider: "neon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection string")
}

func TestNewSupabaseRequiresCredentials(t *testing.T) {
	cases := []*config.Config{
		{DatabaseProvider: "supabase"},
		{DatabaseProvider: "supabase", SupabaseURL: "https://example.supabase.co"},
		{DatabaseProvider: "supabase", SupabaseServiceKey: "service-key"},
	}
	for _, cfg := range cases {
		_, err := New(cfg)
		assert.Error(t, err)
	}
}

func TestNewSupabaseClient(t *testing.T) {
	client, err := NewSupabaseClient("https://example.supabase.co/", "service-key")
	require.NoError(t, err)
	defer client.Close()

	// The builder accumulates without any I/O.
	assert.NotNil(t, client.From("invitation_links").Select("id").Eq("id", "abc12345").Single())
}

func TestIsNullResult(t *testing.T) {
	assert.True(t, isNullResult(nil))
	assert.True(t, isNullResult(json.RawMessage("")))
	assert.True(t, isNullResult(json.RawMessage("null")))
	assert.False(t, isNullResult(json.RawMessage("[]")))
	assert.False(t, isNullResult(json.RawMessage(`{"id":"abc12345"}`)))
}
