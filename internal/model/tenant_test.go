package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantBeforeCreateDefaults(t *testing.T) {
	tenant := &Tenant{Name: "Acme"}
	require.NoError(t, tenant.BeforeCreate(nil))

	assert.NotEqual(t, uuid.Nil, tenant.ID)
	assert.Equal(t, TenantActive, tenant.Status)
	assert.False(t, tenant.ActivationDate.IsZero())

	// A tenant created without settings must keep the pointer nil so the
	// column is written as NULL; '' is not valid jsonb.
	assert.Nil(t, tenant.Settings)
}

func TestTenantBeforeCreateKeepsProvidedValues(t *testing.T) {
	settings := `{"theme":"dark"}`
	id := uuid.New()
	tenant := &Tenant{
		ID:       id,
		Name:     "Acme",
		Status:   TenantSuspended,
		Settings: &settings,
	}
	require.NoError(t, tenant.BeforeCreate(nil))

	assert.Equal(t, id, tenant.ID)
	assert.Equal(t, TenantSuspended, tenant.Status)
	require.NotNil(t, tenant.Settings)
	assert.JSONEq(t, settings, *tenant.Settings)
}

func TestTenantJSONOmitsEmptySettings(t *testing.T) {
	tenant := &Tenant{Name: "Acme"}
	require.NoError(t, tenant.BeforeCreate(nil))

	out, err := json.Marshal(tenant)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"settings"`)
}

func TestTenantStatusValid(t *testing.T) {
	tests := []struct {
		status TenantStatus
		want   bool
	}{
		{TenantActive, true},
		{TenantInactive, true},
		{TenantSuspended, true},
		{TenantStatus("deleted"), false},
		{TenantStatus(""), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.Valid(), string(tt.status))
	}
}
