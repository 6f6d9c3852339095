package hasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashIsSaltedAndVerifiable(t *testing.T) {
	h := New(bcrypt.MinCost) // MinCost is raised to DefaultCost by New

	first, err := h.Hash("correcthorse")
	require.NoError(t, err)
	second, err := h.Hash("correcthorse")
	require.NoError(t, err)

	assert.NotEqual(t, "correcthorse", first)
	assert.NotEqual(t, first, second, "two hashes of the same password must differ")
	assert.True(t, h.Check("correcthorse", first))
	assert.True(t, h.Check("correcthorse", second))
}

func TestCheck(t *testing.T) {
	h := New(bcrypt.DefaultCost)
	hash, err := h.Hash("s3cret-password")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{
			name:     "matching password",
			password: "s3cret-password",
			hash:     hash,
			want:     true,
		},
		{
			name:     "wrong password",
			password: "wrong-password",
			hash:     hash,
			want:     false,
		},
		{
			name:     "malformed hash",
			password: "s3cret-password",
			hash:     "not-a-bcrypt-hash",
			want:     false,
		},
		{
			name:     "empty hash",
			password: "s3cret-password",
			hash:     "",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.Check(tt.password, tt.hash))
		})
	}
}

func TestNewEnforcesMinimumCost(t *testing.T) {
	h := New(4)
	hash, err := h.Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cost, bcrypt.DefaultCost)
}
