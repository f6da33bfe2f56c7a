package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=booking dbname=booking sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

// Availability maps belong to team members only; the bookable-team queries
// filter the same way, so an editable member is always a bookable one.
func TestMemberScopeTeamOnly(t *testing.T) {
	h := NewStaffAvailabilityHandler(dryRunDB(t), nil)

	var count int64
	stmt := h.memberScope(1, 10).Count(&count).Statement

	assert.Contains(t, stmt.Vars, "team")
	assert.NotContains(t, stmt.Vars, "admin")
}
