package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bookmyappointment/booking-api/internal/models"
)

// dryRunDB builds statements against the postgres dialector without a
// connection, so the SQL the repository generates can be inspected.
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

func conflictStatement(t *testing.T, excludeID uint) *gorm.Statement {
	t.Helper()
	ap := &models.Appointment{
		BusinessID: 1,
		Date:       "2026-08-24",
		StartMin:   600,
		EndMin:     630,
	}

	var rows []models.Appointment
	tx := conflictScan(dryRunDB(t), ap, []uint{10, 11}, excludeID).Find(&rows)
	require.NoError(t, tx.Error)
	return tx.Statement
}

// The conflict lookup must hold a row lock, and a locked select cannot
// carry a DISTINCT clause on postgres.
func TestConflictScanLocksWithoutDistinct(t *testing.T) {
	sql := conflictStatement(t, 0).SQL.String()

	assert.Contains(t, sql, `FOR UPDATE OF "appointments"`)
	assert.NotContains(t, sql, "DISTINCT")
	assert.Contains(t, sql, "JOIN appointment_staffs")
	assert.Contains(t, sql, "LIMIT")
}

func TestConflictScanOverlapPredicate(t *testing.T) {
	stmt := conflictStatement(t, 0)

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "appointments.start_min <")
	assert.Contains(t, sql, "appointments.end_min >")
	assert.Contains(t, stmt.Vars, 630) // candidate end bounds start_min
	assert.Contains(t, stmt.Vars, 600) // candidate start bounds end_min
}

func TestConflictScanExcludesMovedAppointment(t *testing.T) {
	stmt := conflictStatement(t, 42)

	assert.Contains(t, stmt.SQL.String(), "appointments.id <> ?")
	assert.Contains(t, stmt.Vars, uint(42))
}
