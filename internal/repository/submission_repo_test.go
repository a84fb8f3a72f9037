package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ictbranch/intake-api/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Submission{}))

	return db
}

func seedSubmission(t *testing.T, db *gorm.DB, submission models.Submission) models.Submission {
	t.Helper()
	require.NoError(t, db.Create(&submission).Error)
	return submission
}

func TestListByTypeAndStatusMatchesBothColumns(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubmissionRepository(db)

	seedSubmission(t, db, models.Submission{FormType: models.FormTypeTOT, Status: models.StatusPending, NameWithInitial: "A. Perera", Email: "a@example.com", IDNumber: "X1", Phone1: "0711111111"})
	seedSubmission(t, db, models.Submission{FormType: models.FormTypeTOT, Status: models.StatusApproved, NameWithInitial: "B. Silva", Email: "b@example.com", IDNumber: "X2", Phone1: "0712222222"})
	seedSubmission(t, db, models.Submission{FormType: models.FormTypeWorkshop, Status: models.StatusPending, NameWithInitial: "C. Fernando", Email: "c@example.com", IDNumber: "X3", Phone1: "0713333333"})

	pending, err := repo.ListByTypeAndStatus(context.Background(), models.FormTypeTOT, models.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "X1", pending[0].IDNumber)

	for _, submission := range pending {
		require.Equal(t, models.FormTypeTOT, submission.FormType)
		require.Equal(t, models.StatusPending, submission.Status)
	}
}

func TestListByTypeAndStatusEmptyResultIsNotAnError(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubmissionRepository(db)

	submissions, err := repo.ListByTypeAndStatus(context.Background(), models.FormTypeSeminar, models.StatusApproved)
	require.NoError(t, err)
	require.Empty(t, submissions)
}

func TestUpdateFieldsLeavesOtherColumnsUntouched(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubmissionRepository(db)

	created := seedSubmission(t, db, models.Submission{FormType: models.FormTypeTechnical, Status: models.StatusApproved, NameWithInitial: "D. Jayasuriya", Email: "d@example.com", IDNumber: "X4", Phone1: "0714444444", Address: "Old Town"})

	now := time.Now()
	err := repo.UpdateFields(context.Background(), created.ID, map[string]interface{}{
		"address":      "New Town",
		"last_updated": now,
	})
	require.NoError(t, err)

	updated, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "New Town", updated.Address)
	require.NotNil(t, updated.LastUpdated)
	require.Equal(t, "D. Jayasuriya", updated.NameWithInitial)
	require.Equal(t, "0714444444", updated.Phone1)
	require.Equal(t, models.StatusApproved, updated.Status)
}

func TestUpdateFieldsUnknownIDReturnsNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubmissionRepository(db)

	err := repo.UpdateFields(context.Background(), 999, map[string]interface{}{"address": "Nowhere"})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteRemovesTheRecord(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubmissionRepository(db)

	created := seedSubmission(t, db, models.Submission{FormType: models.FormTypeSeminar, Status: models.StatusApproved, NameWithInitial: "E. de Silva", Email: "e@example.com", IDNumber: "X5", Phone1: "0715555555"})

	require.NoError(t, repo.Delete(context.Background(), created.ID))

	_, err := repo.GetByID(context.Background(), created.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.ErrorIs(t, repo.Delete(context.Background(), created.ID), gorm.ErrRecordNotFound)
}

func TestCountByTypeGroupsByStatus(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubmissionRepository(db)

	for i := 0; i < 3; i++ {
		seedSubmission(t, db, models.Submission{FormType: models.FormTypeTOT, Status: models.StatusPending, NameWithInitial: "P", Email: "p@example.com", IDNumber: "P", Phone1: "071"})
	}
	seedSubmission(t, db, models.Submission{FormType: models.FormTypeTOT, Status: models.StatusApproved, NameWithInitial: "A", Email: "a@example.com", IDNumber: "A", Phone1: "071"})
	seedSubmission(t, db, models.Submission{FormType: models.FormTypeWorkshop, Status: models.StatusRejected, NameWithInitial: "R", Email: "r@example.com", IDNumber: "R", Phone1: "071"})

	counts, err := repo.CountByType(context.Background(), models.FormTypeTOT)
	require.NoError(t, err)
	require.Equal(t, int64(3), counts.Pending)
	require.Equal(t, int64(1), counts.Approved)
	require.Equal(t, int64(0), counts.Rejected)

	workshop, err := repo.CountByType(context.Background(), models.FormTypeWorkshop)
	require.NoError(t, err)
	require.Equal(t, int64(1), workshop.Rejected)
}
