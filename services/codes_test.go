package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsvphub/models"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

func TestAllocate_Format(t *testing.T) {
	db := newTestDB(t)
	allocator := NewCodeAllocator(db)

	code, err := allocator.Allocate()
	require.NoError(t, err)
	assert.Regexp(t, codePattern, code)
}

func TestAllocate_PairwiseDistinct(t *testing.T) {
	db := newTestDB(t)
	allocator := NewCodeAllocator(db)

	user := models.User{Username: "host", Email: "host@example.com", PasswordHash: "x", FullName: "Host"}
	require.NoError(t, db.Create(&user).Error)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := allocator.Allocate()
		require.NoError(t, err)
		assert.False(t, seen[code], "code %q allocated twice", code)
		seen[code] = true

		// store each allocated code so subsequent draws check against a
		// growing table
		inv := models.Invitation{
			Title:     "Party",
			EventType: "party",
			EventDate: time.Now().Add(24 * time.Hour),
			HostName:  "Host",
			Code:      code,
			UserID:    user.ID,
		}
		require.NoError(t, db.Create(&inv).Error)
	}

	assert.Len(t, seen, 100)
}

func TestAllocate_SkipsStoredCodes(t *testing.T) {
	db := newTestDB(t)
	allocator := NewCodeAllocator(db)

	user := models.User{Username: "host", Email: "host@example.com", PasswordHash: "x", FullName: "Host"}
	require.NoError(t, db.Create(&user).Error)

	inv := models.Invitation{
		Title:     "Taken",
		EventType: "party",
		EventDate: time.Now(),
		HostName:  "Host",
		Code:      "AB12CD34",
		UserID:    user.ID,
	}
	require.NoError(t, db.Create(&inv).Error)

	for i := 0; i < 50; i++ {
		code, err := allocator.Allocate()
		require.NoError(t, err)
		assert.NotEqual(t, "AB12CD34", code)
	}
}

func TestAllocate_StorageFailureSurfaces(t *testing.T) {
	db := newTestDB(t)
	allocator := NewCodeAllocator(db)

	// Closing the underlying connection makes the existence check fail; the
	// allocator must surface that instead of returning an unverified code.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = allocator.Allocate()
	assert.Error(t, err)
}

func TestIsDuplicateKey(t *testing.T) {
	db := newTestDB(t)

	user := models.User{Username: "host", Email: "host@example.com", PasswordHash: "x", FullName: "Host"}
	require.NoError(t, db.Create(&user).Error)

	first := models.Invitation{
		Title: "A", EventType: "party", EventDate: time.Now(),
		HostName: "Host", Code: "SAMECODE", UserID: user.ID,
	}
	require.NoError(t, db.Create(&first).Error)

	second := models.Invitation{
		Title: "B", EventType: "party", EventDate: time.Now(),
		HostName: "Host", Code: "SAMECODE", UserID: user.ID,
	}
	err := db.Create(&second).Error
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
}
