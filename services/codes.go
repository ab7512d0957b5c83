package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"gorm.io/gorm"

	"rsvphub/models"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8
)

// CodeAllocator hands out invitation codes that are unique across all stored
// invitations. Codes are 8 uppercase alphanumeric characters, so the space is
// 36^8 and collisions are vanishingly rare at realistic table sizes.
type CodeAllocator struct {
	db *gorm.DB
}

func NewCodeAllocator(db *gorm.DB) *CodeAllocator {
	return &CodeAllocator{db: db}
}

// Allocate draws random candidates until one is free. A collision triggers a
// transparent redraw; a storage failure aborts the allocation — a code whose
// uniqueness could not be verified is never returned. The unique index on the
// code column stays the authoritative guard: callers must treat a
// duplicate-key error on insert as "allocate again", not as fatal.
func (a *CodeAllocator) Allocate() (string, error) {
	for {
		code, err := randomCode()
		if err != nil {
			return "", err
		}

		var count int64
		if err := a.db.Model(&models.Invitation{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return "", fmt.Errorf("check code existence: %w", err)
		}
		if count == 0 {
			return code, nil
		}
	}
}

func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("draw code character: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// IsDuplicateKey reports whether err is a uniqueness-constraint violation.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
