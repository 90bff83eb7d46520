package main

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrSessionFull     = errors.New("session is fully booked")
	ErrSessionNotFound = errors.New("session not found")
)

// recomputeSeatsLeft derives the remaining seats after a capacity change.
// Seats already taken stay committed; the result is clamped to zero when
// the new capacity is below the number of people already registered.
func recomputeSeatsLeft(oldMax, oldLeft, newMax int) int {
	taken := oldMax - oldLeft
	left := newMax - taken
	if left < 0 {
		left = 0
	}
	return left
}

// createRegistration persists a registration. When a session is chosen, a
// seat is claimed with a conditional decrement in the same transaction as
// the insert, so two racing registrations can never both take the last
// seat and a failed insert never leaks a decremented seat.
func createRegistration(reg *Registration) error {
	if reg.SessionID == nil {
		if err := DB.Create(reg).Error; err != nil {
			return fmt.Errorf("insert registration: %w", err)
		}
		return nil
	}

	return DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Session{}).
			Where("id = ? AND seats_left > 0", *reg.SessionID).
			UpdateColumn("seats_left", gorm.Expr("seats_left - 1"))
		if res.Error != nil {
			return fmt.Errorf("reserve seat: %w", res.Error)
		}

		if res.RowsAffected == 0 {
			// Either the session is full or it vanished between the
			// page load and the submit.
			var count int64
			if err := tx.Model(&Session{}).Where("id = ?", *reg.SessionID).Count(&count).Error; err != nil {
				return fmt.Errorf("look up session: %w", err)
			}
			if count == 0 {
				return ErrSessionNotFound
			}
			return ErrSessionFull
		}

		if err := tx.Create(reg).Error; err != nil {
			return fmt.Errorf("insert registration: %w", err)
		}
		return nil
	})
}
