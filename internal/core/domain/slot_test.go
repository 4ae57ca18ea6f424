package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlot_Available(t *testing.T) {
	assert.True(t, Slot{TotalSlots: 3, BookedSlots: 2, AvailableSlots: 1}.Available())
	// Заполненный слот показывается, но бронировать его нельзя
	assert.False(t, Slot{TotalSlots: 3, BookedSlots: 3, AvailableSlots: 0}.Available())
}
