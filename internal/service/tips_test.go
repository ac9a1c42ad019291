package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func TestPickTipIndex_SlotsCoverTheDay(t *testing.T) {
	// Four tips split the day into 360-minute slots.
	assert.Equal(t, 0, pickTipIndex(at(0, 0), 4))
	assert.Equal(t, 0, pickTipIndex(at(5, 59), 4))
	assert.Equal(t, 1, pickTipIndex(at(6, 0), 4))
	assert.Equal(t, 2, pickTipIndex(at(12, 0), 4))
	assert.Equal(t, 3, pickTipIndex(at(23, 59), 4))
}

func TestPickTipIndex_SingleTip(t *testing.T) {
	assert.Equal(t, 0, pickTipIndex(at(13, 37), 1))
}

func TestPickTipIndex_NeverOutOfRange(t *testing.T) {
	for count := 1; count <= 11; count++ {
		for hour := 0; hour < 24; hour++ {
			idx := pickTipIndex(at(hour, 30), count)
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, count)
		}
	}
}

func TestTipKey(t *testing.T) {
	assert.Equal(t, "tips:monday", tipKey(time.Monday))
	assert.Equal(t, "tips:sunday", tipKey(time.Sunday))
}
