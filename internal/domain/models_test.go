package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivityNumeric(t *testing.T) {
	assert.Equal(t, 1.0, ActivityNumeric(ActivityLow))
	assert.Equal(t, 2.0, ActivityNumeric(ActivityModerate))
	assert.Equal(t, 3.0, ActivityNumeric(ActivityHigh))
	// Unknown levels map to the middle of the scale.
	assert.Equal(t, 2.0, ActivityNumeric("sleeping"))
	assert.Equal(t, 2.0, ActivityNumeric(""))
}
