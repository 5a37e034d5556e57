package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloatEquals(t *testing.T) {
	assert.True(t, FloatEquals(1.0, 1.0))
	assert.True(t, FloatEquals(1.0, 1.0+Epsilon/2))
	assert.False(t, FloatEquals(1.0, 1.0001))
}

func TestIsZero(t *testing.T) {
	assert.True(t, IsZero(0))
	assert.True(t, IsZero(Epsilon/2))
	assert.True(t, IsZero(-Epsilon/2))
	assert.False(t, IsZero(0.001))
}

func TestIsPositive(t *testing.T) {
	assert.True(t, IsPositive(1.0))
	assert.True(t, IsPositive(0.001))
	assert.False(t, IsPositive(0))
	assert.False(t, IsPositive(Epsilon/2))
	assert.False(t, IsPositive(-1))
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, 1.0, Min(1.0, 2.0))
	assert.Equal(t, 1.0, Min(2.0, 1.0))
	assert.Equal(t, 2.0, Max(1.0, 2.0))
	assert.Equal(t, 2.0, Max(2.0, 1.0))
}
