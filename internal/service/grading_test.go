package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	got, err := Percentage(45, 60)
	require.NoError(t, err)
	assert.Equal(t, 75.0, got)

	got, err = Percentage(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 33.33, got)

	got, err = Percentage(0, 100)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestPercentageRejectsBadInput(t *testing.T) {
	_, err := Percentage(10, 0)
	assert.Error(t, err)

	_, err = Percentage(10, -5)
	assert.Error(t, err)

	_, err = Percentage(-1, 100)
	assert.Error(t, err)

	_, err = Percentage(101, 100)
	assert.Error(t, err)
}

func TestGradeForBoundaries(t *testing.T) {
	cases := []struct {
		percentage float64
		want       string
	}{
		{100, "A+"},
		{90, "A+"},
		{89.99, "A"},
		{80, "A"},
		{79.99, "B+"},
		{70, "B+"},
		{69.99, "B"},
		{60, "B"},
		{59.99, "C"},
		{50, "C"},
		{49.99, "F"},
		{0, "F"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GradeFor(tc.percentage), "percentage %v", tc.percentage)
	}
}
