package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5*time.Minute, ParseDuration(""))
	assert.Equal(t, 5*time.Minute, ParseDuration("soon"))
	assert.Equal(t, 90*time.Second, ParseDuration("1m30s"))
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		in      string
		want    *float64
		wantErr bool
	}{
		{"12.5", ptr(12.5), false},
		{" 7 ", ptr(7), false},
		{"0", ptr(0), false},
		{"", nil, false},
		{"NA", nil, false},
		{"NaN", nil, false},
		{"n/a", nil, false},
		{"None", nil, false},
		{"twelve", nil, true},
		{"Inf", nil, true},
		{"-inf", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNumeric(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsNull(t *testing.T) {
	for _, s := range []string{"", "  ", "na", "NULL", " nan "} {
		assert.True(t, IsNull(s), s)
	}
	for _, s := range []string{"0", "keto", "-"} {
		assert.False(t, IsNull(s), s)
	}
}

func TestCleanHeader(t *testing.T) {
	assert.Equal(t, "Diet_type", CleanHeader("\ufeffDiet_type"))
	assert.Equal(t, "Protein(g)", CleanHeader(` "Protein(g)" `))
	assert.Equal(t, "Fat(g)", CleanHeader(`Fat"(g)"`))
}

func ptr(f float64) *float64 { return &f }
