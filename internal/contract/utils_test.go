package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"zero score is quiet", 0, QuietValue},
		{"just below active", 24.9, QuietValue},
		{"active boundary", 25, ActiveValue},
		{"mid active", 99.9, ActiveValue},
		{"strong boundary", 100, StrongValue},
		{"high strong", 199.9, StrongValue},
		{"elite boundary", 200, EliteValue},
		{"well past elite", 500, EliteValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetPlainLabel(tt.score))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	// Colored output still contains the plain label text.
	assert.Contains(t, GetColorLabel(250), EliteValue)
	assert.Contains(t, GetColorLabel(150), StrongValue)
	assert.Contains(t, GetColorLabel(50), ActiveValue)
	assert.Contains(t, GetColorLabel(5), QuietValue)
}

func TestStatusMeaning(t *testing.T) {
	assert.Equal(t, "Unauthorized", StatusMeaning(401))
	assert.Equal(t, "Forbidden/Rate Limited", StatusMeaning(403))
	assert.Equal(t, "Not Found", StatusMeaning(404))
	assert.Equal(t, "Unknown Error", StatusMeaning(418))
}

func TestTruncateName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"short name unchanged", "Ada", 10, "Ada"},
		{"exact width unchanged", "Grace", 5, "Grace"},
		{"long name truncated", "Margaret Hamilton", 10, "Margare..."},
		{"tiny width left alone", "Margaret", 3, "Margaret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateName(tt.input, tt.maxWidth))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "true", "1", "on", "YES", " True "} {
		got, err := ParseBoolString(s)
		assert.NoError(t, err, s)
		assert.True(t, got, s)
	}
	for _, s := range []string{"no", "false", "0", "off", "NO"} {
		got, err := ParseBoolString(s)
		assert.NoError(t, err, s)
		assert.False(t, got, s)
	}

	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}
