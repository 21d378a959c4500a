package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/licitaciones/constants"
)

func TestTime(t *testing.T) {
	tests := []struct {
		token  string
		want   string
		wantOK bool
	}{
		{"14:30", "14:30", true},
		{"2:30 PM", "14:30", true},
		{"02:30PM", "14:30", true},
		{"2:30 p.m.", "14:30", true},
		{"(2:30 pm).", "14:30", true},
		{"A LAS 10:00 AM", "10:00", true},
		{"04:00:00 PM", "16:00", true},
		{"04:00:00PM", "16:00", true},
		{"12:00 AM", "00:00", true},
		{"12:15 PM", "12:15", true},
		{"4 PM", "16:00", true},
		{"9 a.m.", "09:00", true},
		{"2:30", "02:30", true},
		{"25:10", "01:10", true},
		{"0.5", "12:00", true},
		{"0.25", "06:00", true},
		{"0", "00:00", true},
		{"14", "14:00", true},
		{"1:75", "", false},
		{"por la mañana", "", false},
		{"", "", false},
		{constants.Unavailable, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := Time(tt.token)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeMidnightIsAsserted(t *testing.T) {
	got, ok := Time("12:00 AM")
	assert.True(t, ok)
	assert.Equal(t, "00:00", got)

	_, ok = Time("sin hora")
	assert.False(t, ok)
}

func TestTimeLabel(t *testing.T) {
	assert.Equal(t, "2:30 PM (14:30)", TimeLabel("14:30"))
	assert.Equal(t, "12:05 AM (00:05)", TimeLabel("00:05"))
	assert.Equal(t, "12:00 PM (12:00)", TimeLabel("12:00"))
	assert.Equal(t, "10:00 AM (10:00)", TimeLabel("10:00 a.m."))
	assert.Equal(t, constants.Unavailable, TimeLabel(""))
	assert.Equal(t, "por confirmar", TimeLabel(" por confirmar "))
}

func TestValidTime(t *testing.T) {
	assert.True(t, ValidTime("00:00"))
	assert.True(t, ValidTime("23:59"))
	assert.False(t, ValidTime("24:00"))
	assert.False(t, ValidTime("2:30"))
	assert.False(t, ValidTime("2:30 PM"))
}
