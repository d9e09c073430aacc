package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		want    string
		wantErr bool
	}{
		{name: "preset owner", role: "owner", want: "A"},
		{name: "preset admin", role: "admin", want: "aPpEeTtrwx"},
		{name: "preset guest", role: "guest", want: "rcp"},
		{name: "repeated letters dropped", role: "xrwr", want: "xrw"},
		{name: "unknown letter", role: "rz", wantErr: true},
		{name: "empty", role: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.role)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadRole)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllows(t *testing.T) {
	assert.True(t, Allows("A", "rwx"))
	assert.True(t, Allows("aPpEeTtrwx", "r"))
	assert.True(t, Allows("r", ""))
	assert.False(t, Allows("r", "w"))
	assert.False(t, Allows("rw", "rwx"))
}
