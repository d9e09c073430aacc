package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		section, option string
		want            string
	}{
		{"Secrets", "master_key", "Secrets/master_key"},
		{"Secrets", "master_key_12", "Secrets/master_key_N"},
		{"Account 3", "mailbox_password", "Account N/mailbox_password"},
		{"Account 123", "x1y22", "Account N/xNyN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeKey(tt.section, tt.option))
	}
}

func TestPolicy_Builtins(t *testing.T) {
	p := NewPolicy()

	assert.True(t, p.IsPrivate("Secrets", "config_key"))
	assert.True(t, p.IsPrivate("Secrets", "master_key"))
	assert.True(t, p.IsPrivate("Secrets", "master_key_7"))
	assert.True(t, p.IsPrivate("Account 1", "mailbox_password"))
	assert.True(t, p.IsPrivate("Account 42", "sendmail_password"))

	assert.False(t, p.IsPrivate("Secrets", "last_key_rotation"))
	assert.False(t, p.IsPrivate("Account 1", "name"))
}

func TestPolicy_MarkPrivateCoversFamily(t *testing.T) {
	p := NewPolicy()
	p.MarkPrivate("Identity 1", "signature")

	assert.True(t, p.IsPrivate("Identity 9", "signature"))
	assert.False(t, p.IsPrivate("Identity 9", "name"))
}
