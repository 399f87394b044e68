package signup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePhone(t *testing.T) {
	assert.Equal(t, "5551234567", SanitizePhone("(555) 123-4567"))
	assert.Equal(t, "5551234567", SanitizePhone("555.123.4567"))
	assert.Equal(t, "555123", SanitizePhone("555-123x"))
	assert.Equal(t, "", SanitizePhone("no digits here"))
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "(555) 123-4567", FormatPhone("5551234567"))
	assert.Equal(t, "(555) 123-4567", FormatPhone("555-123-4567"))
	// incomplete numbers come back unformatted
	assert.Equal(t, "55512", FormatPhone("55512"))
	assert.Equal(t, "55512345678", FormatPhone("55512345678"))
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("(555) 123-4567"))
	assert.False(t, ValidPhone("5551234567"))
	assert.False(t, ValidPhone("(555)123-4567"))
	assert.False(t, ValidPhone(""))
}
