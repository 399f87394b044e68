package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconRefEncodeDecode(t *testing.T) {
	tests := []struct {
		name    string
		ref     IconRef
		encoded string
	}{
		{
			name:    "uploaded is plain url",
			ref:     UploadedIcon("https://cdn.example.com/profiles/abc.jpg"),
			encoded: "https://cdn.example.com/profiles/abc.jpg",
		},
		{
			name:    "preset",
			ref:     PresetIcon("cork-classic"),
			encoded: "avatar:preset:cork-classic",
		},
		{
			name:    "custom keeps colons in label",
			ref:     CustomIcon("#8B0000", "#FFFFF0", "a:b"),
			encoded: "avatar:custom:#8B0000:#FFFFF0:a:b",
		},
		{
			name:    "generated",
			ref:     GeneratedIcon("JPD", "#2F4F4F", "#FFFFF0"),
			encoded: "avatar:gen:JPD:#2F4F4F:#FFFFF0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.encoded, tt.ref.Encode())

			decoded, err := DecodeIconRef(tt.encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.ref, decoded)
		})
	}
}

func TestDecodeIconRefRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "avatar:preset:", "avatar:custom:#111", "avatar:wine:x"} {
		_, err := DecodeIconRef(s)
		assert.Error(t, err, "input %q", s)
	}
}
