package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileURI(t *testing.T) {
	assert.Equal(t, "file:///home/user/notes.txt", FileURI("/home/user/notes.txt"))
	assert.Equal(t, "file:///home/user/My%20Report.pdf", FileURI("/home/user/My Report.pdf"))
	assert.Equal(t, "file:///tmp/caf%C3%A9", FileURI("/tmp/café"))
}

func TestPathFromURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    string
		wantErr bool
	}{
		{"plain", "file:///home/user/notes.txt", "/home/user/notes.txt", false},
		{"escaped", "file:///home/user/My%20Report.pdf", "/home/user/My Report.pdf", false},
		{"localhost", "file://localhost/etc/hosts", "/etc/hosts", false},
		{"remote host", "file://server/share", "", true},
		{"other scheme", "sftp://host/home", "", true},
		{"no path", "file://", "", true},
		{"malformed", "file://%zz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PathFromURI(tt.uri)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedURI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileURI_RoundTrip(t *testing.T) {
	for _, path := range []string{"/", "/a b/c#d", "/x/100%", "/tmp/café"} {
		got, err := PathFromURI(FileURI(path))
		require.NoError(t, err)
		assert.Equal(t, path, got)
	}
}
