package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"drive file view", "https://drive.google.com/file/d/1AbC_d-9/view?usp=sharing", "https://drive.google.com/uc?export=view&id=1AbC_d-9", true},
		{"drive open id", "https://drive.google.com/open?id=XYZ123", "https://drive.google.com/uc?export=view&id=XYZ123", true},
		{"dropbox share", "https://www.dropbox.com/s/abc/photo.jpg?dl=0", "https://www.dropbox.com/s/abc/photo.jpg?raw=1", true},
		{"plain https", "https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg", true},
		{"plain http", " http://example.com/b.png ", "http://example.com/b.png", true},
		{"not a url", "photo.jpg", "", false},
		{"ftp", "ftp://example.com/a.jpg", "", false},
		{"empty", "", "", false},
		{"no host", "https:///a.jpg", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DirectURL(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPhotos_SkipsUnusable(t *testing.T) {
	got := Photos("https://a.example/1.jpg", "nope", "", "https://drive.google.com/open?id=Q")
	assert.Equal(t, []string{"https://a.example/1.jpg", "https://drive.google.com/uc?export=view&id=Q"}, got)
}
