package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidDestination(t *testing.T) {
	tests := []struct {
		name        string
		destination string
		want        bool
	}{
		{name: "empty", destination: "", want: false},
		{name: "bare host", destination: "www.wp.pl", want: true},
		{name: "with scheme", destination: "http://reddit.com", want: true},
		{name: "https with path", destination: "https://example.com/some/path", want: true},
		{name: "query string rejected", destination: "https://example.com/?q=1", want: false},
		{name: "digits rejected", destination: "host1.example.com", want: false},
		{name: "whitespace rejected", destination: "white space.com", want: false},
		{name: "too long", destination: "www." + strings.Repeat("a", MaxDestinationLength) + ".com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidDestination(tt.destination))
		})
	}
}

func TestLink_RedirectURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "http kept", in: "http://reddit.com", want: "http://reddit.com"},
		{name: "https kept", in: "https://reddit.com", want: "https://reddit.com"},
		{name: "bare host prefixed", in: "www.youtube.com", want: "http://www.youtube.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := Link{URLInput: tt.in}

			assert.Equal(t, tt.want, link.RedirectURL())
		})
	}
}
