package models

import (
	"regexp"
	"strings"
	"time"
)

// destinationPattern restricts destinations to the characters a short link
// may be built from: ASCII letters plus ":", "/" and ".".
var destinationPattern = regexp.MustCompile(`^[a-zA-Z:/.]+$`)

// MaxDestinationLength is the storage limit for the destination URL column.
const MaxDestinationLength = 255

// ValidDestination reports whether s is a non-empty destination URL made up
// of allowed characters only.
func ValidDestination(s string) bool {
	return len(s) <= MaxDestinationLength && destinationPattern.MatchString(s)
}

// Client represents one rate-limited identity, keyed by its network address.
type Client struct {
	// ID is the unique identifier for the client record.
	ID int64
	// Address is the client's network address as reported by the transport.
	Address string
	// URLsCount is the number of live links owned by the client.
	URLsCount int64
	// IsBanned blocks the client from shortening new links when set.
	IsBanned bool
}

// Link represents one slug-to-destination shortening mapping.
type Link struct {
	// ID is the unique identifier for the link record.
	ID int64
	// ClientID references the owning client.
	ClientID int64
	// OwnerAddress is the owning client's address, populated on reads.
	OwnerAddress string
	// URLInput is the destination URL the link points to.
	URLInput string
	// URLOutput is the unique slug that stands in for the destination.
	URLOutput string
	// CreatedAt is the timestamp indicating when the link was created.
	CreatedAt time.Time
	// ExpiresAt is the far-future expiry timestamp; expiry is not enforced.
	ExpiresAt time.Time
}

// RedirectURL returns the destination as a usable redirect target,
// prefixing bare hosts with "http://". Without this the redirect would
// resolve relative to our own host for inputs like "www.example.com".
func (l *Link) RedirectURL() string {
	return NormalizeDestination(l.URLInput)
}

// NormalizeDestination prepends "http://" to destinations that carry no
// scheme prefix.
func NormalizeDestination(destination string) string {
	if strings.HasPrefix(destination, "http") {
		return destination
	}
	return "http://" + destination
}
