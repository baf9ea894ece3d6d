package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Service represents a prediction service found on the network
type Service struct {
	// Instance is the advertised instance name (e.g., "Kitchen Meter")
	Instance string

	// Hostname is the mDNS hostname (e.g., "billbox.local.")
	Hostname string

	// IP is the service address, IPv4 when one is advertised
	IP string

	// Port is the HTTP port
	Port int

	// Path is the URL prefix the endpoints live under (TXT "path", default "/")
	Path string

	// Version is the service version from the TXT "version" record, if any
	Version string

	// Metadata contains all mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the service was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the service
func (s *Service) String() string {
	return fmt.Sprintf("Prediction service %q (%s) at %s", s.Instance, s.Hostname, s.BaseURL())
}

// BaseURL returns the HTTP base URL for the service, without a trailing slash
func (s *Service) BaseURL() string {
	host := net.JoinHostPort(s.IP, strconv.Itoa(s.Port))
	path := strings.TrimRight(s.Path, "/")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "http://" + host + path
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Service) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
