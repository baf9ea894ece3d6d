package config

import (
	"sort"
	"strings"
	"time"

	"github.com/muurk/billwise/internal/form"
)

// CurrentVersion is the config file format version
const CurrentVersion = 1

// Registry represents the entire user configuration file.
type Registry struct {
	Version     int                 `yaml:"version"`
	Service     *Service            `yaml:"service,omitempty"`
	Profiles    map[string]*Profile `yaml:"profiles,omitempty"` // Keyed by profile name
	Preferences *Preferences        `yaml:"preferences,omitempty"`
}

// Service is where the prediction service lives.
type Service struct {
	BaseURL string        `yaml:"base_url"`          // e.g. "http://127.0.0.1:5000"
	Timeout time.Duration `yaml:"timeout,omitempty"` // 0 means the transport default
}

// Profile is a named set of prediction form values, reused to pre-fill the form.
type Profile struct {
	Values     map[string]string `yaml:"values"`
	LastAmount string            `yaml:"last_amount,omitempty"` // Predicted amount, as displayed
	LastUsed   time.Time         `yaml:"last_used,omitempty"`
}

// Fields returns the profile values as form fields, sorted by name.
// A Profile is a form.Source, so it can be passed straight to form.Collect.
func (p *Profile) Fields() []form.Field {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.Values))
	for name := range p.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]form.Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, form.Field{Name: name, Value: p.Values[name]})
	}
	return fields
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DiscoverTimeout int    `yaml:"discover_timeout"`          // mDNS discovery timeout in seconds
	DefaultProfile  string `yaml:"default_profile,omitempty"` // Profile loaded into the form on startup
}

func defaultPreferences() *Preferences {
	return &Preferences{
		DiscoverTimeout: 5,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     CurrentVersion,
		Service:     &Service{},
		Profiles:    make(map[string]*Profile),
		Preferences: defaultPreferences(),
	}
}

// BaseURL returns the configured service URL, or "" if none is set.
func (r *Registry) BaseURL() string {
	if r.Service == nil {
		return ""
	}
	return r.Service.BaseURL
}

// Timeout returns the configured request timeout (0 = transport default).
func (r *Registry) Timeout() time.Duration {
	if r.Service == nil {
		return 0
	}
	return r.Service.Timeout
}

// DiscoverTimeout returns the mDNS scan timeout.
func (r *Registry) DiscoverTimeout() time.Duration {
	if r.Preferences == nil || r.Preferences.DiscoverTimeout <= 0 {
		return time.Duration(defaultPreferences().DiscoverTimeout) * time.Second
	}
	return time.Duration(r.Preferences.DiscoverTimeout) * time.Second
}

// SetService records the service location.
func (r *Registry) SetService(baseURL string, timeout time.Duration) {
	r.Service = &Service{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: timeout,
	}
}

// GetProfile retrieves a profile by name.
// Returns nil if the profile doesn't exist.
func (r *Registry) GetProfile(name string) *Profile {
	return r.Profiles[name]
}

// DefaultProfile returns the profile named in preferences, or nil.
func (r *Registry) DefaultProfile() *Profile {
	if r.Preferences == nil || r.Preferences.DefaultProfile == "" {
		return nil
	}
	return r.GetProfile(r.Preferences.DefaultProfile)
}

// SaveProfile creates or replaces a profile with the values of payload.
// Only the first value of a repeated field is kept.
func (r *Registry) SaveProfile(name string, payload form.Payload) *Profile {
	if r.Profiles == nil {
		r.Profiles = make(map[string]*Profile)
	}

	values := make(map[string]string, len(payload))
	for _, field := range payload.Names() {
		values[field] = payload.Get(field)
	}

	profile := &Profile{Values: values}
	if old, exists := r.Profiles[name]; exists {
		profile.LastAmount = old.LastAmount
		profile.LastUsed = old.LastUsed
	}
	r.Profiles[name] = profile
	return profile
}

// DeleteProfile removes a profile. It returns false if there was none.
// A default profile that is deleted stops being the default.
func (r *Registry) DeleteProfile(name string) bool {
	if _, exists := r.Profiles[name]; !exists {
		return false
	}
	delete(r.Profiles, name)
	if r.Preferences != nil && r.Preferences.DefaultProfile == name {
		r.Preferences.DefaultProfile = ""
	}
	return true
}

// RecordPrediction stores the amount last predicted for a profile.
func (r *Registry) RecordPrediction(name, amount string) {
	profile := r.GetProfile(name)
	if profile == nil {
		return
	}
	profile.LastAmount = amount
	profile.LastUsed = time.Now()
}

// ProfileNames returns the profile names in sorted order.
func (r *Registry) ProfileNames() []string {
	names := make([]string, 0, len(r.Profiles))
	for name := range r.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
