package useragent

import (
	"fmt"
	"strings"
)

// Device is the hardware the request came from. Empty fields are absent.
type Device struct {
	Family string `json:"family"`
	Brand  string `json:"brand,omitempty"`
	Model  string `json:"model,omitempty"`
}

// OS is the operating system with up to four version components.
type OS struct {
	Family     string `json:"family"`
	Major      string `json:"major,omitempty"`
	Minor      string `json:"minor,omitempty"`
	Patch      string `json:"patch,omitempty"`
	PatchMinor string `json:"patch_minor,omitempty"`
}

// UserAgent is the browser or client software with up to three version components.
type UserAgent struct {
	Family string `json:"family"`
	Major  string `json:"major,omitempty"`
	Minor  string `json:"minor,omitempty"`
	Patch  string `json:"patch,omitempty"`
}

// Client combines the independent results of all three families.
// No consistency between families is enforced.
type Client struct {
	Device    Device    `json:"device"`
	OS        OS        `json:"os"`
	UserAgent UserAgent `json:"user_agent"`
}

// DefaultDevice is returned when no device pattern matched.
func DefaultDevice() Device { return Device{Family: FamilyOther} }

// DefaultOS is returned when no OS pattern matched.
func DefaultOS() OS { return OS{Family: FamilyOther} }

// DefaultUserAgent is returned when no user agent pattern matched.
func DefaultUserAgent() UserAgent { return UserAgent{Family: FamilyOther} }

// IsOther reports whether no device pattern matched.
func (d Device) IsOther() bool { return d == DefaultDevice() }

// IsOther reports whether no OS pattern matched.
func (o OS) IsOther() bool { return o == DefaultOS() }

// IsOther reports whether no user agent pattern matched.
func (u UserAgent) IsOther() bool { return u == DefaultUserAgent() }

// Version joins the leading present version components, e.g. "10.15.7".
func (o OS) Version() string {
	return joinVersion(o.Major, o.Minor, o.Patch, o.PatchMinor)
}

// Version joins the leading present version components, e.g. "91.0.4472".
func (u UserAgent) Version() string {
	return joinVersion(u.Major, u.Minor, u.Patch)
}

// String returns a short identifier suitable for logs:
// "Chrome 91.0.4472 / Windows 10 / Other".
func (c Client) String() string {
	return fmt.Sprintf("%s / %s / %s",
		withVersion(c.UserAgent.Family, c.UserAgent.Version()),
		withVersion(c.OS.Family, c.OS.Version()),
		c.Device.Family,
	)
}

// joinVersion stops at the first absent component so that "10", "", "3"
// renders as "10" rather than "10..3".
func joinVersion(parts ...string) string {
	n := 0
	for n < len(parts) && parts[n] != "" {
		n++
	}
	return strings.Join(parts[:n], ".")
}

func withVersion(name, version string) string {
	if version == "" {
		return name
	}
	return name + " " + version
}
