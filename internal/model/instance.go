package model

import (
	"strings"
	"time"
)

// InstanceStatus is the lifecycle state an instance reports to the registry.
type InstanceStatus string

const (
	StatusUp           InstanceStatus = "UP"
	StatusDown         InstanceStatus = "DOWN"
	StatusStarting     InstanceStatus = "STARTING"
	StatusOutOfService InstanceStatus = "OUT_OF_SERVICE"
	StatusUnknown      InstanceStatus = "UNKNOWN"
)

// Valid reports whether s is one of the known statuses.
func (s InstanceStatus) Valid() bool {
	switch s {
	case StatusUp, StatusDown, StatusStarting, StatusOutOfService, StatusUnknown:
		return true
	}
	return false
}

const (
	DefaultRenewalIntervalSecs = 30
	DefaultLeaseDurationSecs   = 90
)

// LeaseInfo tells the registry how often the instance heartbeats and how long
// its registration survives without one.
type LeaseInfo struct {
	RenewalIntervalInSecs int `json:"renewalIntervalInSecs" validate:"gte=0"`
	DurationInSecs        int `json:"durationInSecs" validate:"gte=0"`
}

// Instance represents one running copy of a service.
type Instance struct {
	InstanceID     string            `json:"instanceId" validate:"required,max=255"`
	App            string            `json:"app" validate:"required,max=255"`
	HostName       string            `json:"hostName" validate:"required,max=255"`
	IPAddr         string            `json:"ipAddr,omitempty" validate:"omitempty,ip"`
	Port           int               `json:"port" validate:"required,min=1,max=65535"`
	SecurePort     int               `json:"securePort,omitempty" validate:"omitempty,min=1,max=65535"`
	Status         InstanceStatus    `json:"status" validate:"omitempty,oneof=UP DOWN STARTING OUT_OF_SERVICE UNKNOWN"`
	HomePageURL    string            `json:"homePageUrl,omitempty" validate:"omitempty,url"`
	HealthCheckURL string            `json:"healthCheckUrl,omitempty" validate:"omitempty,url"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	LeaseInfo      LeaseInfo         `json:"leaseInfo"`

	RegisteredAt  time.Time `json:"registrationTimestamp"`
	LastRenewedAt time.Time `json:"lastRenewalTimestamp"`
	LastUpdatedAt time.Time `json:"lastUpdatedTimestamp"`
}

// NormalizeApp upper-cases an application name the way the registry stores it.
func NormalizeApp(app string) string {
	return strings.ToUpper(strings.TrimSpace(app))
}

// ApplyDefaults fills zero-valued status and lease fields.
func (i *Instance) ApplyDefaults() {
	i.App = NormalizeApp(i.App)
	if i.Status == "" {
		i.Status = StatusUp
	}
	if i.LeaseInfo.RenewalIntervalInSecs == 0 {
		i.LeaseInfo.RenewalIntervalInSecs = DefaultRenewalIntervalSecs
	}
	if i.LeaseInfo.DurationInSecs == 0 {
		i.LeaseInfo.DurationInSecs = DefaultLeaseDurationSecs
	}
}

// LeaseDuration returns how long the registration survives without a renewal.
func (i Instance) LeaseDuration() time.Duration {
	d := i.LeaseInfo.DurationInSecs
	if d <= 0 {
		d = DefaultLeaseDurationSecs
	}
	return time.Duration(d) * time.Second
}

// Expired reports whether the lease ran out before now.
func (i Instance) Expired(now time.Time) bool {
	return i.LastRenewedAt.Add(i.LeaseDuration()).Before(now)
}
