// Package discovery announces a running service to a registry and keeps its
// lease alive.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"cloudgw/internal/config"
	"cloudgw/internal/model"
)

// ErrNotRegistered is returned by Renew when the registry no longer knows the instance.
var ErrNotRegistered = errors.New("instance not registered")

// Registrar manages one instance's registration with a registry.
type Registrar interface {
	Register(ctx context.Context, inst *model.Instance) error
	Renew(ctx context.Context, inst *model.Instance) error
	Deregister(ctx context.Context, inst *model.Instance) error
}

// NewRegistrar returns the registrar selected by cfg.Provider.
func NewRegistrar(cfg config.DiscoveryConfig, log *zap.Logger) (Registrar, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "eureka":
		return NewEurekaClient(cfg.RegistryURL), nil
	case "consul":
		return NewConsulRegistrar(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported discovery provider: %s", cfg.Provider)
	}
}

// NewInstance describes the current process as an instance of app listening on port.
func NewInstance(cfg config.DiscoveryConfig, app string, port int) *model.Instance {
	host := cfg.InstanceHost
	if host == "" {
		if h, err := os.Hostname(); err == nil && h != "" {
			host = h
		} else {
			host = "localhost"
		}
	}

	id := cfg.InstanceID
	if id == "" {
		id = fmt.Sprintf("%s:%s:%d", host, strings.ToLower(app), port)
	}

	base := fmt.Sprintf("http://%s:%d", host, port)
	inst := &model.Instance{
		InstanceID:     id,
		App:            model.NormalizeApp(app),
		HostName:       host,
		IPAddr:         cfg.InstanceIP,
		Port:           port,
		Status:         model.StatusUp,
		HomePageURL:    base + "/",
		HealthCheckURL: base + "/health",
		LeaseInfo: model.LeaseInfo{
			RenewalIntervalInSecs: cfg.LeaseRenewalIntervalSec,
			DurationInSecs:        cfg.LeaseDurationSec,
		},
	}
	inst.ApplyDefaults()
	return inst
}
