package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/consul/api"
	"go.uber.org/zap"

	"cloudgw/internal/config"
	"cloudgw/internal/model"
)

// ConsulRegistrar registers instances with a Consul agent. The lease is a TTL
// check that Renew marks as passing.
type ConsulRegistrar struct {
	client *api.Client
	log    *zap.Logger
}

// NewConsulRegistrar creates a registrar for the agent described by cfg.
func NewConsulRegistrar(cfg config.DiscoveryConfig, log *zap.Logger) (*ConsulRegistrar, error) {
	apiCfg := api.DefaultConfig()
	apiCfg.Address = cfg.ConsulAddr
	apiCfg.Scheme = cfg.ConsulScheme
	apiCfg.Token = cfg.ConsulToken
	if cfg.ConsulDatacenter != "" {
		apiCfg.Datacenter = cfg.ConsulDatacenter
	}

	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("consul client: %w", err)
	}
	return &ConsulRegistrar{client: client, log: log}, nil
}

func checkID(inst *model.Instance) string {
	return "service:" + inst.InstanceID
}

// Register registers the instance with a TTL check equal to its lease duration.
func (r *ConsulRegistrar) Register(ctx context.Context, inst *model.Instance) error {
	address := inst.IPAddr
	if address == "" {
		address = inst.HostName
	}

	reg := &api.AgentServiceRegistration{
		ID:      inst.InstanceID,
		Name:    inst.App,
		Address: address,
		Port:    inst.Port,
		Meta:    inst.Metadata,
		Check: &api.AgentServiceCheck{
			CheckID:                        checkID(inst),
			TTL:                            inst.LeaseDuration().String(),
			Status:                         api.HealthPassing,
			DeregisterCriticalServiceAfter: (2 * inst.LeaseDuration()).String(),
		},
	}

	if err := r.client.Agent().ServiceRegisterOpts(reg, api.ServiceRegisterOpts{}.WithContext(ctx)); err != nil {
		return fmt.Errorf("consul register %q: %w", inst.InstanceID, err)
	}
	r.log.Debug("consul_service_registered", zap.String("instance_id", inst.InstanceID))
	return nil
}

// Renew marks the TTL check as passing.
func (r *ConsulRegistrar) Renew(ctx context.Context, inst *model.Instance) error {
	if err := r.client.Agent().UpdateTTLOpts(checkID(inst), "", api.HealthPassing, queryOptions(ctx)); err != nil {
		if isUnknownCheck(err) {
			return ErrNotRegistered
		}
		return fmt.Errorf("consul renew %q: %w", inst.InstanceID, err)
	}
	return nil
}

// Deregister removes the service and its check from the agent.
func (r *ConsulRegistrar) Deregister(ctx context.Context, inst *model.Instance) error {
	if err := r.client.Agent().ServiceDeregisterOpts(inst.InstanceID, queryOptions(ctx)); err != nil {
		return fmt.Errorf("consul deregister %q: %w", inst.InstanceID, err)
	}
	return nil
}

func queryOptions(ctx context.Context) *api.QueryOptions {
	return (&api.QueryOptions{}).WithContext(ctx)
}

func isUnknownCheck(err error) bool {
	var se api.StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return true
	}
	return strings.Contains(err.Error(), "Unknown check")
}
