package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cloudgw/internal/config"
	"cloudgw/internal/model"
)

func TestNewInstance(t *testing.T) {
	t.Run("derives id and urls", func(t *testing.T) {
		inst := NewInstance(config.DiscoveryConfig{
			InstanceHost:            "emp-host",
			InstanceIP:              "10.0.0.7",
			LeaseRenewalIntervalSec: 10,
			LeaseDurationSec:        30,
		}, "Employee-Service", 8082)

		assert.Equal(t, "emp-host:employee-service:8082", inst.InstanceID)
		assert.Equal(t, "EMPLOYEE-SERVICE", inst.App)
		assert.Equal(t, "10.0.0.7", inst.IPAddr)
		assert.Equal(t, model.StatusUp, inst.Status)
		assert.Equal(t, "http://emp-host:8082/health", inst.HealthCheckURL)
		assert.Equal(t, 10, inst.LeaseInfo.RenewalIntervalInSecs)
		assert.Equal(t, 30, inst.LeaseInfo.DurationInSecs)
	})

	t.Run("explicit id and default lease", func(t *testing.T) {
		inst := NewInstance(config.DiscoveryConfig{InstanceHost: "h", InstanceID: "cust-1"}, "customer-service", 8081)

		assert.Equal(t, "cust-1", inst.InstanceID)
		assert.Equal(t, model.DefaultLeaseDurationSecs, inst.LeaseInfo.DurationInSecs)
	})

	t.Run("falls back to the os hostname", func(t *testing.T) {
		inst := NewInstance(config.DiscoveryConfig{}, "app", 1)
		assert.NotEmpty(t, inst.HostName)
	})
}

func TestNewRegistrar(t *testing.T) {
	r, err := NewRegistrar(config.DiscoveryConfig{Provider: "eureka", RegistryURL: "http://localhost:8761/eureka/"}, zap.NewNop())
	require.NoError(t, err)
	require.IsType(t, &EurekaClient{}, r)
	assert.Equal(t, "http://localhost:8761/eureka", r.(*EurekaClient).baseURL)

	r, err = NewRegistrar(config.DiscoveryConfig{Provider: "consul", ConsulAddr: "localhost:8500", ConsulScheme: "http"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &ConsulRegistrar{}, r)

	_, err = NewRegistrar(config.DiscoveryConfig{Provider: "zookeeper"}, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported discovery provider")
}
