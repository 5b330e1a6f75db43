package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudgw/internal/model"
)

func TestPrintApplications(t *testing.T) {
	var buf bytes.Buffer
	err := printApplications(&buf, &model.Applications{Applications: []model.Application{
		{Name: "CUSTOMER-SERVICE", Instances: []model.Instance{
			{InstanceID: "c-1", HostName: "cust-host", Port: 8081, Status: model.StatusUp},
		}},
		{Name: "EMPLOYEE-SERVICE", Instances: []model.Instance{
			{InstanceID: "e-1", HostName: "emp-host", IPAddr: "10.0.0.7", Port: 8082, Status: model.StatusDown},
		}},
	}})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"APP", "INSTANCE", "STATUS", "ADDRESS"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"CUSTOMER-SERVICE", "c-1", "UP", "cust-host:8081"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"EMPLOYEE-SERVICE", "e-1", "DOWN", "10.0.0.7:8082"}, strings.Fields(lines[2]))
}
