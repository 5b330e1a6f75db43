package mocks

import (
	"context"

	"cloudgw/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockRegistryService struct {
	mock.Mock
}

func (m *MockRegistryService) Register(ctx context.Context, inst *model.Instance) error {
	args := m.Called(ctx, inst)
	return args.Error(0)
}

func (m *MockRegistryService) Renew(ctx context.Context, app, id string) error {
	args := m.Called(ctx, app, id)
	return args.Error(0)
}

func (m *MockRegistryService) Cancel(ctx context.Context, app, id string) error {
	args := m.Called(ctx, app, id)
	return args.Error(0)
}

func (m *MockRegistryService) SetStatus(ctx context.Context, app, id string, status model.InstanceStatus) error {
	args := m.Called(ctx, app, id, status)
	return args.Error(0)
}

func (m *MockRegistryService) Applications(ctx context.Context) (*model.Applications, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Applications), args.Error(1)
}

func (m *MockRegistryService) Application(ctx context.Context, app string) (*model.Application, error) {
	args := m.Called(ctx, app)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Application), args.Error(1)
}

func (m *MockRegistryService) Instance(ctx context.Context, app, id string) (*model.Instance, error) {
	args := m.Called(ctx, app, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Instance), args.Error(1)
}

func (m *MockRegistryService) EvictExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
