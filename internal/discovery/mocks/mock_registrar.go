package mocks

import (
	"context"

	"cloudgw/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) Register(ctx context.Context, inst *model.Instance) error {
	args := m.Called(ctx, inst)
	return args.Error(0)
}

func (m *MockRegistrar) Renew(ctx context.Context, inst *model.Instance) error {
	args := m.Called(ctx, inst)
	return args.Error(0)
}

func (m *MockRegistrar) Deregister(ctx context.Context, inst *model.Instance) error {
	args := m.Called(ctx, inst)
	return args.Error(0)
}
