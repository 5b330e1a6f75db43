package mocks

import (
	"context"
	"time"

	"cloudgw/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockInstanceRepository struct {
	mock.Mock
}

func (m *MockInstanceRepository) Save(ctx context.Context, inst *model.Instance) error {
	args := m.Called(ctx, inst)
	return args.Error(0)
}

func (m *MockInstanceRepository) Find(ctx context.Context, app, id string) (*model.Instance, error) {
	args := m.Called(ctx, app, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Instance), args.Error(1)
}

func (m *MockInstanceRepository) List(ctx context.Context) ([]model.Instance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Instance), args.Error(1)
}

func (m *MockInstanceRepository) ListByApp(ctx context.Context, app string) ([]model.Instance, error) {
	args := m.Called(ctx, app)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Instance), args.Error(1)
}

func (m *MockInstanceRepository) Renew(ctx context.Context, app, id string, at time.Time) error {
	args := m.Called(ctx, app, id, at)
	return args.Error(0)
}

func (m *MockInstanceRepository) UpdateStatus(ctx context.Context, app, id string, status model.InstanceStatus, at time.Time) error {
	args := m.Called(ctx, app, id, status, at)
	return args.Error(0)
}

func (m *MockInstanceRepository) Delete(ctx context.Context, app, id string) error {
	args := m.Called(ctx, app, id)
	return args.Error(0)
}

func (m *MockInstanceRepository) DeleteExpired(ctx context.Context, now time.Time) ([]model.Instance, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Instance), args.Error(1)
}
