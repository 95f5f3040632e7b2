//go:build unit

package service

import (
	"context"
	"testing"
	"time"

	"github.com/propferry/route-search-gateway/internal/app/dto"
	"github.com/propferry/route-search-gateway/internal/pkg/itinerary"
	"github.com/stretchr/testify/mock"
)

// MockRawFetcher is a testify mock of RawFetcher.
type MockRawFetcher struct {
	mock.Mock
}

func NewMockRawFetcher(t *testing.T) *MockRawFetcher {
	m := &MockRawFetcher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRawFetcher) FetchRaw(ctx context.Context, origin, destination, date string) ([]byte, error) {
	args := m.Called(ctx, origin, destination, date)

	var body []byte
	if args.Get(0) != nil {
		body = args.Get(0).([]byte)
	}

	return body, args.Error(1)
}

// MockResultCacher is a testify mock of ResultCacher.
type MockResultCacher struct {
	mock.Mock
}

func NewMockResultCacher(t *testing.T) *MockResultCacher {
	m := &MockResultCacher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockResultCacher) LockKey(req dto.SearchRequest) string {
	return m.Called(req).String(0)
}

func (m *MockResultCacher) CacheKey(req dto.SearchRequest) string {
	return m.Called(req).String(0)
}

func (m *MockResultCacher) AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	args := m.Called(ctx, key, timeout)

	return args.Bool(0), args.Error(1)
}

func (m *MockResultCacher) ReleaseLock(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockResultCacher) GetResult(ctx context.Context, key string) (dto.SearchResult, error) {
	args := m.Called(ctx, key)

	return args.Get(0).(dto.SearchResult), args.Error(1)
}

func (m *MockResultCacher) GetStats(ctx context.Context, key string) (itinerary.Stats, error) {
	args := m.Called(ctx, key)

	return args.Get(0).(itinerary.Stats), args.Error(1)
}

func (m *MockResultCacher) SetResult(ctx context.Context, key string, result dto.SearchResult,
	stats itinerary.Stats, expiration time.Duration) error {
	return m.Called(ctx, key, result, stats, expiration).Error(0)
}
