package usecases_test

import (
	"context"
	"errors"
	"io"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// Mock ObjectStorage
type MockObjectStorage struct {
	mock.Mock
	// Bodies holds every uploaded payload by key
	Bodies map[string][]byte
}

func (m *MockObjectStorage) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) (*repositories.StoredObject, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if m.Bodies == nil {
		m.Bodies = make(map[string][]byte)
	}
	m.Bodies[key] = data

	args := m.Called(ctx, bucket, key, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	obj := args.Get(0).(*repositories.StoredObject)
	obj.Key, obj.Size = key, int64(len(data))
	if obj.URL == "" {
		obj.URL = m.PublicURL(bucket, key)
	}
	return obj, args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func (m *MockObjectStorage) PublicURL(bucket, key string) string {
	return "https://files.example.test/" + bucket + "/" + key
}

// Mock ChangeFeed
type MockChangeFeed struct {
	mock.Mock
}

func (m *MockChangeFeed) Publish(ctx context.Context, event entities.ChangeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockChangeFeed) Subscribe(table string, filter *entities.Filter) repositories.Subscription {
	args := m.Called(table, filter)
	return args.Get(0).(repositories.Subscription)
}

// Mock FundingReconciler
type MockFundingReconciler struct {
	mock.Mock
}

func (m *MockFundingReconciler) Reconcile(ctx context.Context) ([]entities.FundingMismatch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.FundingMismatch), args.Error(1)
}

var errStorageDown = errors.New("storage unavailable")

// failingNotifications rejects every insert
type failingNotifications struct {
	repositories.NotificationRepository
}

func (failingNotifications) Create(context.Context, *entities.Notification) error {
	return errStorageDown
}

// outbidProjects loses every guarded increment, as if a concurrent
// investment had taken the remaining funding first
type outbidProjects struct {
	repositories.ProjectRepository
}

func (outbidProjects) IncrementRaised(context.Context, uuid.UUID, decimal.Decimal) error {
	return domainerrors.ErrFundingExceeded
}

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	pdfHeader = []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
)
