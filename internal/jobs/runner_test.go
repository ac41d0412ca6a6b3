package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTask is a mock implementation of Task
type MockTask struct {
	mock.Mock
}

func (m *MockTask) Run(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockAuditRepository is a mock implementation of AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func TestRunner_StartStop(t *testing.T) {
	task := new(MockTask)
	task.On("Run", mock.Anything).Return(nil)

	runner := NewRunner(task, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runner.Start(ctx)
	}()

	time.Sleep(250 * time.Millisecond)

	runner.Stop()
	wg.Wait()

	task.AssertCalled(t, "Run", mock.Anything)
}

func TestRunner_ContextCancellation(t *testing.T) {
	task := new(MockTask)
	task.On("Run", mock.Anything).Return(nil)

	runner := NewRunner(task, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runner.Start(ctx)
	}()

	time.Sleep(150 * time.Millisecond)

	cancel()
	wg.Wait()

	task.AssertCalled(t, "Run", mock.Anything)
}

func TestRunner_TaskErrorDoesNotStopSchedule(t *testing.T) {
	task := new(MockTask)
	task.On("Run", mock.Anything).Return(errors.New("transient failure"))

	runner := NewRunner(task, 50*time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runner.Start(context.Background())
	}()

	time.Sleep(200 * time.Millisecond)
	runner.Stop()
	wg.Wait()

	assert.GreaterOrEqual(t, len(task.Calls), 2)
}

func TestAuditPruner_Run(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	retention := 24 * time.Hour

	mockRepo.On("DeleteExpired", mock.Anything, mock.MatchedBy(func(before time.Time) bool {
		expected := time.Now().UTC().Add(-retention)
		return before.Sub(expected).Abs() < time.Minute
	})).Return(int64(3), nil)

	pruner := NewAuditPruner(mockRepo, retention)
	err := pruner.Run(context.Background())

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAuditPruner_Run_NothingToPrune(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	mockRepo.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), nil)

	pruner := NewAuditPruner(mockRepo, time.Hour)
	err := pruner.Run(context.Background())

	assert.NoError(t, err)
}

func TestAuditPruner_Run_RepositoryError(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	mockRepo.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), assert.AnError)

	pruner := NewAuditPruner(mockRepo, time.Hour)
	err := pruner.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestNewAuditPruner_DefaultRetention(t *testing.T) {
	mockRepo := new(MockAuditRepository)

	pruner := NewAuditPruner(mockRepo, 0)

	assert.Equal(t, DefaultRetention, pruner.retention)
}
