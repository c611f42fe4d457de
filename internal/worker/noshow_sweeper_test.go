package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockNoShowCanceller はNoShowCancellerのモック
type MockNoShowCanceller struct {
	mock.Mock
}

func (m *MockNoShowCanceller) SweepNoShowBookings(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestNewNoShowSweeper(t *testing.T) {
	mockService := new(MockNoShowCanceller)
	interval := 10 * time.Minute

	sweeper := NewNoShowSweeper(mockService, interval)

	assert.NotNil(t, sweeper)
	assert.Equal(t, interval, sweeper.interval)
	assert.NotNil(t, sweeper.stopCh)
	assert.NotNil(t, sweeper.doneCh)
}

func TestNoShowSweeper_Sweep(t *testing.T) {
	t.Run("正常に掃き出しが実行される", func(t *testing.T) {
		mockService := new(MockNoShowCanceller)
		mockService.On("SweepNoShowBookings", mock.Anything).Return(3, nil)

		sweeper := NewNoShowSweeper(mockService, 1*time.Minute)
		sweeper.sweep(context.Background())

		mockService.AssertExpectations(t)
	})

	t.Run("対象がない場合も正常に動作する", func(t *testing.T) {
		mockService := new(MockNoShowCanceller)
		mockService.On("SweepNoShowBookings", mock.Anything).Return(0, nil)

		sweeper := NewNoShowSweeper(mockService, 1*time.Minute)
		sweeper.sweep(context.Background())

		mockService.AssertExpectations(t)
	})

	t.Run("エラーが発生しても継続する", func(t *testing.T) {
		mockService := new(MockNoShowCanceller)
		mockService.On("SweepNoShowBookings", mock.Anything).Return(0, assert.AnError)

		sweeper := NewNoShowSweeper(mockService, 1*time.Minute)
		sweeper.sweep(context.Background())

		mockService.AssertExpectations(t)
	})
}

func TestNoShowSweeper_StartAndStop(t *testing.T) {
	mockService := new(MockNoShowCanceller)
	mockService.On("SweepNoShowBookings", mock.Anything).Return(0, nil).Maybe()

	sweeper := NewNoShowSweeper(mockService, 10*time.Millisecond)

	go sweeper.Start(context.Background())

	// 少なくとも1回はティックさせてから停止する
	time.Sleep(35 * time.Millisecond)
	sweeper.Stop()

	// Stop は doneCh を待つため、ここに到達すればワーカーは終了している
	mockService.AssertCalled(t, "SweepNoShowBookings", mock.Anything)
}

func TestNoShowSweeper_ContextCancel(t *testing.T) {
	mockService := new(MockNoShowCanceller)
	mockService.On("SweepNoShowBookings", mock.Anything).Return(0, nil).Maybe()

	sweeper := NewNoShowSweeper(mockService, 1*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go sweeper.Start(ctx)

	cancel()

	select {
	case <-sweeper.doneCh:
		// コンテキストキャンセルでワーカーが終了した
	case <-time.After(1 * time.Second):
		t.Fatal("ワーカーがコンテキストキャンセルで停止しなかった")
	}
}
