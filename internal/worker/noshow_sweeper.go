package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/pkg/logger"
)

// NoShowCanceller はチェックイン日を過ぎた保留中予約をキャンセルするインターフェース
type NoShowCanceller interface {
	SweepNoShowBookings(ctx context.Context) (int, error)
}

// NoShowSweeper は確定されないまま放置された予約を定期的に掃き出すワーカー
// キャンセルは通常の PENDING→CANCELLED 遷移として適用される
type NoShowSweeper struct {
	bookingService NoShowCanceller
	interval       time.Duration
	stopCh         chan struct{}
	doneCh         chan struct{}
}

// NewNoShowSweeper は新しいスイーパーを作成
func NewNoShowSweeper(bs NoShowCanceller, interval time.Duration) *NoShowSweeper {
	return &NoShowSweeper{
		bookingService: bs,
		interval:       interval,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start はスイーパーを開始
func (s *NoShowSweeper) Start(ctx context.Context) {
	logger.Info("ノーショー掃き出しワーカー開始", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("ノーショー掃き出しワーカー停止（コンテキストキャンセル）")
			return
		case <-s.stopCh:
			logger.Info("ノーショー掃き出しワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop はスイーパーを停止
func (s *NoShowSweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

func (s *NoShowSweeper) sweep(ctx context.Context) {
	log := logger.Get()
	log.Debug("ノーショー予約の掃き出し開始")

	count, err := s.bookingService.SweepNoShowBookings(ctx)
	if err != nil {
		log.Error("ノーショー予約の掃き出しに失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("ノーショー予約をキャンセル", zap.Int("count", count))
	} else {
		log.Debug("ノーショー予約なし")
	}
}
