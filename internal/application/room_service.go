package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/room"
	redisinfra "github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/infrastructure/redis"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/pkg/logger"
)

const statusCacheTTL = 30 * time.Second

type RoomService struct {
	roomRepo room.Repository
	cache    *redisinfra.RoomStatusCache
}

// NewRoomService は客室サービスを作成する（cache は nil 可）
func NewRoomService(rr room.Repository, cache *redisinfra.RoomStatusCache) *RoomService {
	return &RoomService{roomRepo: rr, cache: cache}
}

type CreateRoomInput struct {
	RoomNumber    string
	RoomType      string
	Capacity      int
	PricePerNight int
}

func (s *RoomService) CreateRoom(ctx context.Context, input CreateRoomInput) (*room.Room, error) {
	rm := room.NewRoom(input.RoomNumber, input.RoomType, input.Capacity, input.PricePerNight)
	if err := rm.Validate(); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Create(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id string) (*room.Room, error) {
	return s.roomRepo.GetByID(ctx, id)
}

// GetRoomStatus は客室の基底状態を返す（キャッシュ優先）
// 滞在状態の変化はTTL分だけ遅れて見える可能性がある
func (s *RoomService) GetRoomStatus(ctx context.Context, id string) (room.Status, error) {
	if s.cache != nil {
		cached, err := s.cache.GetStatus(ctx, id)
		if err == nil {
			return room.Status(cached), nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	rm, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetStatus(ctx, id, string(rm.Status), statusCacheTTL); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}
	return rm.Status, nil
}

func (s *RoomService) ListRooms(ctx context.Context, limit, offset int) ([]*room.Room, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.roomRepo.List(ctx, limit, offset)
}

type UpdateRoomInput struct {
	ID            string
	RoomNumber    string
	RoomType      string
	Capacity      int
	PricePerNight int
}

func (s *RoomService) UpdateRoom(ctx context.Context, input UpdateRoomInput) (*room.Room, error) {
	rm, err := s.roomRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	rm.RoomNumber = input.RoomNumber
	rm.RoomType = input.RoomType
	rm.Capacity = input.Capacity
	rm.PricePerNight = input.PricePerNight
	rm.UpdatedAt = time.Now()
	if err := rm.Validate(); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Update(ctx, rm); err != nil {
		return nil, err
	}
	s.invalidateStatus(ctx, rm.ID)
	return rm, nil
}

// SetMaintenance は客室をメンテナンス状態にする／解除する
// メンテナンス中の客室は空室判定で即座に不可と判定される
func (s *RoomService) SetMaintenance(ctx context.Context, id string, on bool) (*room.Room, error) {
	rm, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if on {
		rm.Status = room.StatusMaintenance
	} else {
		rm.Status = room.StatusAvailable
	}
	rm.UpdatedAt = time.Now()
	if err := s.roomRepo.Update(ctx, rm); err != nil {
		return nil, err
	}
	s.invalidateStatus(ctx, id)
	return rm, nil
}

func (s *RoomService) DeleteRoom(ctx context.Context, id string) error {
	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStatus(ctx, id)
	return nil
}

// CountRoomsByStatus は状態ごとの客室数を返す
func (s *RoomService) CountRoomsByStatus(ctx context.Context, status room.Status) (int, error) {
	return s.roomRepo.CountByStatus(ctx, status)
}

func (s *RoomService) invalidateStatus(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Error(err))
	}
}
