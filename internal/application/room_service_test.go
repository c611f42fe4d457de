package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/room"
)

func newRoomService() (*RoomService, *MockRoomRepository) {
	repo := new(MockRoomRepository)
	// キャッシュなしの構成で検証する
	return NewRoomService(repo, nil), repo
}

func TestRoomService_CreateRoom(t *testing.T) {
	svc, repo := newRoomService()
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*room.Room")).Return(nil)

	rm, err := svc.CreateRoom(ctx, CreateRoomInput{
		RoomNumber: "101", RoomType: "twin", Capacity: 2, PricePerNight: 12000,
	})
	require.NoError(t, err)
	assert.Equal(t, room.StatusAvailable, rm.Status)
	repo.AssertExpectations(t)
}

func TestRoomService_CreateRoom_ValidationError(t *testing.T) {
	svc, repo := newRoomService()
	ctx := context.Background()

	_, err := svc.CreateRoom(ctx, CreateRoomInput{
		RoomNumber: "", RoomType: "twin", Capacity: 2, PricePerNight: 12000,
	})
	assert.ErrorIs(t, err, room.ErrRoomNumberRequired)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRoomService_CreateRoom_DuplicateNumber(t *testing.T) {
	svc, repo := newRoomService()
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*room.Room")).Return(room.ErrRoomNumberTaken)

	_, err := svc.CreateRoom(ctx, CreateRoomInput{
		RoomNumber: "101", RoomType: "twin", Capacity: 2, PricePerNight: 12000,
	})
	assert.ErrorIs(t, err, room.ErrRoomNumberTaken)
}

func TestRoomService_GetRoomStatus_NoCache(t *testing.T) {
	svc, repo := newRoomService()
	ctx := context.Background()

	repo.On("GetByID", ctx, "room-1").
		Return(&room.Room{ID: "room-1", Status: room.StatusOccupied}, nil)

	status, err := svc.GetRoomStatus(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, room.StatusOccupied, status)
}

func TestRoomService_ListRooms_LimitDefaults(t *testing.T) {
	svc, repo := newRoomService()
	ctx := context.Background()

	repo.On("List", ctx, defaultListLimit, 0).Return([]*room.Room{}, nil)

	_, err := svc.ListRooms(ctx, 0, -3)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRoomService_SetMaintenance(t *testing.T) {
	svc, repo := newRoomService()
	ctx := context.Background()

	rm := &room.Room{ID: "room-1", RoomNumber: "101", RoomType: "twin", Capacity: 2, PricePerNight: 12000, Status: room.StatusAvailable}
	repo.On("GetByID", ctx, "room-1").Return(rm, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(r *room.Room) bool {
		return r.Status == room.StatusMaintenance
	})).Return(nil)

	updated, err := svc.SetMaintenance(ctx, "room-1", true)
	require.NoError(t, err)
	assert.Equal(t, room.StatusMaintenance, updated.Status)
	repo.AssertExpectations(t)
}

func TestRoomService_UpdateRoom_ValidationError(t *testing.T) {
	svc, repo := newRoomService()
	ctx := context.Background()

	rm := &room.Room{ID: "room-1", RoomNumber: "101", RoomType: "twin", Capacity: 2, PricePerNight: 12000, Status: room.StatusAvailable}
	repo.On("GetByID", ctx, "room-1").Return(rm, nil)

	_, err := svc.UpdateRoom(ctx, UpdateRoomInput{
		ID: "room-1", RoomNumber: "101", RoomType: "twin", Capacity: 0, PricePerNight: 12000,
	})
	assert.ErrorIs(t, err, room.ErrInvalidCapacity)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRoomService_DeleteRoom_NotFound(t *testing.T) {
	svc, repo := newRoomService()
	ctx := context.Background()

	repo.On("Delete", ctx, "room-404").Return(room.ErrRoomNotFound)

	err := svc.DeleteRoom(ctx, "room-404")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
}
