package hotel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/hotel-frontdesk/internal/common/cache"
	"github.com/dumeirei/hotel-frontdesk/internal/common/errors"
	"github.com/dumeirei/hotel-frontdesk/internal/models"
)

func TestRoomService_CreateRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("默认状态为空闲", func(t *testing.T) {
		env := setupTestEnv(t)
		info, err := env.rooms.CreateRoom(ctx, &CreateRoomRequest{Number: " 101 ", Type: models.RoomTypeSingle, Price: 500})
		require.NoError(t, err)
		assert.Equal(t, "101", info.Number)
		assert.Equal(t, models.RoomStatusAvailable, info.Status)
		assert.Equal(t, "空闲", info.StatusName)
	})

	t.Run("房间号重复时不修改已有数据", func(t *testing.T) {
		env := setupTestEnv(t)
		existing := createTestRoom(t, env.db, "101", models.RoomStatusOccupied, 500)

		_, err := env.rooms.CreateRoom(ctx, &CreateRoomRequest{Number: "101", Type: models.RoomTypeDeluxe, Price: 900})
		assert.True(t, errors.ErrRoomNumberExists.Is(err))

		var rooms []models.Room
		require.NoError(t, env.db.Find(&rooms).Error)
		require.Len(t, rooms, 1)
		assert.Equal(t, existing.ID, rooms[0].ID)
		assert.Equal(t, models.RoomTypeSingle, rooms[0].Type)
		assert.Equal(t, 500.0, rooms[0].Price)
		assert.Equal(t, models.RoomStatusOccupied, rooms[0].Status)
	})

	t.Run("参数校验", func(t *testing.T) {
		env := setupTestEnv(t)
		cases := []*CreateRoomRequest{
			{Number: "", Type: "Doble", Price: 500},
			{Number: "101", Type: " ", Price: 500},
			{Number: "101", Type: "Doble", Price: 0},
			{Number: "101", Type: "Doble", Price: -1},
		}
		for _, req := range cases {
			_, err := env.rooms.CreateRoom(ctx, req)
			assert.True(t, errors.ErrInvalidParams.Is(err))
		}

		_, err := env.rooms.CreateRoom(ctx, &CreateRoomRequest{Number: "101", Type: "Doble", Price: 500, Status: "Disponible"})
		assert.True(t, errors.ErrInvalidRoomStatus.Is(err))
		assert.Equal(t, int64(0), countRows(t, env.db, &models.Room{}))
	})
}

func TestRoomService_UpdateRoom(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	room := createTestRoom(t, env.db, "101", models.RoomStatusOccupied, 500)
	createTestRoom(t, env.db, "102", models.RoomStatusAvailable, 500)

	t.Run("保留房间状态", func(t *testing.T) {
		info, err := env.rooms.UpdateRoom(ctx, room.ID, &UpdateRoomRequest{Number: "101", Type: models.RoomTypeFamily, Price: 800})
		require.NoError(t, err)
		assert.Equal(t, models.RoomTypeFamily, info.Type)
		assert.Equal(t, 800.0, info.Price)
		assert.Equal(t, models.RoomStatusOccupied, roomStatus(t, env.db, room.ID))
	})

	t.Run("房间号与其他房间冲突", func(t *testing.T) {
		_, err := env.rooms.UpdateRoom(ctx, room.ID, &UpdateRoomRequest{Number: "102", Type: "Doble", Price: 500})
		assert.True(t, errors.ErrRoomNumberExists.Is(err))
	})

	t.Run("房间不存在", func(t *testing.T) {
		_, err := env.rooms.UpdateRoom(ctx, 999, &UpdateRoomRequest{Number: "999", Type: "Doble", Price: 500})
		assert.True(t, errors.ErrRoomNotFound.Is(err))
	})
}

func TestRoomService_DeleteRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("删除空房间", func(t *testing.T) {
		env := setupTestEnv(t)
		room := createTestRoom(t, env.db, "101", models.RoomStatusAvailable, 500)
		require.NoError(t, env.rooms.DeleteRoom(ctx, room.ID))
		_, err := env.rooms.GetRoom(ctx, room.ID)
		assert.True(t, errors.ErrRoomNotFound.Is(err))
	})

	t.Run("存在预订时拒绝删除", func(t *testing.T) {
		env := setupTestEnv(t)
		room := createTestRoom(t, env.db, "101", models.RoomStatusAvailable, 500)
		guest := createTestGuest(t, env.db, "Juan", "Pérez", "5512345678")
		_, err := env.reservations.CreateReservation(ctx, &CreateReservationRequest{
			GuestID: guest.ID, RoomID: room.ID, CheckIn: "2024-01-01", CheckOut: "2024-01-02",
		})
		require.NoError(t, err)

		err = env.rooms.DeleteRoom(ctx, room.ID)
		assert.True(t, errors.ErrRoomHasReservations.Is(err))
		assert.Equal(t, int64(1), countRows(t, env.db, &models.Room{}))
	})

	t.Run("房间不存在", func(t *testing.T) {
		env := setupTestEnv(t)
		assert.True(t, errors.ErrRoomNotFound.Is(env.rooms.DeleteRoom(ctx, 999)))
	})
}

func TestRoomService_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("直接写入任意合法状态", func(t *testing.T) {
		env := setupTestEnv(t)
		room := createTestRoom(t, env.db, "101", models.RoomStatusCleaning, 500)

		for _, status := range []string{models.RoomStatusAvailable, models.RoomStatusMaintenance, models.RoomStatusOccupied} {
			info, err := env.rooms.ChangeStatus(ctx, room.ID, status)
			require.NoError(t, err)
			assert.Equal(t, status, info.Status)
			assert.Equal(t, status, roomStatus(t, env.db, room.ID))
		}
	})

	t.Run("非法状态", func(t *testing.T) {
		env := setupTestEnv(t)
		room := createTestRoom(t, env.db, "101", models.RoomStatusAvailable, 500)
		_, err := env.rooms.ChangeStatus(ctx, room.ID, "Disponible")
		assert.True(t, errors.ErrInvalidRoomStatus.Is(err))
		assert.Equal(t, models.RoomStatusAvailable, roomStatus(t, env.db, room.ID))
	})

	t.Run("房间不存在", func(t *testing.T) {
		env := setupTestEnv(t)
		_, err := env.rooms.ChangeStatus(ctx, 999, models.RoomStatusAvailable)
		assert.True(t, errors.ErrRoomNotFound.Is(err))
	})

	t.Run("清除看板缓存", func(t *testing.T) {
		s := setupTestCache(t)
		env := setupTestEnv(t)
		room := createTestRoom(t, env.db, "101", models.RoomStatusCleaning, 500)

		require.NoError(t, s.Set(cache.KeyDashboardStats, "{}"))
		_, err := env.rooms.ChangeStatus(ctx, room.ID, models.RoomStatusAvailable)
		require.NoError(t, err)
		assert.False(t, s.Exists(cache.KeyDashboardStats))
	})
}

func TestRoomService_List(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	createTestRoom(t, env.db, "101", models.RoomStatusAvailable, 500)
	createTestRoom(t, env.db, "102", models.RoomStatusOccupied, 500)
	createTestRoom(t, env.db, "201", models.RoomStatusAvailable, 1500)

	t.Run("按状态过滤", func(t *testing.T) {
		list, total, err := env.rooms.ListRooms(ctx, 0, 10, map[string]interface{}{"status": models.RoomStatusAvailable})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, list, 2)
	})

	t.Run("无效状态", func(t *testing.T) {
		_, _, err := env.rooms.ListRooms(ctx, 0, 10, map[string]interface{}{"status": "libre"})
		assert.True(t, errors.ErrInvalidRoomStatus.Is(err))
	})

	t.Run("可预订房间", func(t *testing.T) {
		list, err := env.rooms.ListAvailableRooms(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 2)
		for _, room := range list {
			assert.Equal(t, models.RoomStatusAvailable, room.Status)
		}
	})
}

func TestRoomStatusName(t *testing.T) {
	assert.Equal(t, "入住中", RoomStatusName(models.RoomStatusOccupied))
	assert.Equal(t, "清洁中", RoomStatusName(models.RoomStatusCleaning))
	assert.Equal(t, "维修中", RoomStatusName(models.RoomStatusMaintenance))
	assert.Equal(t, "未知", RoomStatusName("x"))
}
