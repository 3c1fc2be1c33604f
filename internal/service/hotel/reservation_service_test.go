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

func TestReservationService_JuanPerezScenario(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	room := createTestRoom(t, env.db, "101", models.RoomStatusAvailable, 500)
	guest := createTestGuest(t, env.db, "Juan", "Pérez", "5512345678")

	info, err := env.reservations.CreateReservation(ctx, &CreateReservationRequest{
		GuestID:  guest.ID,
		RoomID:   room.ID,
		CheckIn:  "2024-01-01",
		CheckOut: "2024-01-04",
	})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, info.Total)
	assert.Equal(t, 3, info.Nights)
	assert.Equal(t, models.ReservationStatusActive, info.Status)
	assert.Equal(t, "Juan Pérez", info.GuestName)
	assert.Equal(t, "101", info.RoomNumber)
	assert.Equal(t, "2024-01-01", info.CheckIn)
	assert.Equal(t, "2024-01-04", info.CheckOut)
	assert.Contains(t, info.ReservationNo, ReservationNoPrefix)
	assert.Equal(t, models.RoomStatusOccupied, roomStatus(t, env.db, room.ID))

	finalized, err := env.reservations.Checkout(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusFinalized, finalized.Status)
	assert.Equal(t, "已退房", finalized.StatusName)
	assert.NotNil(t, finalized.FinalizedAt)
	assert.Equal(t, 1500.0, finalized.Total)
	assert.Equal(t, models.RoomStatusCleaning, roomStatus(t, env.db, room.ID))
}

func TestReservationService_CreateReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("同日入住退房被拒绝", func(t *testing.T) {
		env := setupTestEnv(t)
		room := createTestRoom(t, env.db, "101", models.RoomStatusAvailable, 500)
		guest := createTestGuest(t, env.db, "Juan", "Pérez", "5512345678")

		_, err := env.reservations.CreateReservation(ctx, &CreateReservationRequest{
			GuestID: guest.ID, RoomID: room.ID, CheckIn: "2024-01-01", CheckOut: "2024-01-01",
		})
		assert.True(t, errors.ErrInvalidDateRange.Is(err))
		assert.Equal(t, int64(0), countRows(t, env.db, &models.Reservation{}))
		assert.Equal(t, models.RoomStatusAvailable, roomStatus(t, env.db, room.ID))
	})

	t.Run("退房早于入住被拒绝", func(t *testing.T) {
		env := setupTestEnv(t)
		room := createTestRoom(t, env.db, "101", models.RoomStatusAvailable, 500)
		guest := createTestGuest(t, env.db, "Juan", "Pérez", "5512345678")

		_, err := env.reservations.CreateReservation(ctx, &CreateReservationRequest{
			GuestID: guest.ID, RoomID: room.ID, CheckIn: "2024-01-05", CheckOut: "2024-01-01",
		})
		assert.True(t, errors.ErrInvalidDateRange.Is(err))
	})

	t.Run("日期格式错误", func(t *testing.T) {
		env := setupTestEnv(t)
		_, err := env.reservations.CreateReservation(ctx, &CreateReservationRequest{
			GuestID: 1, RoomID: 1, CheckIn: "01/01/2024", CheckOut: "2024-01-04",
		})
		assert.True(t, errors.ErrInvalidParams.Is(err))
	})

	t.Run("未指定客人", func(t *testing.T) {
		env := setupTestEnv(t)
		room := createTestRoom(t, env.db, "101", models.RoomStatusAvailable, 500)
		_, err := env.reservations.CreateReservation(ctx, &CreateReservationRequest{
			RoomID: room.ID, CheckIn: "2024-01-01", CheckOut: "2024-01-02",
		})
		assert.True(t, errors.ErrInvalidParams.Is(err))
	})

	t.Run("房间不存在", func(t *testing.T) {
		env := setupTestEnv(t)
		guest := createTestGuest(t, env.db, "Juan", "Pérez", "5512345678")
		_, err := env.reservations.CreateReservation(ctx, &CreateReservationRequest{
			GuestID: guest.ID, RoomID: 999, CheckIn: "2024-01-01", CheckOut: "2024-01-02",
		})
		assert.True(t, errors.ErrRoomNotFound.Is(err))
	})

	t.Run("客人不存在时不占用房间", func(t *testing.T) {
		env := setupTestEnv(t)
		room := createTestRoom(t, env.db, "101", models.RoomStatusAvailable, 500)
		_, err := env.reservations.CreateReservation(ctx, &CreateReservationRequest{
			GuestID: 999, RoomID: room.ID, CheckIn: "2024-01-01", CheckOut: "2024-01-02",
		})
		assert.True(t, errors.ErrGuestNotFound.Is(err))
		assert.Equal(t, models.RoomStatusAvailable, roomStatus(t, env.db, room.ID))
	})

	t.Run("非空闲房间不可预订", func(t *testing.T) {
		for _, status := range []string{models.RoomStatusOccupied, models.RoomStatusCleaning, models.RoomStatusMaintenance} {
			env := setupTestEnv(t)
			room := createTestRoom(t, env.db, "101", status, 500)
			guest := createTestGuest(t, env.db, "Juan", "Pérez", "5512345678")

			_, err := env.reservations.CreateReservation(ctx, &CreateReservationRequest{
				GuestID: guest.ID, RoomID: room.ID, CheckIn: "2024-01-01", CheckOut: "2024-01-02",
			})
			assert.True(t, errors.ErrRoomNotAvailable.Is(err), status)
			assert.Equal(t, status, roomStatus(t, env.db, room.ID))
		}
	})

	t.Run("同一房间不能重复预订", func(t *testing.T) {
		env := setupTestEnv(t)
		room := createTestRoom(t, env.db, "101", models.RoomStatusAvailable, 500)
		guest := createTestGuest(t, env.db, "Juan", "Pérez", "5512345678")
		req := &CreateReservationRequest{GuestID: guest.ID, RoomID: room.ID, CheckIn: "2024-01-01", CheckOut: "2024-01-03"}

		_, err := env.reservations.CreateReservation(ctx, req)
		require.NoError(t, err)
		_, err = env.reservations.CreateReservation(ctx, req)
		assert.True(t, errors.ErrRoomNotAvailable.Is(err))
		assert.Equal(t, int64(1), countRows(t, env.db, &models.Reservation{}))
	})

	t.Run("按电话匹配已有客人", func(t *testing.T) {
		env := setupTestEnv(t)
		room := createTestRoom(t, env.db, "101", models.RoomStatusAvailable, 500)
		guest := createTestGuest(t, env.db, "Juan", "Pérez", "5512345678")

		info, err := env.reservations.CreateReservation(ctx, &CreateReservationRequest{
			Guest:  &GuestInput{Name: "Juan", Surname: "Pérez", Phone: "5512345678"},
			RoomID: room.ID, CheckIn: "2024-01-01", CheckOut: "2024-01-02",
		})
		require.NoError(t, err)
		assert.Equal(t, guest.ID, info.GuestID)
		assert.Equal(t, int64(1), countRows(t, env.db, &models.Guest{}))
	})

	t.Run("新客人在同一事务内登记", func(t *testing.T) {
		env := setupTestEnv(t)
		room := createTestRoom(t, env.db, "201", models.RoomStatusAvailable, 1500)

		info, err := env.reservations.CreateReservation(ctx, &CreateReservationRequest{
			Guest:  &GuestInput{Name: "Ana", Surname: "López", Phone: "5598765432", Email: "ana@example.com"},
			RoomID: room.ID, CheckIn: "2024-02-28", CheckOut: "2024-03-01",
		})
		require.NoError(t, err)
		assert.Equal(t, "Ana López", info.GuestName)
		assert.Equal(t, 2, info.Nights)
		assert.Equal(t, 3000.0, info.Total)
		assert.Equal(t, int64(1), countRows(t, env.db, &models.Guest{}))
	})

	t.Run("新客人信息不完整时整体回滚", func(t *testing.T) {
		env := setupTestEnv(t)
		room := createTestRoom(t, env.db, "101", models.RoomStatusAvailable, 500)

		_, err := env.reservations.CreateReservation(ctx, &CreateReservationRequest{
			Guest:  &GuestInput{Name: "Ana", Phone: "5598765432"},
			RoomID: room.ID, CheckIn: "2024-01-01", CheckOut: "2024-01-02",
		})
		assert.True(t, errors.ErrInvalidParams.Is(err))
		assert.Equal(t, int64(0), countRows(t, env.db, &models.Guest{}))
		assert.Equal(t, models.RoomStatusAvailable, roomStatus(t, env.db, room.ID))
	})

	t.Run("总价按两位小数取整", func(t *testing.T) {
		env := setupTestEnv(t)
		room := createTestRoom(t, env.db, "101", models.RoomStatusAvailable, 333.33)
		guest := createTestGuest(t, env.db, "Juan", "Pérez", "5512345678")

		info, err := env.reservations.CreateReservation(ctx, &CreateReservationRequest{
			GuestID: guest.ID, RoomID: room.ID, CheckIn: "2024-01-01", CheckOut: "2024-01-04",
		})
		require.NoError(t, err)
		assert.Equal(t, 999.99, info.Total)
	})
}

func TestReservationService_Transitions(t *testing.T) {
	ctx := context.Background()

	newActive := func(t *testing.T, env *testEnv) (*models.Room, *ReservationInfo) {
		room := createTestRoom(t, env.db, "101", models.RoomStatusAvailable, 500)
		guest := createTestGuest(t, env.db, "Juan", "Pérez", "5512345678")
		info, err := env.reservations.CreateReservation(ctx, &CreateReservationRequest{
			GuestID: guest.ID, RoomID: room.ID, CheckIn: "2024-01-01", CheckOut: "2024-01-04",
		})
		require.NoError(t, err)
		return room, info
	}

	t.Run("取消后房间恢复空闲", func(t *testing.T) {
		env := setupTestEnv(t)
		room, info := newActive(t, env)

		cancelled, err := env.reservations.Cancel(ctx, info.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ReservationStatusCancelled, cancelled.Status)
		assert.Equal(t, "已取消", cancelled.StatusName)
		assert.NotNil(t, cancelled.CancelledAt)
		assert.Nil(t, cancelled.FinalizedAt)
		assert.Equal(t, models.RoomStatusAvailable, roomStatus(t, env.db, room.ID))
	})

	t.Run("终态预订不能再次退房或取消", func(t *testing.T) {
		env := setupTestEnv(t)
		room, info := newActive(t, env)

		_, err := env.reservations.Checkout(ctx, info.ID)
		require.NoError(t, err)

		_, err = env.reservations.Checkout(ctx, info.ID)
		assert.True(t, errors.ErrReservationNotActive.Is(err))
		_, err = env.reservations.Cancel(ctx, info.ID)
		assert.True(t, errors.ErrReservationNotActive.Is(err))

		got, err := env.reservations.GetReservation(ctx, info.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ReservationStatusFinalized, got.Status)
		assert.Equal(t, models.RoomStatusCleaning, roomStatus(t, env.db, room.ID))
	})

	t.Run("已取消的预订不能退房", func(t *testing.T) {
		env := setupTestEnv(t)
		room, info := newActive(t, env)

		_, err := env.reservations.Cancel(ctx, info.ID)
		require.NoError(t, err)
		_, err = env.reservations.Checkout(ctx, info.ID)
		assert.True(t, errors.ErrReservationNotActive.Is(err))
		assert.Equal(t, models.RoomStatusAvailable, roomStatus(t, env.db, room.ID))
	})

	t.Run("预订不存在", func(t *testing.T) {
		env := setupTestEnv(t)
		_, err := env.reservations.Checkout(ctx, 999)
		assert.True(t, errors.ErrReservationNotFound.Is(err))
		_, err = env.reservations.Cancel(ctx, 999)
		assert.True(t, errors.ErrReservationNotFound.Is(err))
		assert.True(t, errors.ErrReservationNotFound.Is(env.reservations.Delete(ctx, 999)))
	})

	t.Run("删除进行中的预订释放房间", func(t *testing.T) {
		env := setupTestEnv(t)
		room, info := newActive(t, env)

		require.NoError(t, env.reservations.Delete(ctx, info.ID))
		assert.Equal(t, int64(0), countRows(t, env.db, &models.Reservation{}))
		assert.Equal(t, models.RoomStatusAvailable, roomStatus(t, env.db, room.ID))
	})

	t.Run("删除已退房的预订也释放房间", func(t *testing.T) {
		env := setupTestEnv(t)
		room, info := newActive(t, env)

		_, err := env.reservations.Checkout(ctx, info.ID)
		require.NoError(t, err)
		require.Equal(t, models.RoomStatusCleaning, roomStatus(t, env.db, room.ID))

		require.NoError(t, env.reservations.Delete(ctx, info.ID))
		assert.Equal(t, models.RoomStatusAvailable, roomStatus(t, env.db, room.ID))
	})

	t.Run("取消后房间可再次预订", func(t *testing.T) {
		env := setupTestEnv(t)
		room, info := newActive(t, env)

		_, err := env.reservations.Cancel(ctx, info.ID)
		require.NoError(t, err)

		again, err := env.reservations.CreateReservation(ctx, &CreateReservationRequest{
			GuestID: info.GuestID, RoomID: room.ID, CheckIn: "2024-01-01", CheckOut: "2024-01-04",
		})
		require.NoError(t, err)
		assert.Equal(t, models.ReservationStatusActive, again.Status)
	})
}

func TestReservationService_ListAndQRCode(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	room1 := createTestRoom(t, env.db, "101", models.RoomStatusAvailable, 500)
	room2 := createTestRoom(t, env.db, "102", models.RoomStatusAvailable, 800)
	juan := createTestGuest(t, env.db, "Juan", "Pérez", "5512345678")
	ana := createTestGuest(t, env.db, "Ana", "López", "5598765432")

	r1, err := env.reservations.CreateReservation(ctx, &CreateReservationRequest{
		GuestID: juan.ID, RoomID: room1.ID, CheckIn: "2024-01-01", CheckOut: "2024-01-04",
	})
	require.NoError(t, err)
	_, err = env.reservations.CreateReservation(ctx, &CreateReservationRequest{
		GuestID: ana.ID, RoomID: room2.ID, CheckIn: "2024-01-02", CheckOut: "2024-01-03",
	})
	require.NoError(t, err)
	_, err = env.reservations.Checkout(ctx, r1.ID)
	require.NoError(t, err)

	t.Run("全部", func(t *testing.T) {
		list, total, err := env.reservations.ListReservations(ctx, 0, 10, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, list, 2)
	})

	t.Run("按状态过滤", func(t *testing.T) {
		list, total, err := env.reservations.ListReservations(ctx, 0, 10, map[string]interface{}{
			"status": models.ReservationStatusActive,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Ana López", list[0].GuestName)
	})

	t.Run("按关键字过滤", func(t *testing.T) {
		list, total, err := env.reservations.ListReservations(ctx, 0, 10, map[string]interface{}{
			"keyword": "Pérez",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "101", list[0].RoomNumber)
	})

	t.Run("无效状态", func(t *testing.T) {
		_, _, err := env.reservations.ListReservations(ctx, 0, 10, map[string]interface{}{"status": "pending"})
		assert.True(t, errors.ErrInvalidParams.Is(err))
	})

	t.Run("确认单二维码", func(t *testing.T) {
		png, err := env.reservations.ConfirmationQRCode(ctx, r1.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])

		_, err = env.reservations.ConfirmationQRCode(ctx, 999)
		assert.True(t, errors.ErrReservationNotFound.Is(err))
	})
}

func TestReservationService_InvalidatesDashboardStats(t *testing.T) {
	s := setupTestCache(t)
	env := setupTestEnv(t)
	ctx := context.Background()

	room := createTestRoom(t, env.db, "101", models.RoomStatusAvailable, 500)
	guest := createTestGuest(t, env.db, "Juan", "Pérez", "5512345678")

	require.NoError(t, s.Set(cache.KeyDashboardStats, `{"available":1}`))
	info, err := env.reservations.CreateReservation(ctx, &CreateReservationRequest{
		GuestID: guest.ID, RoomID: room.ID, CheckIn: "2024-01-01", CheckOut: "2024-01-02",
	})
	require.NoError(t, err)
	assert.False(t, s.Exists(cache.KeyDashboardStats))

	require.NoError(t, s.Set(cache.KeyDashboardStats, `{"available":0}`))
	_, err = env.reservations.Checkout(ctx, info.ID)
	require.NoError(t, err)
	assert.False(t, s.Exists(cache.KeyDashboardStats))

	require.NoError(t, s.Set(cache.KeyDashboardStats, `{"available":0}`))
	_, err = env.reservations.Checkout(ctx, info.ID)
	assert.Error(t, err)
	assert.True(t, s.Exists(cache.KeyDashboardStats))
}
