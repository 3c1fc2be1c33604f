package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "[4002] 房间不可用", ErrRoomNotAvailable.Error())
	assert.Equal(t, "[1004] 数据库错误: database is locked",
		ErrDatabaseError.WithError(stderrors.New("database is locked")).Error())
}

func TestAppError_Derive(t *testing.T) {
	t.Run("WithMessage不修改哨兵", func(t *testing.T) {
		derived := ErrRoomNotAvailable.WithMessage("房间 101 正在清洁")
		assert.Equal(t, ErrRoomNotAvailable.Code, derived.Code)
		assert.Equal(t, "房间 101 正在清洁", derived.Message)
		assert.Equal(t, "房间不可用", ErrRoomNotAvailable.Message)
	})

	t.Run("WithError保留底层错误", func(t *testing.T) {
		cause := stderrors.New("UNIQUE constraint failed: rooms.number")
		derived := ErrRoomNumberExists.WithError(cause)
		assert.Same(t, cause, derived.Unwrap())
		assert.True(t, stderrors.Is(derived, cause))
		assert.Nil(t, ErrRoomNumberExists.Err)
	})

	t.Run("链式派生", func(t *testing.T) {
		derived := Wrap(8001, "预订不是进行中状态", nil).
			WithMessage("预订已取消").
			WithError(stderrors.New("status=cancelled"))
		assert.Equal(t, 8001, derived.Code)
		assert.Equal(t, "预订已取消", derived.Message)
		assert.Contains(t, derived.Error(), "status=cancelled")
	})
}

func TestAppError_Is(t *testing.T) {
	derived := ErrRoomNotAvailable.WithMessage("房间 101 不可用")
	assert.True(t, stderrors.Is(derived, ErrRoomNotAvailable))
	assert.True(t, stderrors.Is(fmt.Errorf("checkin: %w", derived), ErrRoomNotAvailable))
	assert.False(t, stderrors.Is(derived, ErrRoomNotFound))
	assert.False(t, stderrors.Is(stderrors.New("plain"), ErrRoomNotFound))
}

func TestAs(t *testing.T) {
	t.Run("直接的业务错误", func(t *testing.T) {
		appErr, ok := As(ErrGuestNotFound)
		require.True(t, ok)
		assert.Same(t, ErrGuestNotFound, appErr)
	})

	t.Run("被包装的业务错误", func(t *testing.T) {
		appErr, ok := As(fmt.Errorf("tx: %w", ErrReservationNotActive))
		require.True(t, ok)
		assert.Equal(t, ErrReservationNotActive.Code, appErr.Code)
	})

	t.Run("普通错误", func(t *testing.T) {
		_, ok := As(stderrors.New("boom"))
		assert.False(t, ok)
		_, ok = As(nil)
		assert.False(t, ok)
	})
}

func TestErrorCodesAreUnique(t *testing.T) {
	all := []*AppError{
		ErrInvalidParams, ErrDatabaseError, ErrInternalError, ErrRateLimitExceed,
		ErrTokenExpired, ErrTokenRefreshFail, ErrPermissionDenied, ErrPasswordError,
		ErrEmployeeNotFound, ErrUsernameExists, ErrInvalidPrivilege, ErrCannotDeleteSelf,
		ErrRoomNotFound, ErrRoomNumberExists, ErrRoomNotAvailable, ErrRoomHasReservations, ErrInvalidRoomStatus,
		ErrGuestNotFound, ErrGuestContactExists, ErrGuestHasReservations,
		ErrReservationNotFound, ErrReservationNotActive, ErrInvalidDateRange,
	}
	seen := make(map[int]string, len(all))
	for _, e := range all {
		assert.NotEmpty(t, e.Message)
		if prev, dup := seen[e.Code]; dup {
			t.Errorf("错误码 %d 重复: %s / %s", e.Code, prev, e.Message)
		}
		seen[e.Code] = e.Message
	}
}
