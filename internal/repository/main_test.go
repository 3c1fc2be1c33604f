package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dumeirei/hotel-frontdesk/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(models.AllModels()...)
	require.NoError(t, err)

	return db
}

func mustDate(t *testing.T, s string) datatypes.Date {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return datatypes.Date(d)
}

func createTestRoom(t *testing.T, db *gorm.DB, number, status string, price float64) *models.Room {
	t.Helper()
	room := &models.Room{Number: number, Type: models.RoomTypeSingle, Price: price, Status: status}
	require.NoError(t, db.Create(room).Error)
	return room
}

func createTestGuest(t *testing.T, db *gorm.DB, name, surname, phone string) *models.Guest {
	t.Helper()
	guest := &models.Guest{Name: name, Surname: surname, Phone: phone}
	require.NoError(t, db.Create(guest).Error)
	return guest
}

func createTestReservation(t *testing.T, db *gorm.DB, no string, guestID, roomID int64, checkIn, checkOut, status string) *models.Reservation {
	t.Helper()
	reservation := &models.Reservation{
		ReservationNo: no,
		GuestID:       guestID,
		RoomID:        roomID,
		CheckIn:       mustDate(t, checkIn),
		CheckOut:      mustDate(t, checkOut),
		Status:        status,
		Total:         1500,
	}
	require.NoError(t, db.Create(reservation).Error)
	return reservation
}
