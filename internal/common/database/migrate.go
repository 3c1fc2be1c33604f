package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/dumeirei/hotel-frontdesk/internal/common/config"
	"github.com/dumeirei/hotel-frontdesk/internal/common/crypto"
	"github.com/dumeirei/hotel-frontdesk/internal/common/logger"
	"github.com/dumeirei/hotel-frontdesk/internal/models"
	"gorm.io/gorm"
)

// Migrate 自动创建表结构
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// sampleRooms 初始房间数据
var sampleRooms = []models.Room{
	{Number: "101", Type: models.RoomTypeSingle, Price: 500, Status: models.RoomStatusAvailable},
	{Number: "102", Type: models.RoomTypeDouble, Price: 500, Status: models.RoomStatusOccupied},
	{Number: "103", Type: models.RoomTypeFamily, Price: 800, Status: models.RoomStatusAvailable},
	{Number: "104", Type: models.RoomTypeDeluxe, Price: 800, Status: models.RoomStatusCleaning},
	{Number: "201", Type: models.RoomTypeSingle, Price: 1500, Status: models.RoomStatusAvailable},
	{Number: "202", Type: models.RoomTypeDouble, Price: 1500, Status: models.RoomStatusAvailable},
	{Number: "203", Type: models.RoomTypeFamily, Price: 500, Status: models.RoomStatusAvailable},
	{Number: "204", Type: models.RoomTypeDeluxe, Price: 800, Status: models.RoomStatusMaintenance},
}

// Seed 写入初始数据，已存在的数据不会被覆盖
func Seed(ctx context.Context, conn *gorm.DB, cfg *config.FrontDeskConfig) error {
	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cfg.SeedSampleRooms {
			var count int64
			if err := tx.Model(&models.Room{}).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				rooms := make([]models.Room, len(sampleRooms))
				copy(rooms, sampleRooms)
				if err := tx.Create(&rooms).Error; err != nil {
					return fmt.Errorf("failed to seed rooms: %w", err)
				}
				logger.Info("已写入初始房间数据", logger.Int("count", len(rooms)))
			}
		}

		if cfg.DefaultAdminUsername == "" {
			return nil
		}

		var admin models.Employee
		err := tx.Where("username = ?", cfg.DefaultAdminUsername).First(&admin).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := crypto.HashPassword(cfg.DefaultAdminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin = models.Employee{
			Name:         "Admin",
			Surname:      "Sistema",
			Position:     "Gerente",
			Username:     cfg.DefaultAdminUsername,
			PasswordHash: hash,
			Privilege:    models.PrivilegeAdministrator,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		logger.Info("已创建默认管理员", logger.String("username", admin.Username))
		return nil
	})
}
