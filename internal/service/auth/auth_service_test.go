package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dumeirei/hotel-frontdesk/internal/common/crypto"
	"github.com/dumeirei/hotel-frontdesk/internal/common/errors"
	"github.com/dumeirei/hotel-frontdesk/internal/common/jwt"
	"github.com/dumeirei/hotel-frontdesk/internal/models"
	"github.com/dumeirei/hotel-frontdesk/internal/repository"
)

func TestMain(m *testing.M) {
	crypto.SetBcryptCost(bcrypt.MinCost)
	os.Exit(m.Run())
}

func setupAuthService(t *testing.T) (*AuthService, *gorm.DB, *jwt.Manager) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Employee{}))

	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            "test-secret",
		AccessExpireTime:  time.Hour,
		RefreshExpireTime: 24 * time.Hour,
		Issuer:            "hotel-frontdesk-test",
	})
	return NewAuthService(repository.NewEmployeeRepository(db), jwtManager), db, jwtManager
}

func createTestEmployee(t *testing.T, db *gorm.DB, username, password, privilege string) *models.Employee {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)

	employee := &models.Employee{
		Name:         "Admin",
		Surname:      "Sistema",
		Position:     "Gerente",
		Username:     username,
		PasswordHash: hash,
		Privilege:    privilege,
	}
	require.NoError(t, db.Create(employee).Error)
	return employee
}

func TestAuthService_Login(t *testing.T) {
	svc, db, jwtManager := setupAuthService(t)
	ctx := context.Background()
	admin := createTestEmployee(t, db, "admin", "1234", models.PrivilegeAdministrator)
	createTestEmployee(t, db, "recepcion", "abcd", models.PrivilegeEmployee)

	t.Run("管理员登录成功", func(t *testing.T) {
		resp, err := svc.Login(ctx, &LoginRequest{Username: "admin", Password: "1234"})
		require.NoError(t, err)
		assert.Equal(t, admin.ID, resp.Employee.ID)
		assert.Equal(t, "Admin Sistema", resp.Employee.FullName)
		assert.Equal(t, models.PrivilegeAdministrator, resp.Privilege)
		require.NotNil(t, resp.TokenPair)

		claims, err := jwtManager.ParseAccessToken(resp.TokenPair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, admin.ID, claims.EmployeeID)
		assert.Equal(t, models.PrivilegeAdministrator, claims.Privilege)
	})

	t.Run("普通员工登录返回员工权限", func(t *testing.T) {
		resp, err := svc.Login(ctx, &LoginRequest{Username: " recepcion ", Password: "abcd"})
		require.NoError(t, err)
		assert.Equal(t, models.PrivilegeEmployee, resp.Privilege)
	})

	t.Run("密码错误与用户不存在返回同一错误", func(t *testing.T) {
		_, errWrongPassword := svc.Login(ctx, &LoginRequest{Username: "admin", Password: "4321"})
		_, errUnknownUser := svc.Login(ctx, &LoginRequest{Username: "nadie", Password: "1234"})

		assert.True(t, errors.ErrPasswordError.Is(errWrongPassword))
		assert.True(t, errors.ErrPasswordError.Is(errUnknownUser))
		assert.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
	})

	t.Run("密码区分大小写且不接受明文哈希", func(t *testing.T) {
		var stored models.Employee
		require.NoError(t, db.First(&stored, admin.ID).Error)

		_, err := svc.Login(ctx, &LoginRequest{Username: "admin", Password: stored.PasswordHash})
		assert.True(t, errors.ErrPasswordError.Is(err))
	})

	t.Run("参数为空", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Username: " ", Password: "1234"})
		assert.True(t, errors.ErrInvalidParams.Is(err))
	})
}

func TestAuthService_GetProfile(t *testing.T) {
	svc, db, _ := setupAuthService(t)
	ctx := context.Background()
	employee := createTestEmployee(t, db, "admin", "1234", models.PrivilegeAdministrator)

	info, err := svc.GetProfile(ctx, employee.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", info.Username)
	assert.Equal(t, "Gerente", info.Position)

	_, err = svc.GetProfile(ctx, 999)
	assert.True(t, errors.ErrEmployeeNotFound.Is(err))
}

func TestAuthService_RefreshToken(t *testing.T) {
	svc, db, jwtManager := setupAuthService(t)
	ctx := context.Background()
	employee := createTestEmployee(t, db, "recepcion", "abcd", models.PrivilegeEmployee)

	resp, err := svc.Login(ctx, &LoginRequest{Username: "recepcion", Password: "abcd"})
	require.NoError(t, err)

	t.Run("使用刷新令牌", func(t *testing.T) {
		pair, err := svc.RefreshToken(ctx, resp.TokenPair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
	})

	t.Run("访问令牌不能用于刷新", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, resp.TokenPair.AccessToken)
		assert.True(t, errors.ErrTokenRefreshFail.Is(err))
	})

	t.Run("无效令牌", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, "not-a-token")
		assert.True(t, errors.ErrTokenRefreshFail.Is(err))
	})

	t.Run("权限变更后按新权限签发", func(t *testing.T) {
		require.NoError(t, db.Model(employee).Update("privilege", models.PrivilegeAdministrator).Error)

		pair, err := svc.RefreshToken(ctx, resp.TokenPair.RefreshToken)
		require.NoError(t, err)
		claims, err := jwtManager.ParseAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, models.PrivilegeAdministrator, claims.Privilege)
	})

	t.Run("员工已删除", func(t *testing.T) {
		require.NoError(t, db.Delete(&models.Employee{}, employee.ID).Error)
		_, err := svc.RefreshToken(ctx, resp.TokenPair.RefreshToken)
		assert.True(t, errors.ErrTokenRefreshFail.Is(err))
	})
}
