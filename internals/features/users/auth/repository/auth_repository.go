// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "library_backend/internals/features/users/auth/model"
	userModel "library_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

func FindUserByUsername(db *gorm.DB, username string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("user_name = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(db *gorm.DB, userID uint) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(db *gorm.DB, user *userModel.UserModel) error {
	return db.Create(user).Error
}

func UpdateUserPassword(db *gorm.DB, userID uint, newPassword string) error {
	return db.Model(&userModel.UserModel{}).Where("id = ?", userID).Update("password", newPassword).Error
}

func TouchLastLogin(db *gorm.DB, userID uint, at time.Time) error {
	return db.Model(&userModel.UserModel{}).Where("id = ?", userID).Update("last_login", at).Error
}

// IsUsernameTaken reports whether username is already registered.
func IsUsernameTaken(db *gorm.DB, username string) (bool, error) {
	if strings.TrimSpace(username) == "" {
		return false, errors.New("username cannot be empty")
	}

	var n int64
	if err := db.Model(&userModel.UserModel{}).Where("user_name = ?", username).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

/* ====================== BLACKLIST TOKEN ====================== */

// BlacklistToken is idempotent: revoking the same jti twice is not an error.
func BlacklistToken(db *gorm.DB, jti string, expiredAt time.Time) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&authModel.TokenBlacklist{
		Jti:       jti,
		ExpiredAt: expiredAt.UTC(),
	}).Error
}

func IsTokenBlacklisted(db *gorm.DB, jti string) (bool, error) {
	var n int64
	if err := db.Model(&authModel.TokenBlacklist{}).Where("jti = ?", jti).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CleanupExpiredBlacklist drops entries that expired before cutoff.
func CleanupExpiredBlacklist(db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.Where("expired_at < ?", cutoff.UTC()).Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
