package model

import "time"

// TokenBlacklist records revoked API tokens by their jti until they expire.
type TokenBlacklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Jti       string    `gorm:"column:jti;size:64;not null;uniqueIndex" json:"jti"`
	ExpiredAt time.Time `gorm:"column:expired_at;not null;index" json:"expired_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName pins the table name to the schema
func (TokenBlacklist) TableName() string {
	return "token_blacklist"
}
