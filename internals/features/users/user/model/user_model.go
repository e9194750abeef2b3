package model

import (
	"time"
)

// UserModel is an account: member by default, staff when IsStaff or IsSuperuser.
type UserModel struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserName    string     `gorm:"column:user_name;size:150;not null;uniqueIndex" json:"username"`
	Email       *string    `gorm:"column:email;size:254" json:"email,omitempty"`
	Password    string     `gorm:"column:password;size:128;not null" json:"-"`
	IsStaff     bool       `gorm:"column:is_staff;not null" json:"is_staff"`
	IsSuperuser bool       `gorm:"column:is_superuser;not null" json:"is_superuser"`
	IsActive    bool       `gorm:"column:is_active;not null" json:"is_active"`
	DateJoined  time.Time  `gorm:"column:date_joined;autoCreateTime" json:"date_joined"`
	LastLogin   *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
}

func (UserModel) TableName() string {
	return "users"
}

// IsStaffMember reports whether the user gets the staff capabilities.
func (u UserModel) IsStaffMember() bool {
	return u.IsStaff || u.IsSuperuser
}
