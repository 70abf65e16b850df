package models

import (
	"time"

	"github.com/angelmondragon/labstock-backend/pkg/enums"
)

// User is a lab member (student or staff) or an administrator.
type User struct {
	ID           int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string         `gorm:"column:username;type:text;not null;uniqueIndex:users_username_key"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Fullname     string         `gorm:"column:fullname;not null;default:''"`
	Mail         *string        `gorm:"column:mail;type:text;uniqueIndex:users_mail_key"`
	Rollno       string         `gorm:"column:rollno;not null;default:''"`
	Department   string         `gorm:"column:department;not null;default:''"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:user"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
}
