package model

import "time"

// User 用户模型
type User struct {
	UserID    string    `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	UserName  string    `gorm:"type:varchar(50);not null" json:"user_name"`
	Email     string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"type:varchar(100);not null" json:"-"` // bcrypt哈希
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "m_user"
}
