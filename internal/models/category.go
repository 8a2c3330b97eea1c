package models

import "time"

// TaskCategory is a user-defined grouping for tasks. Names are unique per user.
type TaskCategory struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_task_categories_user_name" json:"user_id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_task_categories_user_name" json:"name"`
	Color     string    `gorm:"type:varchar(7);not null;default:'#3B82F6'" json:"color"`
	Icon      string    `gorm:"type:varchar(50);not null;default:'fa-folder'" json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}
