package models

import "time"

// TaskAttachment is a stored file bound to a task. It has no owner of its own;
// ownership is always resolved through Task.UserID.
type TaskAttachment struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	TaskID     uint64    `gorm:"not null;index" json:"task_id"`
	File       string    `gorm:"type:varchar(512);not null" json:"file"`
	FileName   string    `gorm:"type:varchar(255);not null" json:"file_name"`
	FileSize   int64     `gorm:"not null" json:"file_size"`
	FileType   string    `gorm:"type:varchar(100);not null" json:"file_type"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
