package dto

import (
	"time"

	"github.com/taskflow/taskflow-api/internal/services"
)

// CategoryDTO represents a custom category in API responses
type CategoryDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	TaskCount int64     `json:"task_count"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCategoryDTO converts a category and its task count to CategoryDTO
func ToCategoryDTO(category services.CategoryWithCount) CategoryDTO {
	return CategoryDTO{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		Icon:      category.Icon,
		TaskCount: category.TaskCount,
		CreatedAt: category.CreatedAt,
	}
}

// ToCategoryDTOs converts a list of categories
func ToCategoryDTOs(categories []services.CategoryWithCount) []CategoryDTO {
	items := make([]CategoryDTO, len(categories))
	for i, category := range categories {
		items[i] = ToCategoryDTO(category)
	}
	return items
}
