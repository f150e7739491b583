package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/luisfernandomp/ApiDataDriven/internal/models"
)

func (r *GormRepo) GetCategories(ctx context.Context) ([]models.Category, error) {
	var items []models.Category
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category := models.Category{}
	if err := r.DB.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.DB.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// ReplaceCategory overwrites the row guarded by the version the caller read.
// Zero rows affected means the row changed or vanished concurrently.
func (r *GormRepo) ReplaceCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	res := r.DB.WithContext(ctx).Model(&models.Category{}).
		Where("id = ? AND version = ?", category.ID, category.Version).
		Updates(map[string]any{
			"title":   category.Title,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConflict
	}

	return r.GetCategory(ctx, category.ID)
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
