package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/luisfernandomp/ApiDataDriven/internal/logging"
	"github.com/luisfernandomp/ApiDataDriven/internal/models"
	"github.com/luisfernandomp/ApiDataDriven/internal/repo"
	"github.com/luisfernandomp/ApiDataDriven/internal/transport"
)

// ProductIndexer is satisfied by es.Indexer.
type ProductIndexer interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
}

type CatalogService struct {
	Repo      *repo.GormRepo
	Publisher EventPublisher
	Indexer   ProductIndexer
}

func validateCategory(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	return nil
}

func validateProduct(req transport.ProductRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if req.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if req.CategoryID == 0 {
		return fmt.Errorf("%w: category_id is required", ErrValidation)
	}
	return nil
}

func (s *CatalogService) GetCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.GetCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.Repo.GetCategory(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	if err := validateCategory(req.Title); err != nil {
		return nil, err
	}

	category := models.Category{Title: req.Title, Version: 1}
	created, err := s.Repo.CreateCategory(ctx, &category)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Publisher, TopicCategoryEvents, fmt.Sprint(created.ID), map[string]any{
		"type":       "category_created",
		"categoryID": created.ID,
		"title":      created.Title,
	})

	return created, nil
}

func (s *CatalogService) ReplaceCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	if err := validateCategory(req.Title); err != nil {
		return nil, err
	}

	version, err := s.resolveVersion(ctx, req.Version, func() (uint, error) {
		cur, err := s.Repo.GetCategory(ctx, req.ID)
		if err != nil {
			return 0, err
		}
		return cur.Version, nil
	})
	if err != nil {
		return nil, err
	}

	category := models.Category{ID: req.ID, Title: req.Title, Version: version}
	updated, err := s.Repo.ReplaceCategory(ctx, &category)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Publisher, TopicCategoryEvents, fmt.Sprint(updated.ID), map[string]any{
		"type":       "category_updated",
		"categoryID": updated.ID,
		"title":      updated.Title,
	})

	return updated, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		return err
	}

	publish(ctx, s.Publisher, TopicCategoryEvents, fmt.Sprint(id), map[string]any{
		"type":       "category_deleted",
		"categoryID": id,
	})

	return nil
}

func (s *CatalogService) GetProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.GetProducts(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) GetProductsByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	return s.Repo.GetProductsByCategory(ctx, categoryID)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product := models.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Version:     1,
	}
	created, err := s.Repo.CreateProduct(ctx, &product)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Publisher, TopicProductEvents, fmt.Sprint(created.ID), map[string]any{
		"type":      "product_created",
		"productID": created.ID,
		"title":     created.Title,
	})
	s.index(ctx, created)

	return created, nil
}

func (s *CatalogService) ReplaceProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	version, err := s.resolveVersion(ctx, req.Version, func() (uint, error) {
		cur, err := s.Repo.GetProduct(ctx, req.ID)
		if err != nil {
			return 0, err
		}
		return cur.Version, nil
	})
	if err != nil {
		return nil, err
	}

	product := models.Product{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Version:     version,
	}
	updated, err := s.Repo.ReplaceProduct(ctx, &product)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Publisher, TopicProductEvents, fmt.Sprint(updated.ID), map[string]any{
		"type":      "product_updated",
		"productID": updated.ID,
		"title":     updated.Title,
	})
	s.index(ctx, updated)

	return updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	publish(ctx, s.Publisher, TopicProductEvents, fmt.Sprint(id), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	if s.Indexer != nil {
		if err := s.Indexer.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Error("es delete error", "productID", id, "error", err)
		}
	}

	return nil
}

// resolveVersion picks the version the guarded update will match against.
// A zero version means the client sent no concurrency token; the current row
// version is used, so only a race between this read and the update conflicts.
// A missing row surfaces as a conflict, matching the replace contract.
func (s *CatalogService) resolveVersion(ctx context.Context, requested uint, current func() (uint, error)) (uint, error) {
	if requested != 0 {
		return requested, nil
	}
	v, err := current()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, repo.ErrConflict
	}
	if err != nil {
		return 0, err
	}
	return v, nil
}

func (s *CatalogService) index(ctx context.Context, p *models.Product) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Error("es index error", "productID", p.ID, "error", err)
	}
}
