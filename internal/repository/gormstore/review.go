package gormstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/query"
	"github.com/princeprakhar/tours-backend/internal/repository"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Find(ctx context.Context, q query.Query) ([]models.Review, error) {
	var reviews []models.Review
	db := applyQuery(r.db.WithContext(ctx).Model(&models.Review{}), query.Reviews, q)
	if err := db.Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	return reviews, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *ReviewRepository) UpdateByID(ctx context.Context, id string, patch models.ReviewPatch) (*models.Review, error) {
	updates := map[string]interface{}{
		"version": gorm.Expr("version + ?", 1),
	}
	if patch.Review != nil {
		updates["review"] = *patch.Review
	}
	if patch.Rating != nil {
		updates["rating"] = *patch.Rating
	}

	var review models.Review
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Review{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return tx.Where("id = ?", id).First(&review).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *ReviewRepository) DeleteByID(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type ratingRow struct {
	TourID    string  `gorm:"column:tour_id"`
	NRating   int     `gorm:"column:n_rating"`
	AvgRating float64 `gorm:"column:avg_rating"`
}

// RatingStats groups the tour's reviews. A tour with no reviews yields a zero
// count.
func (r *ReviewRepository) RatingStats(ctx context.Context, tourID string) (models.RatingStats, error) {
	var rows []ratingRow
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("tour_id, COUNT(*) AS n_rating, AVG(rating) AS avg_rating").
		Where("tour_id = ?", tourID).
		Group("tour_id").
		Scan(&rows).Error
	if err != nil {
		return models.RatingStats{}, fmt.Errorf("rating stats for tour %s: %w", tourID, err)
	}

	stats := models.RatingStats{TourID: tourID}
	if len(rows) > 0 {
		stats.Count = rows[0].NRating
		stats.Mean = rows[0].AvgRating
	}
	return stats, nil
}
