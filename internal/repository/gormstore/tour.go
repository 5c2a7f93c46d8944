package gormstore

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/princeprakhar/tours-backend/internal/geo"
	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/query"
	"github.com/princeprakhar/tours-backend/internal/repository"
)

var tourMutableColumns = []string{
	"name", "slug", "duration", "max_group_size", "difficulty", "price",
	"price_discount", "summary", "description", "image_cover", "images",
	"start_dates", "secret_tour", "start_location", "locations", "guides", "version",
}

type TourRepository struct {
	db *gorm.DB
}

func NewTourRepository(db *gorm.DB) *TourRepository {
	return &TourRepository{db: db}
}

// visible hides secret tours unless the caller opts in.
func (r *TourRepository) visible(db *gorm.DB, opts query.Options) *gorm.DB {
	if opts.IncludeSecret {
		return db
	}
	return db.Where(clause.Eq{Column: clause.Column{Name: "secret_tour"}, Value: false})
}

func (r *TourRepository) Find(ctx context.Context, q query.Query) ([]models.Tour, error) {
	var tours []models.Tour
	db := r.visible(r.db.WithContext(ctx).Model(&models.Tour{}), q.Options)
	if err := applyQuery(db, query.Tours, q).Find(&tours).Error; err != nil {
		return nil, fmt.Errorf("find tours: %w", err)
	}
	return tours, nil
}

func (r *TourRepository) GetByID(ctx context.Context, id string, opts query.Options) (*models.Tour, error) {
	var tour models.Tour
	db := r.visible(r.db.WithContext(ctx), opts)
	if err := db.Where("id = ?", id).First(&tour).Error; err != nil {
		return nil, translate(err)
	}
	return &tour, nil
}

func (r *TourRepository) Create(ctx context.Context, tour *models.Tour) error {
	if err := r.db.WithContext(ctx).Create(tour).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *TourRepository) Update(ctx context.Context, tour *models.Tour) error {
	tour.Version++
	result := r.db.WithContext(ctx).Model(&models.Tour{ID: tour.ID}).
		Select(tourMutableColumns).
		Updates(tour)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TourRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Tour{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TourRepository) SetRatings(ctx context.Context, id string, summary models.RatingSummary) error {
	result := r.db.WithContext(ctx).Model(&models.Tour{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"ratings_quantity": summary.Quantity,
			"ratings_average":  summary.Average,
		})
	if result.Error != nil {
		return fmt.Errorf("set tour ratings: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Within filters start locations in process: a JSON column carries no
// spatial index.
func (r *TourRepository) Within(ctx context.Context, center geo.Point, radiusKm float64) ([]models.Tour, error) {
	tours, err := r.visibleTours(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Tour, 0, len(tours))
	for _, t := range tours {
		p, ok := t.StartLocation.Point()
		if ok && geo.DistanceMeters(center, p) <= radiusKm*1000 {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TourRepository) Distances(ctx context.Context, center geo.Point) ([]models.TourDistance, error) {
	tours, err := r.visibleTours(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.TourDistance, 0, len(tours))
	for _, t := range tours {
		p, ok := t.StartLocation.Point()
		if !ok {
			continue
		}
		out = append(out, models.TourDistance{ID: t.ID, Name: t.Name, Distance: geo.DistanceMeters(center, p)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out, nil
}

func (r *TourRepository) visibleTours(ctx context.Context) ([]models.Tour, error) {
	var tours []models.Tour
	db := r.visible(r.db.WithContext(ctx).Model(&models.Tour{}), query.Options{})
	if err := db.Select("id", "name", "start_location").Find(&tours).Error; err != nil {
		return nil, fmt.Errorf("load tour locations: %w", err)
	}
	return tours, nil
}

func (r *TourRepository) Stats(ctx context.Context, minAverage float64) ([]models.TourStats, error) {
	var stats []models.TourStats
	err := r.db.WithContext(ctx).Model(&models.Tour{}).
		Select(`UPPER(difficulty) AS difficulty,
			COUNT(*) AS num_tours,
			SUM(ratings_quantity) AS num_ratings,
			AVG(ratings_average) AS avg_rating,
			AVG(price) AS avg_price,
			MIN(price) AS min_price,
			MAX(price) AS max_price`).
		Where("ratings_average >= ?", minAverage).
		Group("UPPER(difficulty)").
		Order("avg_price").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("tour stats: %w", err)
	}
	return stats, nil
}
