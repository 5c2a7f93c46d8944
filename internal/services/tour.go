package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/princeprakhar/tours-backend/internal/geo"
	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/query"
	"github.com/princeprakhar/tours-backend/internal/repository"
	"github.com/princeprakhar/tours-backend/internal/utils"
)

const (
	// StatsMinRating is the ratingsAverage floor of the tour-stats report.
	StatsMinRating = 4.5

	populateGuides  = "guides"
	populateReviews = "reviews"
)

var (
	ErrTourNotFound  = errors.New("tour not found")
	ErrDuplicateTour = errors.New("a tour with this name already exists")
	ErrInvalidYear   = errors.New("year must be a four digit number")
	ErrInvalidRadius = errors.New("distance must be a non-negative number")
)

type TourService struct {
	tours   repository.TourRepository
	reviews repository.ReviewRepository
	users   repository.UserRepository
	shaper  *query.Shaper
	log     *logrus.Entry
	now     func() time.Time
}

func NewTourService(stores *repository.Stores, log *logrus.Entry) *TourService {
	return &TourService{
		tours:   stores.Tours,
		reviews: stores.Reviews,
		users:   stores.Users,
		shaper:  query.NewShaper(query.Tours),
		log:     log,
		now:     time.Now,
	}
}

// ListTours shapes params into a tour query. Secret tours stay hidden and
// guides are populated.
func (s *TourService) ListTours(ctx context.Context, params query.Params) ([]models.Tour, query.Projection, error) {
	q := s.shaper.Build(query.Query{Options: query.Options{Populate: []string{populateGuides}}}, params)

	tours, err := s.tours.Find(ctx, q)
	if err != nil {
		return nil, q.Projection, err
	}
	if err := s.decorate(ctx, tours, q.Options); err != nil {
		return nil, q.Projection, err
	}

	// The populated guides follow their references into the response.
	proj := q.Projection
	if slices.Contains(proj.Include, "guideIds") {
		proj.Include = append(slices.Clone(proj.Include), populateGuides)
	}
	return tours, proj, nil
}

// GetTour loads one visible tour with its guides and reviews.
func (s *TourService) GetTour(ctx context.Context, id string) (*models.Tour, error) {
	tour, err := s.tours.GetByID(ctx, id, query.Options{})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}

	tours := []models.Tour{*tour}
	opts := query.Options{Populate: []string{populateGuides, populateReviews}}
	if err := s.decorate(ctx, tours, opts); err != nil {
		return nil, err
	}
	return &tours[0], nil
}

func (s *TourService) CreateTour(ctx context.Context, tour *models.Tour) (*models.Tour, error) {
	tour.ID = uuid.NewString()
	tour.Slug = utils.Slugify(tour.Name)
	tour.RatingsAverage = models.DefaultRatingsAverage
	tour.RatingsQuantity = models.DefaultRatingsQuantity
	tour.Version = 0
	tour.CreatedAt = s.now().UTC()

	if err := models.ValidateTour(tour); err != nil {
		return nil, err
	}
	if err := s.tours.Create(ctx, tour); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateTour
		}
		return nil, fmt.Errorf("create tour: %w", err)
	}

	s.log.WithFields(logrus.Fields{"tour_id": tour.ID, "slug": tour.Slug}).Info("Tour created")
	tour.Decorate()
	return tour, nil
}

// UpdateTour applies patch to a tour, secret or not. The rating aggregate is
// not patchable.
func (s *TourService) UpdateTour(ctx context.Context, id string, patch models.TourPatch) (*models.Tour, error) {
	tour, err := s.tours.GetByID(ctx, id, query.Options{IncludeSecret: true})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}

	patch.Apply(tour)
	tour.Slug = utils.Slugify(tour.Name)
	if err := models.ValidateTour(tour); err != nil {
		return nil, err
	}

	if err := s.tours.Update(ctx, tour); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrTourNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrDuplicateTour
		}
		return nil, fmt.Errorf("update tour: %w", err)
	}
	tour.Decorate()
	return tour, nil
}

func (s *TourService) DeleteTour(ctx context.Context, id string) error {
	if err := s.tours.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTourNotFound
		}
		return err
	}
	s.log.WithField("tour_id", id).Info("Tour deleted")
	return nil
}

// TourStats groups tours rated at least StatsMinRating by difficulty.
func (s *TourService) TourStats(ctx context.Context) ([]models.TourStats, error) {
	return s.tours.Stats(ctx, StatsMinRating)
}

// MonthlyPlan counts tour starts per month of year, busiest month first.
func (s *TourService) MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlan, error) {
	if year < 1000 || year > 9999 {
		return nil, ErrInvalidYear
	}

	byMonth := make(map[int]*models.MonthlyPlan)
	q := query.Query{
		Sort:       []query.SortField{{Field: "id"}},
		Projection: query.Projection{Include: []string{"id", "name", "startDates"}},
		Limit:      query.DefaultLimit,
		Options:    query.Options{IncludeSecret: true},
	}
	for {
		tours, err := s.tours.Find(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, t := range tours {
			for _, d := range t.StartDates {
				d = d.UTC()
				if d.Year() != year {
					continue
				}
				m := int(d.Month())
				plan, ok := byMonth[m]
				if !ok {
					plan = &models.MonthlyPlan{Month: m}
					byMonth[m] = plan
				}
				plan.NumTourStarts++
				plan.Tours = append(plan.Tours, t.Name)
			}
		}
		if len(tours) < q.Limit {
			break
		}
		q.Skip += q.Limit
	}

	plans := make([]models.MonthlyPlan, 0, len(byMonth))
	for _, p := range byMonth {
		plans = append(plans, *p)
	}
	slices.SortFunc(plans, func(a, b models.MonthlyPlan) int {
		if a.NumTourStarts != b.NumTourStarts {
			return b.NumTourStarts - a.NumTourStarts
		}
		return a.Month - b.Month
	})
	return plans, nil
}

// ToursWithin lists visible tours starting within distance (in unit) of the
// "lat,lng" center.
func (s *TourService) ToursWithin(ctx context.Context, distance float64, latlng, unit string) ([]models.Tour, error) {
	center, err := geo.ParseLatLng(latlng)
	if err != nil {
		return nil, err
	}
	if err := geo.ValidateUnit(unit); err != nil {
		return nil, err
	}
	if distance < 0 {
		return nil, ErrInvalidRadius
	}

	tours, err := s.tours.Within(ctx, center, geo.ToKilometers(distance, unit))
	if err != nil {
		return nil, err
	}
	for i := range tours {
		tours[i].Decorate()
	}
	return tours, nil
}

// Distances reports every visible tour's distance from the "lat,lng" point in
// unit, nearest first.
func (s *TourService) Distances(ctx context.Context, latlng, unit string) ([]models.TourDistance, error) {
	center, err := geo.ParseLatLng(latlng)
	if err != nil {
		return nil, err
	}
	if err := geo.ValidateUnit(unit); err != nil {
		return nil, err
	}

	distances, err := s.tours.Distances(ctx, center)
	if err != nil {
		return nil, err
	}
	for i := range distances {
		distances[i].Distance = geo.MetersTo(distances[i].Distance, unit)
	}
	return distances, nil
}

func (s *TourService) decorate(ctx context.Context, tours []models.Tour, opts query.Options) error {
	for i := range tours {
		tours[i].Decorate()
	}
	if opts.Populates(populateGuides) {
		if err := s.populateGuides(ctx, tours); err != nil {
			return err
		}
	}
	if opts.Populates(populateReviews) {
		for i := range tours {
			reviews, err := s.tourReviews(ctx, tours[i].ID)
			if err != nil {
				return err
			}
			if err := attachAuthors(ctx, s.users, reviews); err != nil {
				return err
			}
			tours[i].Reviews = reviews
		}
	}
	return nil
}

// tourReviews pages through every review of a tour, newest first.
func (s *TourService) tourReviews(ctx context.Context, tourID string) ([]models.Review, error) {
	q := query.Query{
		Sort:  []query.SortField{{Field: "createdAt", Desc: true}, {Field: "id"}},
		Limit: query.DefaultLimit,
	}.Where("tour", tourID)

	var all []models.Review
	for {
		page, err := s.reviews.Find(ctx, q)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < q.Limit {
			return all, nil
		}
		q.Skip += q.Limit
	}
}

func (s *TourService) populateGuides(ctx context.Context, tours []models.Tour) error {
	var ids []string
	for _, t := range tours {
		ids = append(ids, t.GuideIDs...)
	}
	if len(ids) == 0 {
		return nil
	}
	users, err := s.users.FindByIDs(ctx, unique(ids))
	if err != nil {
		return err
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range tours {
		guides := make([]models.UserSummary, 0, len(tours[i].GuideIDs))
		for _, id := range tours[i].GuideIDs {
			if u, ok := byID[id]; ok {
				guides = append(guides, u.GuideSummary())
			}
		}
		tours[i].Guides = guides
	}
	return nil
}

// attachAuthors sets each review's author summary from its user reference.
func attachAuthors(ctx context.Context, users repository.UserRepository, reviews []models.Review) error {
	ids := make([]string, 0, len(reviews))
	for _, r := range reviews {
		if r.UserID != "" {
			ids = append(ids, r.UserID)
		}
	}
	found, err := users.FindByIDs(ctx, unique(ids))
	if err != nil {
		return err
	}
	byID := make(map[string]models.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	for i := range reviews {
		if u, ok := byID[reviews[i].UserID]; ok {
			author := u.AuthorSummary()
			reviews[i].Author = &author
		}
	}
	return nil
}
