package locations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/tripforge/tripforge/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	SaveLocation(ctx context.Context, req models.CreateLocationRequest) (*models.Location, error)
	GetLocation(ctx context.Context, locationID uuid.UUID) (*models.Location, error)
	GetLocationByPlaceID(ctx context.Context, placeID string) (*models.Location, error)
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]models.Location, error)
}

// ServiceImpl caches location reads; place records change rarely, so a short
// TTL keeps repeat itinerary renders off the database.
type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
	cache  *cache.Cache
}

func NewServiceImpl(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *ServiceImpl) SaveLocation(ctx context.Context, req models.CreateLocationRequest) (*models.Location, error) {
	ctx, span := otel.Tracer("LocationService").Start(ctx, "SaveLocation")
	defer span.End()
	span.SetAttributes(attribute.String("location.place_id", req.GooglePlaceID))

	loc, err := s.repo.Upsert(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.cache.Set(loc.ID.String(), loc, cache.DefaultExpiration)
	s.logger.Info("Location saved",
		zap.String("locationID", loc.ID.String()), zap.String("name", loc.Name))
	span.SetStatus(codes.Ok, "Location saved")
	return loc, nil
}

func (s *ServiceImpl) GetLocation(ctx context.Context, locationID uuid.UUID) (*models.Location, error) {
	ctx, span := otel.Tracer("LocationService").Start(ctx, "GetLocation")
	defer span.End()
	span.SetAttributes(attribute.String("location.id", locationID.String()))

	if cached, found := s.cache.Get(locationID.String()); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		span.SetStatus(codes.Ok, "Location served from cache")
		return cached.(*models.Location), nil
	}

	loc, err := s.repo.Get(ctx, locationID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.cache.Set(locationID.String(), loc, cache.DefaultExpiration)
	span.SetAttributes(attribute.Bool("cache.hit", false))
	span.SetStatus(codes.Ok, "Location fetched")
	return loc, nil
}

func (s *ServiceImpl) GetLocationByPlaceID(ctx context.Context, placeID string) (*models.Location, error) {
	ctx, span := otel.Tracer("LocationService").Start(ctx, "GetLocationByPlaceID")
	defer span.End()
	span.SetAttributes(attribute.String("location.place_id", placeID))

	if cached, found := s.cache.Get("place:" + placeID); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		span.SetStatus(codes.Ok, "Location served from cache")
		return cached.(*models.Location), nil
	}

	loc, err := s.repo.GetByPlaceID(ctx, placeID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.cache.Set("place:"+placeID, loc, cache.DefaultExpiration)
	span.SetAttributes(attribute.Bool("cache.hit", false))
	span.SetStatus(codes.Ok, "Location fetched")
	return loc, nil
}

func (s *ServiceImpl) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]models.Location, error) {
	ctx, span := otel.Tracer("LocationService").Start(ctx, "ListForTrip")
	defer span.End()
	span.SetAttributes(attribute.String("trip.id", tripID.String()))

	locs, err := s.repo.ListForTrip(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("location.count", len(locs)))
	span.SetStatus(codes.Ok, "Trip locations listed")
	return locs, nil
}
