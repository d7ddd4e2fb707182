package app

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"cafehub/internal/model"
)

type CafeService struct {
	cafeRepo CafeRepository
	cache    CafeCache
	now      func() time.Time
	log      *zap.Logger
}

// CafeInput is the full set of editable cafe fields. Updates apply every
// field, so omitted booleans become false.
type CafeInput struct {
	Name         string
	MapURL       string
	ImgURL       string
	Location     string
	HasSockets   bool
	HasToilet    bool
	HasWifi      bool
	CanTakeCalls bool
	Seats        string
	CoffeePrice  string
}

func NewCafeService(cafeRepo CafeRepository, cache CafeCache, log *zap.Logger) *CafeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CafeService{
		cafeRepo: cafeRepo,
		cache:    cache,
		now:      time.Now,
		log:      log,
	}
}

func (s *CafeService) Create(ctx context.Context, ownerID uint, input CafeInput) (*model.Cafe, error) {
	if ownerID == 0 {
		return nil, ErrUnauthenticated
	}
	input = input.trimmed()
	if err := input.validate(); err != nil {
		return nil, err
	}

	cafe := &model.Cafe{CreatedBy: ownerID, CreatedAt: s.now()}
	input.applyTo(cafe)
	if err := s.cafeRepo.Create(ctx, cafe); err != nil {
		return nil, err
	}
	return cafe, nil
}

func (s *CafeService) Get(ctx context.Context, cafeID uint) (*model.Cafe, error) {
	if cafeID == 0 {
		return nil, ErrCafeNotFound
	}
	if s.cache != nil {
		cached, hit, err := s.cache.Get(ctx, cafeID)
		if err == nil && hit {
			return cached, nil
		}
		if err != nil {
			s.log.Warn("cafe cache read failed", zap.Uint("cafe_id", cafeID), zap.Error(err))
		}
	}

	cafe, err := s.cafeRepo.GetByID(ctx, cafeID)
	if err != nil {
		return nil, err
	}
	if cafe == nil {
		return nil, ErrCafeNotFound
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, cafe)
	}
	return cafe, nil
}

// GetOwned loads a cafe straight from the store and checks that requesterID
// created it.
func (s *CafeService) GetOwned(ctx context.Context, cafeID, requesterID uint) (*model.Cafe, error) {
	if cafeID == 0 {
		return nil, ErrCafeNotFound
	}
	cafe, err := s.cafeRepo.GetByID(ctx, cafeID)
	if err != nil {
		return nil, err
	}
	if cafe == nil {
		return nil, ErrCafeNotFound
	}
	if !cafe.OwnedBy(requesterID) {
		return nil, ErrForbidden
	}
	return cafe, nil
}

func (s *CafeService) Update(ctx context.Context, cafeID, requesterID uint, input CafeInput) (*model.Cafe, error) {
	cafe, err := s.GetOwned(ctx, cafeID, requesterID)
	if err != nil {
		return nil, err
	}
	input = input.trimmed()
	if err := input.validate(); err != nil {
		return nil, err
	}

	input.applyTo(cafe)
	cafe.UpdatedAt = s.now()
	if err := s.cafeRepo.UpdateByIDAndOwner(ctx, cafe, requesterID); err != nil {
		return nil, err
	}
	s.invalidate(ctx, cafeID)
	return cafe, nil
}

func (s *CafeService) Delete(ctx context.Context, cafeID, requesterID uint) error {
	if _, err := s.GetOwned(ctx, cafeID, requesterID); err != nil {
		return err
	}
	deleted, err := s.cafeRepo.DeleteByIDAndOwner(ctx, cafeID, requesterID)
	if err != nil {
		return err
	}
	s.invalidate(ctx, cafeID)
	if !deleted {
		return ErrCafeNotFound
	}
	s.log.Info("cafe deleted", zap.Uint("cafe_id", cafeID), zap.Uint("user_id", requesterID))
	return nil
}

func (s *CafeService) List(ctx context.Context) ([]model.Cafe, error) {
	return s.cafeRepo.List(ctx)
}

func (s *CafeService) invalidate(ctx context.Context, cafeID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cafeID); err != nil {
		s.log.Warn("cafe cache invalidation failed", zap.Uint("cafe_id", cafeID), zap.Error(err))
	}
}

func (in CafeInput) trimmed() CafeInput {
	in.Name = strings.TrimSpace(in.Name)
	in.MapURL = strings.TrimSpace(in.MapURL)
	in.ImgURL = strings.TrimSpace(in.ImgURL)
	in.Location = strings.TrimSpace(in.Location)
	in.Seats = strings.TrimSpace(in.Seats)
	in.CoffeePrice = strings.TrimSpace(in.CoffeePrice)
	return in
}

func (in CafeInput) validate() error {
	if in.Name == "" || in.Location == "" || in.CoffeePrice == "" {
		return ErrCafeFieldsRequired
	}
	return nil
}

func (in CafeInput) applyTo(cafe *model.Cafe) {
	cafe.Name = in.Name
	cafe.MapURL = in.MapURL
	cafe.ImgURL = in.ImgURL
	cafe.Location = in.Location
	cafe.HasSockets = in.HasSockets
	cafe.HasToilet = in.HasToilet
	cafe.HasWifi = in.HasWifi
	cafe.CanTakeCalls = in.CanTakeCalls
	cafe.Seats = in.Seats
	cafe.CoffeePrice = in.CoffeePrice
}

// FromCafe returns the input that would reproduce cafe, used to prefill edit forms.
func FromCafe(cafe *model.Cafe) CafeInput {
	return CafeInput{
		Name:         cafe.Name,
		MapURL:       cafe.MapURL,
		ImgURL:       cafe.ImgURL,
		Location:     cafe.Location,
		HasSockets:   cafe.HasSockets,
		HasToilet:    cafe.HasToilet,
		HasWifi:      cafe.HasWifi,
		CanTakeCalls: cafe.CanTakeCalls,
		Seats:        cafe.Seats,
		CoffeePrice:  cafe.CoffeePrice,
	}
}
