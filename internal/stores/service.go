package stores

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/shery7378/multifront/pkg/logger"
	"github.com/shery7378/multifront/pkg/orderapi"
)

type storeFetcher interface {
	GetStore(ctx context.Context, storeID string) (*orderapi.Store, error)
}

type metadataCache interface {
	Find(ctx context.Context, storeID string) (*Metadata, error)
	Save(ctx context.Context, meta *Metadata) error
}

// Service fills in store details the cart snapshot did not carry.
type Service interface {
	Resolve(ctx context.Context, storeID string, known *Metadata) *Metadata
}

type service struct {
	fetcher storeFetcher
	cache   metadataCache
	logg    *logger.Logger
	lookups singleflight.Group
}

// NewService builds the enrichment service. cache may be nil.
func NewService(fetcher storeFetcher, cache metadataCache, logg *logger.Logger) (Service, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("store fetcher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{fetcher: fetcher, cache: cache, logg: logg}, nil
}

// Resolve returns known merged with remote details. Lookup failures are logged
// and the known metadata is returned unchanged; enrichment never blocks checkout.
func (s *service) Resolve(ctx context.Context, storeID string, known *Metadata) *Metadata {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" || storeID == UnknownStoreID {
		return known
	}
	if known != nil && !known.NeedsEnrichment() {
		return known
	}

	ctx = s.logg.WithStoreID(ctx, storeID)

	if s.cache != nil {
		cached, err := s.cache.Find(ctx, storeID)
		if err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "store cache read failed")
		} else if cached != nil {
			return known.Merge(cached)
		}
	}

	// concurrent checkouts for the same store share one lookup
	value, err, _ := s.lookups.Do(storeID, func() (any, error) {
		return s.fetch(ctx, storeID)
	})
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "store enrichment failed")
		return known
	}
	return known.Merge(value.(*Metadata))
}

func (s *service) fetch(ctx context.Context, storeID string) (*Metadata, error) {
	remote, err := s.fetcher.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	fetched := FromRemote(remote)
	if fetched.ID == "" {
		fetched.ID = storeID
	}
	if s.cache != nil {
		if err := s.cache.Save(ctx, fetched); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "store cache write failed")
		}
	}
	return fetched, nil
}

// FromRemote maps the order API store payload into Metadata.
func FromRemote(remote *orderapi.Store) *Metadata {
	if remote == nil {
		return nil
	}
	return &Metadata{
		ID:               remote.ID.String(),
		Name:             remote.Name,
		Latitude:         remote.Latitude,
		Longitude:        remote.Longitude,
		Address:          remote.Address,
		City:             remote.City,
		State:            remote.State,
		PostalCode:       remote.PostalCode,
		DeliveryRadiusKm: remote.DeliveryRadiusKm,
	}
}
