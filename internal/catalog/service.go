package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"dictee/internal/i18n"
	"dictee/internal/logger"
	"dictee/internal/models"
)

// ErrPeriodNotFound is returned for an unknown period id
var ErrPeriodNotFound = errors.New("practice period not found")

// defaultPeriodID names the implicit period used when no metadata exists
const defaultPeriodID = "default"

// Service resolves practice periods and caches their catalogs
type Service struct {
	fetcher       Fetcher
	loader        *Loader
	metadataFile  string
	defaultLocale i18n.Locale
	log           *logger.Logger

	mu      sync.RWMutex
	periods []models.Period
	words   map[string][]models.Word
}

// NewService creates a catalog service reading metadataFile and catalogs
// through fetcher
func NewService(fetcher Fetcher, metadataFile string, defaultLocale i18n.Locale, log *logger.Logger) *Service {
	return &Service{
		fetcher:       fetcher,
		loader:        NewLoader(fetcher, log),
		metadataFile:  metadataFile,
		defaultLocale: defaultLocale,
		log:           log,
		words:         make(map[string][]models.Word),
	}
}

// Periods returns all practice periods, most recent first
func (s *Service) Periods(ctx context.Context) ([]models.Period, error) {
	s.mu.RLock()
	periods := s.periods
	s.mu.RUnlock()
	if periods != nil {
		return clonePeriods(periods), nil
	}

	periods, err := s.loadPeriods(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.periods = periods
	s.mu.Unlock()
	return clonePeriods(periods), nil
}

func (s *Service) loadPeriods(ctx context.Context) ([]models.Period, error) {
	data, err := s.fetcher.Fetch(ctx, s.metadataFile)
	if errors.Is(err, ErrNotFound) {
		s.log.Info("no period metadata, using content root as the only period", "file", s.metadataFile)
		return []models.Period{{
			ID:       defaultPeriodID,
			Label:    defaultPeriodID,
			Language: string(s.defaultLocale),
		}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: metadata: %w", ErrCatalogUnavailable, err)
	}

	periods, err := ParseMetadata(data, s.defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("%w: metadata lists no periods", ErrCatalogUnavailable)
	}
	return periods, nil
}

// Period returns the period with the given id, or the most recent one when
// id is empty
func (s *Service) Period(ctx context.Context, id string) (models.Period, error) {
	periods, err := s.Periods(ctx)
	if err != nil {
		return models.Period{}, err
	}
	if id == "" {
		return periods[0], nil
	}
	for _, p := range periods {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Period{}, fmt.Errorf("%w: %s", ErrPeriodNotFound, id)
}

// Words returns the period and its catalog. Catalogs are cached until Refresh.
func (s *Service) Words(ctx context.Context, periodID string) (models.Period, []models.Word, error) {
	period, err := s.Period(ctx, periodID)
	if err != nil {
		return models.Period{}, nil, err
	}

	s.mu.RLock()
	words, ok := s.words[period.ID]
	s.mu.RUnlock()
	if ok {
		return period, cloneWords(words), nil
	}

	words, err = s.loader.Load(ctx, period.Catalog)
	if err != nil {
		return models.Period{}, nil, err
	}
	s.log.Info("loaded catalog", "period", period.ID, "words", len(words))

	s.mu.Lock()
	s.words[period.ID] = words
	s.mu.Unlock()
	return period, cloneWords(words), nil
}

// Refresh drops cached metadata and catalogs
func (s *Service) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.periods = nil
	s.words = make(map[string][]models.Word)
}

func clonePeriods(in []models.Period) []models.Period {
	out := make([]models.Period, len(in))
	copy(out, in)
	return out
}

func cloneWords(in []models.Word) []models.Word {
	out := make([]models.Word, len(in))
	copy(out, in)
	return out
}
