package portfolio

import "github.com/rs/zerolog"

// ValueSource sums position market values. Defined here so the valuation
// service can be tested with a fake.
type ValueSource interface {
	TotalMarketValue() (float64, error)
}

// ValuationService supplies the current capital snapshot to the gap engine.
// When the underlying source fails, it masks the error with a configured
// fallback constant rather than retrying.
type ValuationService struct {
	source   ValueSource
	fallback float64
	log      zerolog.Logger
}

// NewValuationService creates a new valuation service
func NewValuationService(source ValueSource, fallback float64, log zerolog.Logger) *ValuationService {
	return &ValuationService{
		source:   source,
		fallback: fallback,
		log:      log.With().Str("service", "valuation").Logger(),
	}
}

// CurrentCapital returns the total portfolio value. Never fails: on source
// error the fallback constant is returned and the error is logged.
func (s *ValuationService) CurrentCapital() float64 {
	total, err := s.source.TotalMarketValue()
	if err != nil {
		s.log.Warn().Err(err).
			Float64("fallback", s.fallback).
			Msg("Valuation source unavailable, using fallback capital")
		return s.fallback
	}
	if total < 0 {
		s.log.Warn().Float64("total", total).Msg("Negative portfolio value, clamping to zero")
		return 0
	}
	return total
}
