package service

import (
	"context"
	"fmt"

	"github.com/cityguide-blog-api/internal/models"
	"github.com/cityguide-blog-api/internal/repository"
	"github.com/cityguide-blog-api/internal/validation"
	"github.com/rs/zerolog"
)

var analyticsKeys = []string{
	models.SettingGoogleAnalyticsID,
	models.SettingGoogleSearchConsoleID,
	models.SettingGoogleAdsID,
	models.SettingGoogleTagManagerID,
}

// settingsService is the concrete implementation of SettingsService
type settingsService struct {
	repo repository.SettingsRepository
	log  zerolog.Logger
}

// newSettingsService creates a new SettingsService
func newSettingsService(repo repository.SettingsRepository, log zerolog.Logger) *settingsService {
	return &settingsService{
		repo: repo,
		log:  log.With().Str("service", "settings").Logger(),
	}
}

// GetAnalytics returns every tracking id, empty when unset
func (s *settingsService) GetAnalytics(ctx context.Context) (*models.AnalyticsConfig, error) {
	values, err := s.repo.GetMany(ctx, analyticsKeys)
	if err != nil {
		return nil, fmt.Errorf("load analytics settings: %w", err)
	}
	return &models.AnalyticsConfig{
		GoogleAnalyticsID:     values[models.SettingGoogleAnalyticsID],
		GoogleSearchConsoleID: values[models.SettingGoogleSearchConsoleID],
		GoogleAdsID:           values[models.SettingGoogleAdsID],
		GoogleTagManagerID:    values[models.SettingGoogleTagManagerID],
	}, nil
}

// UpdateAnalytics upserts the ids present in req and returns the result
func (s *settingsService) UpdateAnalytics(ctx context.Context, req *models.AnalyticsConfigUpdate) (*models.AnalyticsConfig, error) {
	if err := validation.AsError(validation.ValidateAnalytics(req)); err != nil {
		return nil, err
	}

	values := req.Values()
	if len(values) > 0 {
		if err := s.repo.SetMany(ctx, values); err != nil {
			return nil, fmt.Errorf("save analytics settings: %w", err)
		}
		s.log.Info().Int("fields", len(values)).Msg("Analytics configuration updated")
	}

	return s.GetAnalytics(ctx)
}

// PublicAnalytics returns only the ids the public site loads
func (s *settingsService) PublicAnalytics(ctx context.Context) (*models.PublicAnalyticsConfig, error) {
	cfg, err := s.GetAnalytics(ctx)
	if err != nil {
		return nil, err
	}
	return &models.PublicAnalyticsConfig{
		GoogleAnalyticsID:  cfg.GoogleAnalyticsID,
		GoogleTagManagerID: cfg.GoogleTagManagerID,
	}, nil
}
