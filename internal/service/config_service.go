package service

import (
	"context"

	"bbexpress-api/internal/model"
	"bbexpress-api/internal/repository"
)

type ConfigRepository interface {
	Get(ctx context.Context) (*model.SiteConfig, error)
	Upsert(ctx context.Context, cfg *model.SiteConfig) error
}

type ConfigService struct {
	repo ConfigRepository
}

func NewConfigService(repo ConfigRepository) *ConfigService {
	return &ConfigService{repo: repo}
}

// Get devuelve la configuración del sitio; si aún no existe el documento se
// entrega una configuración vacía en lugar de 404.
func (s *ConfigService) Get(ctx context.Context) (*model.SiteConfig, error) {
	cfg, err := s.repo.Get(ctx)
	if err == repository.ErrNotFound {
		return &model.SiteConfig{
			Rates:   map[string]float64{},
			Content: map[string]string{},
		}, nil
	}
	return cfg, err
}

func (s *ConfigService) Update(ctx context.Context, cfg *model.SiteConfig) (*model.SiteConfig, error) {
	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx)
}
