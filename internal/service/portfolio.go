package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"studio-marketplace/internal/access"
	"studio-marketplace/internal/core/cache"
	"studio-marketplace/internal/domain"
)

type PortfolioService struct {
	d   Deps
	log *zap.Logger
}

func portfolioKey(category string) string { return "portfolio:" + category }

// List returns items newest first. An empty category or "all" lists everything.
func (s *PortfolioService) List(ctx context.Context, a access.Actor, category string) ([]domain.PortfolioItem, error) {
	if err := s.d.Policy.Authorize(a, access.ReadPortfolio); err != nil {
		return nil, err
	}
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = domain.CategoryAll
	}
	if category != domain.CategoryAll && !domain.IsPortfolioCategory(category) {
		return nil, domain.NewValidationError("category", "must be all or one of "+strings.Join(domain.PortfolioCategories, ", "))
	}
	items, err := cache.GetOrLoadJSON(s.d.Cache, ctx, portfolioKey(category), s.d.CacheTTL,
		func(ctx context.Context) (*[]domain.PortfolioItem, error) {
			var (
				items []domain.PortfolioItem
				err   error
			)
			if category == domain.CategoryAll {
				items, err = s.d.Store.Portfolio().ListAll(ctx)
			} else {
				items, err = s.d.Store.Portfolio().ListByCategory(ctx, category)
			}
			return &items, err
		})
	if err != nil {
		return nil, err
	}
	if items == nil || *items == nil {
		return []domain.PortfolioItem{}, nil
	}
	return *items, nil
}

func (s *PortfolioService) Create(ctx context.Context, a access.Actor, in domain.PortfolioItemInput) (*domain.PortfolioItem, error) {
	if err := s.d.Policy.Authorize(a, access.ManagePortfolio); err != nil {
		return nil, err
	}
	if err := s.d.Validator.Struct(in); err != nil {
		return nil, err
	}
	item := in.Model()
	if err := s.d.Store.Portfolio().Create(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Info("portfolio item created", zap.Uint("id", item.ID), zap.String("by", a.UserID))
	return item, nil
}

func (s *PortfolioService) Update(ctx context.Context, a access.Actor, id uint, p domain.PortfolioItemPatch) (*domain.PortfolioItem, error) {
	if err := s.d.Policy.Authorize(a, access.ManagePortfolio); err != nil {
		return nil, err
	}
	if err := s.d.Validator.Struct(p); err != nil {
		return nil, err
	}
	item, err := s.d.Store.Portfolio().Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Info("portfolio item updated", zap.Uint("id", id), zap.String("by", a.UserID))
	return item, nil
}

func (s *PortfolioService) Delete(ctx context.Context, a access.Actor, id uint) error {
	if err := s.d.Policy.Authorize(a, access.ManagePortfolio); err != nil {
		return err
	}
	if err := s.d.Store.Portfolio().Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.log.Info("portfolio item deleted", zap.Uint("id", id), zap.String("by", a.UserID))
	return nil
}

// invalidate drops every cached listing; an item can move between categories.
func (s *PortfolioService) invalidate(ctx context.Context) {
	keys := []string{portfolioKey(domain.CategoryAll)}
	for _, c := range domain.PortfolioCategories {
		keys = append(keys, portfolioKey(c))
	}
	if err := s.d.Cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("portfolio cache invalidation failed", zap.Error(err))
	}
}
