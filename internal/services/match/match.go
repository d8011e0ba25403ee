// Package match реализует подбор инвесторов для стартапов: мягкий
// подбор по критериям профиля стартапа и строгий поиск по явным
// фильтрам.
package match

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/venture-connect/internal/apperr"
	"github.com/magabrotheeeer/venture-connect/internal/models"
	"github.com/magabrotheeeer/venture-connect/internal/services/card"
)

// matchTTL ограничивает жизнь кэшированной выдачи подбора.
const matchTTL = 10 * time.Minute

// MatchRepository — интерфейс репозитория подбора.
type MatchRepository interface {
	FindMatchingInvestors(ctx context.Context, criteria models.MatchCriteria) ([]*models.User, error)
	SearchInvestors(ctx context.Context, filter models.SearchFilter) ([]*models.User, error)
}

// UserProvider отдаёт профиль стартапа для вывода критериев.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Cache — интерфейс кэша выдачи подбора.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

type MatchService struct {
	repo  MatchRepository
	users UserProvider
	cache Cache
	log   *slog.Logger
}

func New(repo MatchRepository, users UserProvider, cache Cache, log *slog.Logger) *MatchService {
	return &MatchService{
		repo:  repo,
		users: users,
		cache: cache,
		log:   log,
	}
}

// FindMatches подбирает инвесторов под профиль стартапа. Критерии
// выводятся из подпрофиля: индустрии, стадия, локация и целевая сумма
// раунда. Выдача кэшируется на несколько минут.
func (s *MatchService) FindMatches(ctx context.Context, userUID string) ([]*models.Card, error) {
	caller, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if caller.UserType != models.UserTypeStartup {
		return nil, apperr.Forbidden("matching is available only to startups")
	}

	var cached []*models.Card
	cacheKey := fmt.Sprintf("matches:%s", userUID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read matches from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	investors, err := s.repo.FindMatchingInvestors(ctx, buildCriteria(caller))
	if err != nil {
		return nil, err
	}
	cards := projectCards(investors)

	if err := s.cache.Set(cacheKey, cards, matchTTL); err != nil {
		s.log.Warn("failed to cache matches", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return cards, nil
}

// Search выполняет строгий поиск инвесторов по явным фильтрам.
func (s *MatchService) Search(ctx context.Context, filter models.SearchFilter) ([]*models.Card, error) {
	if filter.MinInvestment != nil && filter.MaxInvestment != nil &&
		*filter.MinInvestment > *filter.MaxInvestment {
		return nil, apperr.Validation("min_investment must not exceed max_investment")
	}
	investors, err := s.repo.SearchInvestors(ctx, filter)
	if err != nil {
		return nil, err
	}
	return projectCards(investors), nil
}

// buildCriteria выводит критерии мягкого подбора из подпрофиля стартапа.
// Незаполненный подпрофиль дает пустые критерии и полную выдачу.
func buildCriteria(u *models.User) models.MatchCriteria {
	var criteria models.MatchCriteria
	if u.Country != "" {
		country := u.Country
		criteria.Country = &country
	}
	if u.City != "" {
		city := u.City
		criteria.City = &city
	}
	p := u.Startup
	if p == nil {
		return criteria
	}
	if p.Industry1 != "" {
		criteria.Industries = append(criteria.Industries, p.Industry1)
	}
	if p.Industry2 != "" {
		criteria.Industries = append(criteria.Industries, p.Industry2)
	}
	if p.Stage != "" {
		stage := p.Stage
		criteria.Stage = &stage
	}
	if p.FundingGoal > 0 {
		goal := p.FundingGoal
		criteria.FundingGoal = &goal
	}
	return criteria
}

func projectCards(investors []*models.User) []*models.Card {
	cards := make([]*models.Card, 0, len(investors))
	for _, investor := range investors {
		if c := card.Investor(investor, nil); c != nil {
			cards = append(cards, c)
		}
	}
	return cards
}
