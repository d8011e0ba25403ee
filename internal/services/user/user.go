// Package user реализует работу с профилями пользователей: чтение
// с кэшированием, инкрементальное заполнение подпрофилей и удаление.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/venture-connect/internal/apperr"
	"github.com/magabrotheeeer/venture-connect/internal/models"
)

// UserRepository — интерфейс репозитория профилей.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpsertInvestorProfile(ctx context.Context, userUID string, p models.InvestorProfile) error
	UpsertStartupProfile(ctx context.Context, userUID string, p models.StartupProfile) error
	DeleteUser(ctx context.Context, userUID string) error
}

// Cache — интерфейс кэша профилей.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

type UserService struct {
	repo  UserRepository
	cache Cache
	log   *slog.Logger
}

func New(repo UserRepository, cache Cache, log *slog.Logger) *UserService {
	return &UserService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(userUID string) string {
	return fmt.Sprintf("user:%s", userUID)
}

// GetUser возвращает профиль с подпрофилем по типу пользователя.
func (s *UserService) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	var result *models.User
	key := cacheKey(userUID)
	found, err := s.cache.Get(key, &result)
	if err != nil {
		s.log.Warn("failed to read user from cache", slog.String("key", key), slog.Any("err", err))
	}
	if found {
		return result, nil
	}
	result, err = s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(key, result, time.Hour); err != nil {
		s.log.Warn("failed to cache user", slog.String("key", key), slog.Any("err", err))
	}
	return result, nil
}

// UpsertInvestorDetails заполняет или обновляет подпрофиль инвестора.
// Допустимо только для пользователей типа investor.
func (s *UserService) UpsertInvestorDetails(ctx context.Context, userUID string, req models.DummyInvestorDetails) error {
	u, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return err
	}
	if u.UserType != models.UserTypeInvestor {
		return apperr.Forbidden("only investors can fill investor details")
	}
	if req.InvestmentMin != nil && req.InvestmentMax != nil && *req.InvestmentMin > *req.InvestmentMax {
		return apperr.Validation("investment_min must not exceed investment_max")
	}

	locations := make([]models.Location, 0, len(req.Locations))
	for _, l := range req.Locations {
		locations = append(locations, models.Location{Country: l.Country, City: l.City})
	}
	profile := models.InvestorProfile{
		Bio:                 req.Bio,
		InvestorType:        req.InvestorType,
		PreviousInvestments: req.PreviousInvestments,
		AreasOfExpertise:    req.AreasOfExpertise,
		Industries:          req.Industries,
		Stages:              req.Stages,
		Locations:           locations,
		InvestmentMin:       req.InvestmentMin,
		InvestmentMax:       req.InvestmentMax,
		Portfolio:           req.Portfolio,
	}
	if err := s.repo.UpsertInvestorProfile(ctx, userUID, profile); err != nil {
		return err
	}
	s.invalidate(userUID)
	return nil
}

// UpsertStartupDetails заполняет или обновляет подпрофиль стартапа.
// Допустимо только для пользователей типа startup.
func (s *UserService) UpsertStartupDetails(ctx context.Context, userUID string, req models.DummyStartupDetails) error {
	u, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return err
	}
	if u.UserType != models.UserTypeStartup {
		return apperr.Forbidden("only startups can fill startup details")
	}

	team := make([]models.TeamMember, 0, len(req.Team))
	for _, m := range req.Team {
		team = append(team, models.TeamMember{Name: m.Name, Role: m.Role})
	}
	profile := models.StartupProfile{
		PitchTitle:      req.PitchTitle,
		Description:     req.Description,
		Industry1:       req.Industry1,
		Industry2:       req.Industry2,
		Stage:           req.Stage,
		FundingGoal:     req.FundingGoal,
		FundingCurrency: req.FundingCurrency,
		AmountRaised:    req.AmountRaised,
		MinInvestment:   req.MinInvestment,
		Team:            team,
	}
	if err := s.repo.UpsertStartupProfile(ctx, userUID, profile); err != nil {
		return err
	}
	s.invalidate(userUID)
	return nil
}

// DeleteUser удаляет пользователя. Взаимодействия и коннекты с его
// участием сохраняются и отфильтровываются из выдачи при проекции.
func (s *UserService) DeleteUser(ctx context.Context, userUID string) error {
	if err := s.repo.DeleteUser(ctx, userUID); err != nil {
		return err
	}
	s.invalidate(userUID)
	return nil
}

func (s *UserService) invalidate(userUID string) {
	key := cacheKey(userUID)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to invalidate user cache", slog.String("key", key), slog.Any("err", err))
	}
}
