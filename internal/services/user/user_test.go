package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/venture-connect/internal/apperr"
	"github.com/magabrotheeeer/venture-connect/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) UpsertInvestorProfile(ctx context.Context, userUID string, p models.InvestorProfile) error {
	return m.Called(ctx, userUID, p).Error(0)
}
func (m *RepoMock) UpsertStartupProfile(ctx context.Context, userUID string, p models.StartupProfile) error {
	return m.Called(ctx, userUID, p).Error(0)
}
func (m *RepoMock) DeleteUser(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const (
	investorUID = "11111111-1111-1111-1111-111111111111"
	startupUID  = "22222222-2222-2222-2222-222222222222"
)

func TestUserService_GetUser(t *testing.T) {
	stored := &models.User{UID: investorUID, Username: "angelina", UserType: models.UserTypeInvestor}

	t.Run("cache miss loads from repo and caches", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "user:"+investorUID, mock.Anything).Return(false, nil).Once()
		repo.On("GetUser", mock.Anything, investorUID).Return(stored, nil).Once()
		cache.On("Set", "user:"+investorUID, stored, time.Hour).Return(nil).Once()

		svc := New(repo, cache, newNoopLogger())
		got, err := svc.GetUser(context.Background(), investorUID)

		assert.NoError(t, err)
		assert.Equal(t, stored, got)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache error falls back to repo", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "user:"+investorUID, mock.Anything).Return(false, errors.New("redis down")).Once()
		repo.On("GetUser", mock.Anything, investorUID).Return(stored, nil).Once()
		cache.On("Set", "user:"+investorUID, stored, time.Hour).Return(nil).Once()

		svc := New(repo, cache, newNoopLogger())
		got, err := svc.GetUser(context.Background(), investorUID)

		assert.NoError(t, err)
		assert.Equal(t, stored, got)
		repo.AssertExpectations(t)
	})
}

func TestUserService_UpsertInvestorDetails(t *testing.T) {
	min := int64(100000)
	max := int64(50000)

	tests := []struct {
		name       string
		userUID    string
		req        models.DummyInvestorDetails
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    bool
		wantKind   apperr.Kind
	}{
		{
			name:    "success invalidates cache",
			userUID: investorUID,
			req: models.DummyInvestorDetails{
				InvestorType: "angel",
				Industries:   []string{"fintech"},
				Locations:    []models.DummyLocation{{Country: "DE", City: "Berlin"}},
			},
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("GetUser", mock.Anything, investorUID).
					Return(&models.User{UID: investorUID, UserType: models.UserTypeInvestor}, nil).Once()
				r.On("UpsertInvestorProfile", mock.Anything, investorUID,
					mock.MatchedBy(func(p models.InvestorProfile) bool {
						return p.InvestorType == "angel" &&
							len(p.Locations) == 1 && p.Locations[0].Country == "DE"
					})).Return(nil).Once()
				c.On("Invalidate", "user:"+investorUID).Return(nil).Once()
			},
		},
		{
			name:    "startup cannot fill investor details",
			userUID: startupUID,
			req:     models.DummyInvestorDetails{InvestorType: "angel", Industries: []string{"fintech"}},
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("GetUser", mock.Anything, startupUID).
					Return(&models.User{UID: startupUID, UserType: models.UserTypeStartup}, nil).Once()
			},
			wantErr:  true,
			wantKind: apperr.KindForbidden,
		},
		{
			name:    "inverted investment range",
			userUID: investorUID,
			req: models.DummyInvestorDetails{
				InvestorType:  "angel",
				Industries:    []string{"fintech"},
				InvestmentMin: &min,
				InvestmentMax: &max,
			},
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("GetUser", mock.Anything, investorUID).
					Return(&models.User{UID: investorUID, UserType: models.UserTypeInvestor}, nil).Once()
			},
			wantErr:  true,
			wantKind: apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, cache)

			svc := New(repo, cache, newNoopLogger())
			err := svc.UpsertInvestorDetails(context.Background(), tt.userUID, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestUserService_UpsertStartupDetails_RequiresStartup(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	repo.On("GetUser", mock.Anything, investorUID).
		Return(&models.User{UID: investorUID, UserType: models.UserTypeInvestor}, nil).Once()

	svc := New(repo, cache, newNoopLogger())
	err := svc.UpsertStartupDetails(context.Background(), investorUID, models.DummyStartupDetails{
		PitchTitle: "Acme", Industry1: "fintech", Stage: "seed",
		FundingGoal: 500000, FundingCurrency: "USD",
	})

	assert.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	repo.AssertExpectations(t)
}

func TestUserService_DeleteUser_InvalidatesCache(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	repo.On("DeleteUser", mock.Anything, startupUID).Return(nil).Once()
	cache.On("Invalidate", "user:"+startupUID).Return(nil).Once()

	svc := New(repo, cache, newNoopLogger())
	err := svc.DeleteUser(context.Background(), startupUID)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}
