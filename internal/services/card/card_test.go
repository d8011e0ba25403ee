package card

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/venture-connect/internal/models"
)

func int64ptr(v int64) *int64 { return &v }

func TestInvestor(t *testing.T) {
	u := &models.User{
		UID:       "11111111-1111-1111-1111-111111111111",
		UserType:  models.UserTypeInvestor,
		FirstName: "Angelina",
		LastName:  "Moore",
		Country:   "United States",
		City:      "Boston",
		Investor: &models.InvestorProfile{
			Bio:                 "Angel investor",
			InvestorType:        "angel",
			PreviousInvestments: 12,
			AreasOfExpertise:    []string{"fintech", "saas"},
			Industries:          []string{"fintech"},
			InvestmentMin:       int64ptr(50000),
			InvestmentMax:       int64ptr(250000),
		},
	}

	c := Investor(u, nil)
	require.NotNil(t, c)

	assert.Equal(t, u.UID, c.ID)
	assert.Equal(t, "Angelina Moore", c.Name)
	assert.Equal(t, "angel", c.InvestorType)
	require.NotNil(t, c.InvestmentRange)
	assert.Equal(t, int64(50000), c.InvestmentRange.Min)
	assert.Equal(t, int64(250000), c.InvestmentRange.Max)
	assert.Equal(t, "United States", c.Location.Country)
	assert.NotEmpty(t, c.Location.Flag)

	require.Len(t, c.KeyPoints, 3)
	assert.Equal(t, models.KeyPoint{Label: "Investor Type", Value: "angel"}, c.KeyPoints[0])
	assert.Equal(t, models.KeyPoint{Label: "Previous Investments", Value: "12"}, c.KeyPoints[1])
	assert.Equal(t, models.KeyPoint{Label: "Areas of Expertise", Value: "fintech, saas"}, c.KeyPoints[2])
}

func TestInvestor_NoSubprofile(t *testing.T) {
	u := &models.User{UID: "x", UserType: models.UserTypeInvestor}
	assert.Nil(t, Investor(u, nil))
	assert.Nil(t, Investor(nil, nil))
}

func TestStartup(t *testing.T) {
	u := &models.User{
		UID:      "22222222-2222-2222-2222-222222222222",
		UserType: models.UserTypeStartup,
		Startup: &models.StartupProfile{
			PitchTitle:        "Acme Pay",
			Description:       "Payments for robots",
			Industry1:         "fintech",
			Industry2:         "robotics",
			Stage:             "seed",
			FundingGoal:       500000,
			FundingCurrency:   "USD",
			AmountRaised:      120000,
			MinInvestment:     10000,
			Team:              []models.TeamMember{{Name: "Jordan", Role: "CEO"}, {Name: "Sam", Role: "CTO"}},
			SuccessPrediction: 73,
		},
	}

	c := Startup(u, nil)
	require.NotNil(t, c)

	assert.Equal(t, "Acme Pay", c.Title)
	assert.Equal(t, "Jordan", c.Executive)
	assert.Equal(t, int64(500000), c.TotalRequired)
	assert.Equal(t, int64(10000), c.MinPerInvestor)
	assert.Equal(t, 73, c.SuccessPrediction)
	assert.Equal(t, []string{"fintech", "robotics"}, c.Industries)
	assert.Equal(t, "Unknown", c.Location.Country)
	assert.Equal(t, "Unknown", c.Location.City)

	require.Len(t, c.KeyPoints, 3)
	assert.Equal(t, models.KeyPoint{Label: "Stage", Value: "seed"}, c.KeyPoints[0])
	assert.Equal(t, models.KeyPoint{Label: "Amount Raised", Value: "120000 USD"}, c.KeyPoints[1])
	assert.Equal(t, models.KeyPoint{Label: "Previous Funding", Value: "120000 USD"}, c.KeyPoints[2])
}

func TestStartup_EmptyProfileDefaults(t *testing.T) {
	u := &models.User{
		UID:      "22222222-2222-2222-2222-222222222222",
		UserType: models.UserTypeStartup,
		Startup: &models.StartupProfile{
			Industry1:       "fintech",
			Stage:           "idea",
			FundingCurrency: "USD",
		},
	}

	c := Startup(u, nil)
	require.NotNil(t, c)

	assert.Equal(t, "Untitled", c.Title)
	assert.Equal(t, "Unknown", c.Executive)
	assert.Equal(t, "No description", c.Description)
	require.Len(t, c.KeyPoints, 3)
	assert.Equal(t, models.KeyPoint{Label: "Previous Funding", Value: "None"}, c.KeyPoints[2])
}

func TestInvestor_EmptyBioDefaultsDescription(t *testing.T) {
	u := &models.User{
		UID:      "11111111-1111-1111-1111-111111111111",
		UserType: models.UserTypeInvestor,
		Investor: &models.InvestorProfile{InvestorType: "vc"},
	}

	c := Investor(u, nil)
	require.NotNil(t, c)
	assert.Equal(t, "No description", c.Description)
}

func TestForCounterpart_AttachesInteractionContext(t *testing.T) {
	now := time.Now()
	expires := now.Add(7 * 24 * time.Hour)
	interaction := &models.Interaction{
		ID:        5,
		Status:    models.StatusPending,
		CreatedAt: now,
		ExpiresAt: expires,
	}
	u := &models.User{
		UID:      "22222222-2222-2222-2222-222222222222",
		UserType: models.UserTypeStartup,
		Startup:  &models.StartupProfile{PitchTitle: "Acme", Industry1: "fintech", Stage: "seed"},
	}

	c := ForCounterpart(u, interaction)
	require.NotNil(t, c)
	assert.Equal(t, 5, c.InteractionID)
	assert.Equal(t, models.StatusPending, c.Status)
	require.NotNil(t, c.CreatedAt)
	assert.Equal(t, now, *c.CreatedAt)
	require.NotNil(t, c.ExpiresAt)
	assert.Equal(t, expires, *c.ExpiresAt)
}

func TestForCounterpart_UnsupportedType(t *testing.T) {
	u := &models.User{UID: "x", UserType: models.UserTypeJobseeker}
	assert.Nil(t, ForCounterpart(u, nil))
}
