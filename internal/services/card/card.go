// Package card собирает плоские карточки контрагентов для выдачи:
// из профиля пользователя и, опционально, контекста взаимодействия.
package card

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/venture-connect/internal/lib/countries"
	"github.com/magabrotheeeer/venture-connect/internal/models"
)

// Заглушки для незаполненных полей карточки.
const (
	unknownValue   = "Unknown"
	untitledValue  = "Untitled"
	noDescription  = "No description"
	noPriorFunding = "None"
)

// Investor собирает карточку инвестора. Если профиль не содержит
// подпрофиля инвестора, возвращается nil и карточка опускается из выдачи.
func Investor(u *models.User, interaction *models.Interaction) *models.Card {
	if u == nil || u.Investor == nil {
		return nil
	}
	p := u.Investor

	c := &models.Card{
		ID:           u.UID,
		Name:         strings.TrimSpace(u.FirstName + " " + u.LastName),
		InvestorType: p.InvestorType,
		Bio:          p.Bio,
		Industries:   p.Industries,
		KeyPoints: []models.KeyPoint{
			{Label: "Investor Type", Value: p.InvestorType},
			{Label: "Previous Investments", Value: strconv.Itoa(p.PreviousInvestments)},
			{Label: "Areas of Expertise", Value: strings.Join(p.AreasOfExpertise, ", ")},
		},
		ProfilePic:  u.ProfilePic,
		CoverPic:    u.CoverPic,
		Location:    location(u.Country, u.City),
		Description: description(p.Bio),
	}
	if p.InvestmentMin != nil || p.InvestmentMax != nil {
		r := &models.CardRange{}
		if p.InvestmentMin != nil {
			r.Min = *p.InvestmentMin
		}
		if p.InvestmentMax != nil {
			r.Max = *p.InvestmentMax
		}
		c.InvestmentRange = r
	}
	attachInteraction(c, interaction)
	return c
}

// Startup собирает карточку стартапа. Если профиль не содержит
// подпрофиля стартапа, возвращается nil и карточка опускается из выдачи.
func Startup(u *models.User, interaction *models.Interaction) *models.Card {
	if u == nil || u.Startup == nil {
		return nil
	}
	p := u.Startup

	industries := []string{p.Industry1}
	if p.Industry2 != "" {
		industries = append(industries, p.Industry2)
	}
	executive := unknownValue
	if len(p.Team) > 0 {
		executive = p.Team[0].Name
	}
	title := p.PitchTitle
	if title == "" {
		title = untitledValue
	}
	// Отдельного учёта прошлых раундов в профиле нет, поэтому признак
	// прошлого финансирования выводится из amount_raised.
	previousFunding := noPriorFunding
	if p.AmountRaised > 0 {
		previousFunding = fmt.Sprintf("%d %s", p.AmountRaised, p.FundingCurrency)
	}

	c := &models.Card{
		ID:                u.UID,
		Title:             title,
		Executive:         executive,
		TotalRequired:     p.FundingGoal,
		MinPerInvestor:    p.MinInvestment,
		SuccessPrediction: p.SuccessPrediction,
		Industries:        industries,
		KeyPoints: []models.KeyPoint{
			{Label: "Stage", Value: p.Stage},
			{Label: "Amount Raised", Value: fmt.Sprintf("%d %s", p.AmountRaised, p.FundingCurrency)},
			{Label: "Previous Funding", Value: previousFunding},
		},
		ProfilePic:  u.ProfilePic,
		CoverPic:    u.CoverPic,
		Location:    location(u.Country, u.City),
		Description: description(p.Description),
	}
	attachInteraction(c, interaction)
	return c
}

// ForCounterpart выбирает проекцию по типу контрагента.
func ForCounterpart(u *models.User, interaction *models.Interaction) *models.Card {
	if u == nil {
		return nil
	}
	switch u.UserType {
	case models.UserTypeInvestor:
		return Investor(u, interaction)
	case models.UserTypeStartup:
		return Startup(u, interaction)
	default:
		return nil
	}
}

func location(country, city string) models.CardLocation {
	loc := models.CardLocation{Country: country, City: city}
	if loc.Country == "" {
		loc.Country = unknownValue
	} else {
		loc.Flag = countries.Flag(loc.Country)
	}
	if loc.City == "" {
		loc.City = unknownValue
	}
	return loc
}

func description(text string) string {
	if text == "" {
		return noDescription
	}
	return text
}

func attachInteraction(c *models.Card, interaction *models.Interaction) {
	if interaction == nil {
		return
	}
	c.InteractionID = interaction.ID
	c.Status = interaction.Status
	createdAt := interaction.CreatedAt
	expiresAt := interaction.ExpiresAt
	c.CreatedAt = &createdAt
	c.ExpiresAt = &expiresAt
}
