package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/venture-connect/internal/models"
)

// investorColumns — общий список колонок выборки инвесторов для подбора
// и поиска: базовые поля пользователя, подпрофиль и агрегированные
// индустрии критериев.
const investorColumns = `
	u.uid, u.first_name, u.last_name, u.country, u.city,
	u.profile_pic, u.cover_pic,
	ip.bio, ip.investor_type, ip.previous_investments, ip.areas_of_expertise,
	ip.investment_min, ip.investment_max,
	(SELECT COALESCE(json_agg(ii.industry ORDER BY ii.industry), '[]')
	 FROM investor_industries ii WHERE ii.user_uid = u.uid) AS industries`

// FindMatchingInvestors выполняет мягкий подбор инвесторов под критерии
// стартапа. Присутствующие критерии объединяются через OR, намеренно
// расширяя выдачу; диапазон чека сопоставляется с допуском ±10%, а
// инвестор без диапазона проходит фильтр суммы. Если не задан ни один
// критерий, возвращаются все инвесторы с заполненным подпрофилем.
func (s *Storage) FindMatchingInvestors(ctx context.Context, criteria models.MatchCriteria) ([]*models.User, error) {
	const op = "storage.FindMatchingInvestors"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var industry1, industry2 sql.NullString
	if len(criteria.Industries) > 0 {
		industry1 = sql.NullString{String: criteria.Industries[0], Valid: true}
	}
	if len(criteria.Industries) > 1 {
		industry2 = sql.NullString{String: criteria.Industries[1], Valid: true}
	}
	stage := nullString(criteria.Stage)
	country := nullString(criteria.Country)
	city := nullString(criteria.City)
	fundingGoal := nullInt64(criteria.FundingGoal)

	query := `SELECT ` + investorColumns + `
			  FROM users u
			  JOIN investor_profiles ip ON ip.user_uid = u.uid
			  WHERE u.user_type = 'investor'
			    AND (
			          ($1::text IS NULL AND $3::text IS NULL AND $4::text IS NULL
			           AND $5::text IS NULL AND $6::bigint IS NULL)
			       OR ($1::text IS NOT NULL AND EXISTS (
			              SELECT 1 FROM investor_industries ii
			              WHERE ii.user_uid = u.uid
			                AND (ii.industry = $1 OR ii.industry = $2)))
			       OR ($3::text IS NOT NULL AND EXISTS (
			              SELECT 1 FROM investor_stages ist
			              WHERE ist.user_uid = u.uid AND ist.stage = $3))
			       OR (($4::text IS NOT NULL OR $5::text IS NOT NULL) AND EXISTS (
			              SELECT 1 FROM investor_locations il
			              WHERE il.user_uid = u.uid
			                AND (il.country = $4 OR il.city = $5)))
			       OR ($6::bigint IS NOT NULL AND (
			              ip.investment_min IS NULL
			              OR ip.investment_min <= $6::bigint * 1.1
			              OR ip.investment_max >= $6::bigint * 0.9))
			    )
			  ORDER BY u.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query,
		industry1, industry2, stage, country, city, fundingGoal)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanInvestors(op, rows)
}

// SearchInvestors выполняет строгий поиск инвесторов: каждый заданный
// фильтр обязан выполняться, отсутствующие просто опускаются.
func (s *Storage) SearchInvestors(ctx context.Context, filter models.SearchFilter) ([]*models.User, error) {
	const op = "storage.SearchInvestors"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + investorColumns + `
			  FROM users u
			  JOIN investor_profiles ip ON ip.user_uid = u.uid
			  WHERE u.user_type = 'investor'
			    AND ($1::text IS NULL OR EXISTS (
			           SELECT 1 FROM investor_industries ii
			           WHERE ii.user_uid = u.uid AND ii.industry = $1))
			    AND ($2::text IS NULL OR ip.investor_type = $2)
			    AND ($3::text IS NULL OR EXISTS (
			           SELECT 1 FROM investor_locations il
			           WHERE il.user_uid = u.uid AND il.country = $3))
			    AND ($4::text IS NULL OR EXISTS (
			           SELECT 1 FROM investor_locations il
			           WHERE il.user_uid = u.uid AND il.city = $4))
			    AND ($5::bigint IS NULL OR ip.investment_min >= $5)
			    AND ($6::bigint IS NULL OR ip.investment_max <= $6)
			    AND ($7::text IS NULL OR EXISTS (
			           SELECT 1 FROM investor_stages ist
			           WHERE ist.user_uid = u.uid AND ist.stage = $7))
			  ORDER BY u.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query,
		nullString(filter.Industry), nullString(filter.InvestorType),
		nullString(filter.Country), nullString(filter.City),
		nullInt64(filter.MinInvestment), nullInt64(filter.MaxInvestment),
		nullString(filter.Stage))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanInvestors(op, rows)
}

func scanInvestors(op string, rows *sql.Rows) ([]*models.User, error) {
	var result []*models.User
	for rows.Next() {
		u := &models.User{UserType: models.UserTypeInvestor}
		p := &models.InvestorProfile{}
		var areas, industries []byte
		var investmentMin, investmentMax sql.NullInt64
		if err := rows.Scan(&u.UID, &u.FirstName, &u.LastName, &u.Country, &u.City,
			&u.ProfilePic, &u.CoverPic,
			&p.Bio, &p.InvestorType, &p.PreviousInvestments, &areas,
			&investmentMin, &investmentMax, &industries); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(areas, &p.AreasOfExpertise); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(industries, &p.Industries); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if investmentMin.Valid {
			p.InvestmentMin = &investmentMin.Int64
		}
		if investmentMax.Valid {
			p.InvestmentMax = &investmentMax.Int64
		}
		u.Investor = p
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}
