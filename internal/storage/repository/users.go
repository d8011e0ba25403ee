package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/venture-connect/internal/apperr"
	"github.com/magabrotheeeer/venture-connect/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, username, password_hash, user_type,
			      first_name, last_name, country, city, nudge_limit)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.UserType,
		user.FirstName, user.LastName, user.Country, user.City,
		user.NudgeLimit).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username без подпрофиля.
// Используется при аутентификации.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, user_type, first_name,
			      last_name, country, city, profile_pic, cover_pic,
			      nudge_limit, nudge_usage, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)

	var passwordHash sql.NullString
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &passwordHash, &u.UserType,
		&u.FirstName, &u.LastName, &u.Country, &u.City, &u.ProfilePic, &u.CoverPic,
		&u.NudgeLimit, &u.NudgeUsage, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if passwordHash.Valid {
		u.PasswordHash = passwordHash.String
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID вместе с подпрофилем,
// соответствующим типу пользователя.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, user_type, first_name,
			      last_name, country, city, profile_pic, cover_pic,
			      nudge_limit, nudge_usage, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var passwordHash sql.NullString
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &passwordHash, &u.UserType,
		&u.FirstName, &u.LastName, &u.Country, &u.City, &u.ProfilePic, &u.CoverPic,
		&u.NudgeLimit, &u.NudgeUsage, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if passwordHash.Valid {
		u.PasswordHash = passwordHash.String
	}

	var err error
	switch u.UserType {
	case models.UserTypeJobseeker:
		u.Jobseeker, err = s.loadJobseekerProfile(ctx, u.UID)
	case models.UserTypeInvestor:
		u.Investor, err = s.loadInvestorProfile(ctx, u.UID)
	case models.UserTypeStartup:
		u.Startup, err = s.loadStartupProfile(ctx, u.UID)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (s *Storage) loadJobseekerProfile(ctx context.Context, userUID string) (*models.JobseekerProfile, error) {
	const op = "storage.loadJobseekerProfile"

	query := `SELECT skills, education, experience, cv_url
			  FROM jobseeker_profiles
			  WHERE user_uid = $1`
	var skills, education, experience []byte
	p := &models.JobseekerProfile{}
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&skills, &education, &experience, &p.CVURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(skills, &p.Skills); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(education, &p.Education); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(experience, &p.Experience); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *Storage) loadInvestorProfile(ctx context.Context, userUID string) (*models.InvestorProfile, error) {
	const op = "storage.loadInvestorProfile"

	query := `SELECT bio, investor_type, previous_investments, areas_of_expertise,
			      investment_min, investment_max, portfolio
			  FROM investor_profiles
			  WHERE user_uid = $1`
	p := &models.InvestorProfile{}
	var areas, portfolio []byte
	var investmentMin, investmentMax sql.NullInt64
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&p.Bio, &p.InvestorType,
		&p.PreviousInvestments, &areas, &investmentMin, &investmentMax, &portfolio)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(areas, &p.AreasOfExpertise); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(portfolio, &p.Portfolio); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if investmentMin.Valid {
		p.InvestmentMin = &investmentMin.Int64
	}
	if investmentMax.Valid {
		p.InvestmentMax = &investmentMax.Int64
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT industry FROM investor_industries WHERE user_uid = $1 ORDER BY industry`, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for rows.Next() {
		var industry string
		if err := rows.Scan(&industry); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p.Industries = append(p.Industries, industry)
	}
	if err = rows.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err = s.DB.QueryContext(ctx,
		`SELECT stage FROM investor_stages WHERE user_uid = $1 ORDER BY stage`, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for rows.Next() {
		var stage string
		if err := rows.Scan(&stage); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p.Stages = append(p.Stages, stage)
	}
	if err = rows.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err = s.DB.QueryContext(ctx,
		`SELECT country, city FROM investor_locations WHERE user_uid = $1 ORDER BY id`, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(&loc.Country, &loc.City); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p.Locations = append(p.Locations, loc)
	}
	if err = rows.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *Storage) loadStartupProfile(ctx context.Context, userUID string) (*models.StartupProfile, error) {
	const op = "storage.loadStartupProfile"

	query := `SELECT pitch_title, description, industry1, industry2, stage,
			      funding_goal, funding_currency, amount_raised, min_investment,
			      team, success_prediction
			  FROM startup_profiles
			  WHERE user_uid = $1`
	p := &models.StartupProfile{}
	var team []byte
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&p.PitchTitle, &p.Description,
		&p.Industry1, &p.Industry2, &p.Stage, &p.FundingGoal, &p.FundingCurrency,
		&p.AmountRaised, &p.MinInvestment, &team, &p.SuccessPrediction)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(team, &p.Team); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// UpsertInvestorProfile сохраняет подпрофиль инвестора и заменяет строки
// его инвестиционных критериев. Выполняется в одной транзакции.
func (s *Storage) UpsertInvestorProfile(ctx context.Context, userUID string, p models.InvestorProfile) error {
	const op = "storage.UpsertInvestorProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	areas, err := json.Marshal(p.AreasOfExpertise)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	portfolio, err := json.Marshal(p.Portfolio)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO investor_profiles (user_uid, bio, investor_type,
			      previous_investments, areas_of_expertise, investment_min,
			      investment_max, portfolio)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  ON CONFLICT (user_uid) DO UPDATE
			  SET bio = EXCLUDED.bio,
			      investor_type = EXCLUDED.investor_type,
			      previous_investments = EXCLUDED.previous_investments,
			      areas_of_expertise = EXCLUDED.areas_of_expertise,
			      investment_min = EXCLUDED.investment_min,
			      investment_max = EXCLUDED.investment_max,
			      portfolio = EXCLUDED.portfolio`
	if _, err = tx.ExecContext(ctx, query, userUID, p.Bio, p.InvestorType,
		p.PreviousInvestments, areas, p.InvestmentMin, p.InvestmentMax, portfolio); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM investor_industries WHERE user_uid = $1`, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, industry := range p.Industries {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO investor_industries (user_uid, industry) VALUES ($1, $2)`,
			userUID, industry); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM investor_stages WHERE user_uid = $1`, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, stage := range p.Stages {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO investor_stages (user_uid, stage) VALUES ($1, $2)`,
			userUID, stage); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM investor_locations WHERE user_uid = $1`, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, loc := range p.Locations {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO investor_locations (user_uid, country, city) VALUES ($1, $2, $3)`,
			userUID, loc.Country, loc.City); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpsertStartupProfile сохраняет подпрофиль стартапа.
func (s *Storage) UpsertStartupProfile(ctx context.Context, userUID string, p models.StartupProfile) error {
	const op = "storage.UpsertStartupProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	team, err := json.Marshal(p.Team)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO startup_profiles (user_uid, pitch_title, description,
			      industry1, industry2, stage, funding_goal, funding_currency,
			      amount_raised, min_investment, team, success_prediction)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  ON CONFLICT (user_uid) DO UPDATE
			  SET pitch_title = EXCLUDED.pitch_title,
			      description = EXCLUDED.description,
			      industry1 = EXCLUDED.industry1,
			      industry2 = EXCLUDED.industry2,
			      stage = EXCLUDED.stage,
			      funding_goal = EXCLUDED.funding_goal,
			      funding_currency = EXCLUDED.funding_currency,
			      amount_raised = EXCLUDED.amount_raised,
			      min_investment = EXCLUDED.min_investment,
			      team = EXCLUDED.team,
			      success_prediction = EXCLUDED.success_prediction`
	if _, err = s.DB.ExecContext(ctx, query, userUID, p.PitchTitle, p.Description,
		p.Industry1, p.Industry2, p.Stage, p.FundingGoal, p.FundingCurrency,
		p.AmountRaised, p.MinInvestment, team, p.SuccessPrediction); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AddNudgeLimit увеличивает купленную квоту наджей и возвращает новое значение.
func (s *Storage) AddNudgeLimit(ctx context.Context, userUID string, quantity int) (int, error) {
	const op = "storage.AddNudgeLimit"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET nudge_limit = nudge_limit + $1
			  WHERE uid = $2
			  RETURNING nudge_limit`
	var newLimit int
	if err := s.DB.QueryRowContext(ctx, query, quantity, userUID).Scan(&newLimit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.NotFound("user not found")
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newLimit, nil
}

// DeleteUser удаляет аккаунт. Подпрофили удаляются каскадно, зависимые
// взаимодействия, коннекты и наджи остаются: повисшие ссылки
// отфильтровываются при проекции карточек.
func (s *Storage) DeleteUser(ctx context.Context, userUID string) error {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM users WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
