// Package models содержит доменные структуры платформы venture-connect:
// пользователей с типизированными подпрофилями, взаимодействия инвесторов
// и стартапов, коннекты, наджи и карточки для выдачи.
package models

import "time"

// Типы пользователей платформы. Поле UserType выступает дискриминантом:
// у пользователя заполнен ровно один подпрофиль, соответствующий типу.
const (
	UserTypeJobseeker = "jobseeker"
	UserTypeInvestor  = "investor"
	UserTypeStartup   = "startup"
	UserTypeAdmin     = "admin"
)

// DefaultNudgeLimit — стартовая квота наджей для стартапа.
const DefaultNudgeLimit = 10

// User представляет зарегистрированного пользователя системы.
// PasswordHash может быть пустым: соискатели могут регистрироваться
// через загрузку CV без пароля.
type User struct {
	UID          string    `json:"uid"`         // Уникальный идентификатор пользователя
	Email        string    `json:"email"`       // Электронная почта (уникальная)
	Username     string    `json:"username"`    // Имя пользователя (уникальное)
	PasswordHash string    `json:"-"`           // Хэш пароля, опционален
	UserType     string    `json:"user_type"`   // Тип пользователя: jobseeker, investor, startup, admin
	FirstName    string    `json:"first_name"`  // Имя
	LastName     string    `json:"last_name"`   // Фамилия
	Country      string    `json:"country"`     // Страна
	City         string    `json:"city"`        // Город
	ProfilePic   string    `json:"profile_pic"` // Ссылка на аватар
	CoverPic     string    `json:"cover_pic"`   // Ссылка на обложку профиля
	NudgeLimit   int       `json:"nudge_limit"` // Купленная квота наджей (только для стартапов)
	NudgeUsage   int       `json:"nudge_usage"` // Израсходованные наджи
	CreatedAt    time.Time `json:"created_at"`  // Дата регистрации

	Jobseeker *JobseekerProfile `json:"jobseeker,omitempty"` // Подпрофиль соискателя
	Investor  *InvestorProfile  `json:"investor,omitempty"`  // Подпрофиль инвестора
	Startup   *StartupProfile   `json:"startup,omitempty"`   // Подпрофиль стартапа
}

// Location представляет предпочитаемую локацию инвестора.
type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

// JobseekerProfile — подпрофиль соискателя.
type JobseekerProfile struct {
	Skills     []string `json:"skills"`     // Навыки
	Education  []string `json:"education"`  // Образование
	Experience []string `json:"experience"` // Опыт работы
	CVURL      string   `json:"cv_url"`     // Ссылка на резюме
}

// InvestorProfile — подпрофиль инвестора с инвестиционными критериями.
// InvestmentMin и InvestmentMax равны nil, если диапазон не задан.
type InvestorProfile struct {
	Bio                 string     `json:"bio"`                  // Краткая биография
	InvestorType        string     `json:"investor_type"`        // Тип инвестора: angel, vc, corporate
	PreviousInvestments int        `json:"previous_investments"` // Количество предыдущих инвестиций
	AreasOfExpertise    []string   `json:"areas_of_expertise"`   // Области экспертизы
	Industries          []string   `json:"industries"`           // Интересующие индустрии (до трёх)
	Stages              []string   `json:"stages"`               // Интересующие стадии стартапа
	Locations           []Location `json:"locations"`            // Предпочитаемые локации
	InvestmentMin       *int64     `json:"investment_min"`       // Нижняя граница чека
	InvestmentMax       *int64     `json:"investment_max"`       // Верхняя граница чека
	Portfolio           []string   `json:"portfolio"`            // Портфельные компании
}

// TeamMember — участник команды стартапа. Первый в списке считается
// руководителем и попадает в карточку.
type TeamMember struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// StartupProfile — подпрофиль стартапа с питчем и параметрами раунда.
type StartupProfile struct {
	PitchTitle        string       `json:"pitch_title"`        // Название питча
	Description       string       `json:"description"`        // Описание проекта
	Industry1         string       `json:"industry1"`          // Основная индустрия
	Industry2         string       `json:"industry2"`          // Дополнительная индустрия, опционально
	Stage             string       `json:"stage"`              // Стадия: idea, mvp, seed, growth
	FundingGoal       int64        `json:"funding_goal"`       // Целевая сумма раунда
	FundingCurrency   string       `json:"funding_currency"`   // Валюта раунда
	AmountRaised      int64        `json:"amount_raised"`      // Уже привлечено
	MinInvestment     int64        `json:"min_investment"`     // Минимальный чек на инвестора
	Team              []TeamMember `json:"team"`               // Команда
	SuccessPrediction int          `json:"success_prediction"` // Заглушка предсказания успеха, проценты
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`                                // Электронная почта
	Username string `json:"username" validate:"required,alphanum"`                          // Имя пользователя
	Password string `json:"password" validate:"required,min=8"`                             // Пароль
	UserType string `json:"user_type" validate:"required,oneof=jobseeker investor startup"` // Тип пользователя
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Password string `json:"password" validate:"required"`          // Пароль
}

// DummyLocation — локация из JSON-запроса.
type DummyLocation struct {
	Country string `json:"country" validate:"required"`
	City    string `json:"city" validate:"omitempty"`
}

// DummyInvestorDetails используется для приёма данных подпрофиля инвестора.
// Заполняется инкрементально отдельным вызовом после регистрации.
type DummyInvestorDetails struct {
	Bio                 string          `json:"bio" validate:"omitempty,max=2000"`
	InvestorType        string          `json:"investor_type" validate:"required,oneof=angel vc corporate"`
	PreviousInvestments int             `json:"previous_investments" validate:"omitempty,gte=0"`
	AreasOfExpertise    []string        `json:"areas_of_expertise" validate:"omitempty,dive,required"`
	Industries          []string        `json:"industries" validate:"required,min=1,max=3,dive,required"`
	Stages              []string        `json:"stages" validate:"omitempty,dive,oneof=idea mvp seed growth"`
	Locations           []DummyLocation `json:"locations" validate:"omitempty,dive"`
	InvestmentMin       *int64          `json:"investment_min" validate:"omitempty,gte=0"`
	InvestmentMax       *int64          `json:"investment_max" validate:"omitempty"`
	Portfolio           []string        `json:"portfolio" validate:"omitempty,dive,required"`
}

// DummyStartupDetails используется для приёма данных подпрофиля стартапа.
type DummyStartupDetails struct {
	PitchTitle      string            `json:"pitch_title" validate:"required,max=200"`
	Description     string            `json:"description" validate:"omitempty,max=5000"`
	Industry1       string            `json:"industry1" validate:"required"`
	Industry2       string            `json:"industry2" validate:"omitempty"`
	Stage           string            `json:"stage" validate:"required,oneof=idea mvp seed growth"`
	FundingGoal     int64             `json:"funding_goal" validate:"required,gt=0"`
	FundingCurrency string            `json:"funding_currency" validate:"required,oneof=USD EUR GBP"`
	AmountRaised    int64             `json:"amount_raised" validate:"omitempty,gte=0"`
	MinInvestment   int64             `json:"min_investment" validate:"omitempty,gt=0"`
	Team            []DummyTeamMember `json:"team" validate:"omitempty,dive"`
}

// DummyTeamMember — участник команды из JSON-запроса.
type DummyTeamMember struct {
	Name string `json:"name" validate:"required"`
	Role string `json:"role" validate:"omitempty"`
}
