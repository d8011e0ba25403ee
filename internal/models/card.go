package models

import "time"

// KeyPoint — пара подпись-значение для блока ключевых фактов карточки.
type KeyPoint struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CardLocation — локация в карточке. Неизвестные значения заменяются
// на "Unknown" при проекции.
type CardLocation struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Flag    string `json:"flag,omitempty"`
}

// CardRange — инвестиционный диапазон в карточке инвестора.
type CardRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Card — плоское UI-представление контрагента по взаимодействию или
// кандидата из подбора. Набор заполненных полей зависит от типа
// контрагента: для инвестора — Name/InvestorType/Bio/InvestmentRange,
// для стартапа — Title/Executive/TotalRequired/MinPerInvestor.
type Card struct {
	ID string `json:"id"` // Идентификатор пользователя-контрагента

	// Поля инвестора.
	Name            string     `json:"name,omitempty"`
	InvestorType    string     `json:"investor_type,omitempty"`
	Bio             string     `json:"bio,omitempty"`
	InvestmentRange *CardRange `json:"investment_range,omitempty"`

	// Поля стартапа.
	Title             string `json:"title,omitempty"`
	Executive         string `json:"executive,omitempty"`
	TotalRequired     int64  `json:"total_required,omitempty"`
	MinPerInvestor    int64  `json:"min_per_investor,omitempty"`
	SuccessPrediction int    `json:"success_prediction,omitempty"`

	// Общие поля.
	Industries  []string     `json:"industries"`
	KeyPoints   []KeyPoint   `json:"key_points"`
	ProfilePic  string       `json:"profile_pic,omitempty"`
	CoverPic    string       `json:"cover_pic,omitempty"`
	Location    CardLocation `json:"location"`
	Description string       `json:"description"`

	// Контекст взаимодействия; нулевые значения у карточек из подбора.
	InteractionID int        `json:"interaction_id,omitempty"`
	Status        string     `json:"status,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}
