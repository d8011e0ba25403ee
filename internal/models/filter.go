// Package models: структуры фильтров для подбора и поиска инвесторов.
package models

// MatchCriteria — критерии мягкого подбора инвесторов для стартапа.
// Каждое поле опционально; присутствующие критерии объединяются через OR,
// чтобы расширить выдачу, а не сузить её. Если не задан ни один критерий,
// возвращаются все инвесторы.
type MatchCriteria struct {
	Industries  []string // Индустрии стартапа: industry1 и, если задана, industry2
	Stage       *string  // Стадия стартапа
	Country     *string  // Страна стартапа
	City        *string  // Город стартапа
	FundingGoal *int64   // Целевая сумма раунда, сопоставляется с допуском ±10%
}

// SearchFilter — строгий фильтр явного поиска инвесторов.
// Присутствующие поля объединяются через AND, отсутствующие опускаются.
type SearchFilter struct {
	Industry      *string // Индустрия из критериев инвестора
	InvestorType  *string // Тип инвестора: angel, vc, corporate
	Country       *string // Страна из предпочитаемых локаций
	City          *string // Город из предпочитаемых локаций
	MinInvestment *int64  // Нижняя граница чека инвестора не меньше указанной
	MaxInvestment *int64  // Верхняя граница чека инвестора не больше указанной
	Stage         *string // Стадия из критериев инвестора
}
