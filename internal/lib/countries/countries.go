// Package countries содержит справочник стран и их эмодзи-флагов
// для отображения локации в карточках.
package countries

// flags — страна к эмодзи-флагу. Неполный по миру, покрывает страны,
// встречающиеся в анкетах платформы; отсутствующие страны получают
// пустой флаг, а не ошибку.
var flags = map[string]string{
	"Armenia":        "🇦🇲",
	"Australia":      "🇦🇺",
	"Austria":        "🇦🇹",
	"Belgium":        "🇧🇪",
	"Brazil":         "🇧🇷",
	"Canada":         "🇨🇦",
	"China":          "🇨🇳",
	"Czech Republic": "🇨🇿",
	"Denmark":        "🇩🇰",
	"Estonia":        "🇪🇪",
	"Finland":        "🇫🇮",
	"France":         "🇫🇷",
	"Georgia":        "🇬🇪",
	"Germany":        "🇩🇪",
	"India":          "🇮🇳",
	"Ireland":        "🇮🇪",
	"Israel":         "🇮🇱",
	"Italy":          "🇮🇹",
	"Japan":          "🇯🇵",
	"Kazakhstan":     "🇰🇿",
	"Latvia":         "🇱🇻",
	"Lithuania":      "🇱🇹",
	"Netherlands":    "🇳🇱",
	"Norway":         "🇳🇴",
	"Poland":         "🇵🇱",
	"Portugal":       "🇵🇹",
	"Singapore":      "🇸🇬",
	"South Korea":    "🇰🇷",
	"Spain":          "🇪🇸",
	"Sweden":         "🇸🇪",
	"Switzerland":    "🇨🇭",
	"United Kingdom": "🇬🇧",
	"United States":  "🇺🇸",
	"Uzbekistan":     "🇺🇿",
}

// Flag возвращает эмодзи-флаг страны или пустую строку, если страна
// неизвестна справочнику.
func Flag(country string) string {
	return flags[country]
}

// Known сообщает, есть ли страна в справочнике.
func Known(country string) bool {
	_, ok := flags[country]
	return ok
}
