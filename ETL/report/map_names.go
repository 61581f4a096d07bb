package report

import "strings"

// worldMapNames названия регионов карты world из ECharts для ISO-кодов,
// у которых название OWID отличается
var worldMapNames = map[string]string{
	"BIH":      "Bosnia and Herz.",
	"CAF":      "Central African Rep.",
	"CIV":      "Côte d'Ivoire",
	"COD":      "Dem. Rep. Congo",
	"CZE":      "Czech Rep.",
	"DOM":      "Dominican Rep.",
	"ESH":      "W. Sahara",
	"FLK":      "Falkland Is.",
	"GNQ":      "Eq. Guinea",
	"KOR":      "Korea",
	"LAO":      "Lao PDR",
	"MKD":      "Macedonia",
	"PRK":      "Dem. Rep. Korea",
	"SLB":      "Solomon Is.",
	"SSD":      "S. Sudan",
	"SWZ":      "Swaziland",
	"TLS":      "East Timor",
	"OWID_CYN": "N. Cyprus",
	"OWID_KOS": "Kosovo",
}

// regionName название региона на карте. Агрегаты OWID и строки без ISO-кода
// на карту не попадают
func regionName(isoCode, location string) (string, bool) {
	if name, ok := worldMapNames[isoCode]; ok {
		return name, true
	}
	if isoCode == "" || strings.HasPrefix(isoCode, aggregatePrefix) {
		return "", false
	}
	return location, true
}
