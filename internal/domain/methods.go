package domain

import (
	"sort"
	"strings"
)

// Method codes of the built-in calculation methods.
const (
	MethodMWL     = "MWL"
	MethodISNA    = "ISNA"
	MethodEgypt   = "Egypt"
	MethodMakkah  = "Makkah"
	MethodKarachi = "Karachi"
	MethodTehran  = "Tehran"
	MethodJafari  = "Jafari"
)

// MethodInfo describes a built-in calculation method.
type MethodInfo struct {
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	Parameters Parameters `json:"parameters"`
}

// methodOrder fixes the listing order of the registry.
var methodOrder = []string{
	MethodMWL, MethodISNA, MethodEgypt, MethodMakkah, MethodKarachi, MethodTehran, MethodJafari,
}

var methods = map[string]MethodInfo{
	MethodMWL: {
		Code: MethodMWL,
		Name: "Muslim World League",
		Parameters: Parameters{
			Imsak:    Minutes(10),
			Fajr:     18,
			Dhuhr:    0,
			Asr:      1,
			Maghrib:  Minutes(0),
			Isha:     Degrees(17),
			Midnight: MidnightStandard,
			HighLats: HighLatNightMiddle,
		},
	},
	MethodISNA: {
		Code: MethodISNA,
		Name: "Islamic Society of North America",
		Parameters: Parameters{
			Imsak:    Minutes(15),
			Fajr:     15,
			Dhuhr:    0,
			Asr:      1,
			Maghrib:  Minutes(0),
			Isha:     Degrees(15),
			Midnight: MidnightStandard,
			HighLats: HighLatNightMiddle,
		},
	},
	MethodEgypt: {
		Code: MethodEgypt,
		Name: "Egyptian General Authority of Survey",
		Parameters: Parameters{
			Imsak:    Minutes(10),
			Fajr:     19.5,
			Dhuhr:    0,
			Asr:      1,
			Maghrib:  Minutes(0),
			Isha:     Degrees(17.5),
			Midnight: MidnightStandard,
			HighLats: HighLatNightMiddle,
		},
	},
	MethodMakkah: {
		Code: MethodMakkah,
		Name: "Umm Al-Qura University, Makkah",
		Parameters: Parameters{
			Imsak:    Minutes(10),
			Fajr:     18.5,
			Dhuhr:    0,
			Asr:      1,
			Maghrib:  Minutes(0),
			Isha:     Minutes(90),
			Midnight: MidnightStandard,
			HighLats: HighLatNightMiddle,
		},
	},
	MethodKarachi: {
		Code: MethodKarachi,
		Name: "University of Islamic Sciences, Karachi",
		Parameters: Parameters{
			Imsak:    Minutes(10),
			Fajr:     18,
			Dhuhr:    0,
			Asr:      1,
			Maghrib:  Minutes(0),
			Isha:     Degrees(18),
			Midnight: MidnightStandard,
			HighLats: HighLatNightMiddle,
		},
	},
	MethodTehran: {
		Code: MethodTehran,
		Name: "Institute of Geophysics, University of Tehran",
		Parameters: Parameters{
			Imsak:    Minutes(10),
			Fajr:     17.7,
			Dhuhr:    0,
			Asr:      1,
			Maghrib:  Degrees(4.5),
			Isha:     Degrees(14),
			Midnight: MidnightJafari,
			HighLats: HighLatNightMiddle,
		},
	},
	MethodJafari: {
		Code: MethodJafari,
		Name: "Shia Ithna Ashari, Leva Institute, Qum",
		Parameters: Parameters{
			Imsak:    Minutes(10),
			Fajr:     16,
			Dhuhr:    0,
			Asr:      1,
			Maghrib:  Degrees(4),
			Isha:     Degrees(14),
			Midnight: MidnightJafari,
			HighLats: HighLatNightMiddle,
		},
	},
}

// Method returns the parameters of a built-in method. Codes are matched
// case-insensitively.
func Method(code string) (Parameters, bool) {
	info, ok := LookupMethod(code)
	return info.Parameters, ok
}

// LookupMethod returns the registry entry for code.
func LookupMethod(code string) (MethodInfo, bool) {
	if info, ok := methods[code]; ok {
		return info, true
	}
	for _, c := range methodOrder {
		if strings.EqualFold(c, code) {
			return methods[c], true
		}
	}
	return MethodInfo{}, false
}

// Methods returns every built-in method in registry order.
func Methods() []MethodInfo {
	out := make([]MethodInfo, 0, len(methodOrder))
	for _, c := range methodOrder {
		out = append(out, methods[c])
	}
	return out
}

// MethodCodes returns the sorted method codes.
func MethodCodes() []string {
	codes := make([]string, len(methodOrder))
	copy(codes, methodOrder)
	sort.Strings(codes)
	return codes
}
