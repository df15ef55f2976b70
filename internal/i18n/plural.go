package i18n

// DaysWord returns the correct word form for a number of days.
// Russian uses three plural classes (день/дня/дней); English two.
func DaysWord(n int, lang Lang) string {
	if lang == LangEN {
		if n == 1 {
			return "day"
		}
		return "days"
	}
	return russianPlural(n, "день", "дня", "дней")
}

// TimeOfDayWord returns the localized adjective used inside the workout
// reminder ("утренней тренировки" / "morning workout").
func TimeOfDayWord(timeOfDay string, lang Lang) string {
	if lang == LangEN {
		return timeOfDay
	}
	switch timeOfDay {
	case "morning":
		return "утренней"
	case "afternoon":
		return "дневной"
	case "evening":
		return "вечерней"
	default:
		return ""
	}
}

// russianPlural selects the Slavic plural class for n.
// one: 1, 21, 31...; few: 2-4, 22-24...; many: 5-20, 25-30, 11-14 always.
func russianPlural(n int, one, few, many string) string {
	if n < 0 {
		n = -n
	}
	switch {
	case n%10 == 1 && n%100 != 11:
		return one
	case n%10 >= 2 && n%10 <= 4 && (n%100 < 12 || n%100 > 14):
		return few
	default:
		return many
	}
}
