package flows

import "time"

const (
	GreetingMorning   = "Доброе утро!"
	GreetingAfternoon = "Добрый день!"
	GreetingEvening   = "Добрый вечер!"
	GreetingNight     = "Доброй ночи!"
)

// Greeting picks the greeting for the hour of t: 5-11 morning, 12-17
// afternoon, 18-22 evening, night otherwise.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return GreetingMorning
	case h >= 12 && h < 18:
		return GreetingAfternoon
	case h >= 18 && h < 23:
		return GreetingEvening
	default:
		return GreetingNight
	}
}
