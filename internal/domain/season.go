package domain

import "time"

// Season is a southern-hemisphere meteorological season.
type Season string

const (
	Summer Season = "summer" // Dec, Jan, Feb
	Autumn Season = "autumn" // Mar, Apr, May
	Winter Season = "winter" // Jun, Jul, Aug
	Spring Season = "spring" // Sep, Oct, Nov
)

// Seasons lists all seasons in calendar order within a season-year.
func Seasons() []Season {
	return []Season{Summer, Autumn, Winter, Spring}
}

// seasonOrder is the sort rank of a season within its season-year.
var seasonOrder = map[Season]int{Summer: 0, Autumn: 1, Winter: 2, Spring: 3}

// CompareSeasons orders seasons within a season-year: summer first, spring last.
func CompareSeasons(a, b Season) int {
	return seasonOrder[a] - seasonOrder[b]
}

// SeasonOf maps a calendar date to its (season-year, season) label.
//
// December is assigned to the following calendar year so that a single
// southern-hemisphere summer (Dec-Feb) stays inside one season-year: a record
// dated 2019-12-31 belongs to summer 2020, together with Jan/Feb 2020.
func SeasonOf(date time.Time) (int, Season) {
	year := date.Year()
	switch date.Month() {
	case time.December:
		return year + 1, Summer
	case time.January, time.February:
		return year, Summer
	case time.March, time.April, time.May:
		return year, Autumn
	case time.June, time.July, time.August:
		return year, Winter
	default:
		return year, Spring
	}
}
