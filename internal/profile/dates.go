package profile

import (
	"strconv"
	"strings"
	"time"

	"github.com/sakif/genfolio/internal/model"
)

// Date layouts accepted for education and certification dates, most
// specific first. <input type="month"> produces YYYY-MM.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"2006",
	"01/2006",
	"Jan 2006",
	"January 2006",
}

// Year extracts the calendar year from a free-form date string.
func Year(date string) (int, bool) {
	s := strings.TrimSpace(date)
	if s == "" {
		return 0, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), true
		}
	}
	return 0, false
}

// YearLabel renders the year of date, or "N/A" when it does not parse.
func YearLabel(date string) string {
	y, ok := Year(date)
	if !ok {
		return "N/A"
	}
	return strconv.Itoa(y)
}

// YearRange renders "2019 – 2023", or "2019 – Present" for an open range.
func YearRange(start, end string) string {
	if strings.TrimSpace(end) == "" {
		return YearLabel(start) + " – Present"
	}
	return YearLabel(start) + " – " + YearLabel(end)
}

// EducationComplete reports whether e may be displayed: school, degree,
// field and start date are filled in and the start date has a valid year.
func EducationComplete(e model.Education) bool {
	if !notBlank(e.School) || !notBlank(e.Degree) || !notBlank(e.Field) {
		return false
	}
	_, ok := Year(e.StartDate)
	return ok
}

// CompleteEducation filters entries down to the complete ones, keeping order.
func CompleteEducation(entries []model.Education) []model.Education {
	var out []model.Education
	for _, e := range entries {
		if EducationComplete(e) {
			out = append(out, e)
		}
	}
	return out
}
