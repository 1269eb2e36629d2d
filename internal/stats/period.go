package stats

import (
	"fmt"
	"strconv"
	"strings"
)

type Period int

const (
	PeriodWeek   Period = 7
	Period30Days Period = 30
	Period60Days Period = 60
)

const DefaultPeriod = Period30Days

var ErrUnknownPeriod = fmt.Errorf("unknown period, allowed: %d, %d, %d", PeriodWeek, Period30Days, Period60Days)

var Periods = []Period{PeriodWeek, Period30Days, Period60Days}

// ParsePeriod parses the period query value. An empty value yields the
// default period; an unsupported one yields the default and ErrUnknownPeriod.
func ParsePeriod(value string) (Period, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultPeriod, nil
	}

	days, err := strconv.Atoi(value)
	if err != nil {
		return DefaultPeriod, fmt.Errorf("parse period [%s]: %w", value, ErrUnknownPeriod)
	}

	p := Period(days)
	if !p.Valid() {
		return DefaultPeriod, fmt.Errorf("period [%d]: %w", days, ErrUnknownPeriod)
	}
	return p, nil
}

func (p Period) Valid() bool {
	switch p {
	case PeriodWeek, Period30Days, Period60Days:
		return true
	}
	return false
}

func (p Period) Days() int {
	return int(p)
}

func (p Period) String() string {
	return strconv.Itoa(int(p))
}

func (p Period) Label() string {
	switch p {
	case PeriodWeek:
		return "Last week"
	case Period60Days:
		return "Last 60 days"
	default:
		return "Last 30 days"
	}
}
