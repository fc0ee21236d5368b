package requests

import (
	"math"
	"strings"
	"time"

	"petcare-marketplace/internal/domain/apperr"
)

const (
	defaultStartTime = "00:00"
	defaultEndTime   = "23:59"
)

// Schedule es el rango pedido ya normalizado.
type Schedule struct {
	StartDate string
	EndDate   string
	StartTime string
	EndTime   string
}

// NormalizeSchedule aplica defaults (end_date = start_date, 00:00, 23:59) y valida formato.
func NormalizeSchedule(startDate, endDate, startTime, endTime string) (Schedule, time.Time, time.Time, error) {
	s := Schedule{
		StartDate: strings.TrimSpace(startDate),
		EndDate:   strings.TrimSpace(endDate),
		StartTime: strings.TrimSpace(startTime),
		EndTime:   strings.TrimSpace(endTime),
	}
	if s.EndDate == "" {
		s.EndDate = s.StartDate
	}
	if s.StartTime == "" {
		s.StartTime = defaultStartTime
	}
	if s.EndTime == "" {
		s.EndTime = defaultEndTime
	}

	start, err := parseDateTime(s.StartDate, s.StartTime)
	if err != nil {
		return Schedule{}, time.Time{}, time.Time{}, apperr.Validation("invalid start date/time")
	}
	end, err := parseDateTime(s.EndDate, s.EndTime)
	if err != nil {
		return Schedule{}, time.Time{}, time.Time{}, apperr.Validation("invalid end date/time")
	}
	return s, start, end, nil
}

// Quote calcula horas (mínimo 1, fraccionarias; un rango invertido cuenta como 1)
// y monto = horas × tarifa. Sin tarifa el monto es 0.
func Quote(start, end time.Time, hourlyRate *float64) (hours, amount float64) {
	hours = math.Max(1, end.Sub(start).Hours())
	if hourlyRate != nil {
		amount = math.Round(hours*(*hourlyRate)*100) / 100
	}
	return hours, amount
}

func parseDateTime(date, clock string) (time.Time, error) {
	layout := "2006-01-02T15:04"
	if strings.Count(clock, ":") == 2 {
		layout = "2006-01-02T15:04:05"
	}
	return time.ParseInLocation(layout, date+"T"+clock, time.UTC)
}
