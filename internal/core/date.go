package core

import (
	"fmt"
	"time"
)

var monthNamesPtBR = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// MonthName returns the lower-case pt-BR name of the month.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNamesPtBR[m-1]
}

// FormatDayMonth renders t as "05 de janeiro".
func FormatDayMonth(t time.Time) string {
	return fmt.Sprintf("%02d de %s", t.Day(), MonthName(t.Month()))
}

// FormatShortDate renders t as "05/01/23".
func FormatShortDate(t time.Time) string {
	return t.Format("02/01/06")
}

// FormatMonthYear renders the month selector label, e.g. "janeiro, 2023".
func FormatMonthYear(year int, month time.Month) string {
	return fmt.Sprintf("%s, %d", MonthName(month), year)
}

// AddMonths moves (year, month) by delta months, wrapping across years.
func AddMonths(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return t.Year(), t.Month()
}
