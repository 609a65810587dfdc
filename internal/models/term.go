package models

import "time"

// Term is one academic quarter as scraped from the schedules site,
// e.g. code "2262", name "Winter 2026".
type Term struct {
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	DateRange string    `db:"date_range" json:"dateRange"`
	Current   bool      `db:"current" json:"current"`
	ScrapedAt time.Time `db:"scraped_at" json:"scrapedAt"`
}
