package models

import "time"

// MeetingSeries is a recurring meeting definition owned by a team.
// Frequency holds one of the period.Frequency values; changing it only
// affects instances created after the change.
type MeetingSeries struct {
	ID        int64     `json:"series_id"`
	TeamID    int64     `json:"team_id"`
	Name      string    `json:"name"`
	Frequency string    `json:"frequency"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// MeetingInstance is one occurrence of a series. StartDate is the
// canonical period start produced by the boundary calculator (always a
// Monday for weekly series, the 1st for monthly, and so on). The pair
// (series_id, start_date) is unique.
type MeetingInstance struct {
	ID        int64     `json:"instance_id"`
	SeriesID  int64     `json:"series_id"`
	StartDate time.Time `json:"start_date"`
	CreatedAt time.Time `json:"created_at"`
}
