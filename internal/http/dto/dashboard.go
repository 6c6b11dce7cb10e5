package dto

import (
	"strconv"
	"time"

	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/service"
)

type CalendarQuery struct {
	Year     int    `form:"year" binding:"omitempty,min=1970,max=9999"`
	Month    int    `form:"month" binding:"omitempty,min=1,max=12"`
	TimeZone string `form:"tz"`
}

type CalendarResponse struct {
	Year     int                          `json:"year"`
	Month    int                          `json:"month"`
	Days     map[string][]RequestResponse `json:"days"`
	Overdue  []RequestResponse            `json:"overdue"`
	Upcoming []RequestResponse            `json:"upcoming"`
}

type ClientReportResponse struct {
	ClientID int64  `json:"client_id,string"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Requests int    `json:"requests"`
}

type ReportResponse struct {
	domain.Aggregates
	Clients     []ClientReportResponse `json:"clients"`
	ClientCount int                    `json:"client_count"`
}

// ToRequestResponses converts a list, flagging overdue items against now.
func ToRequestResponses(requests []model.Request, now time.Time) []RequestResponse {
	out := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, ToRequestResponse(&requests[i], domain.IsOverdue(requests[i], now)))
	}
	return out
}

func ToCalendarResponse(cal *service.Calendar, now time.Time) CalendarResponse {
	days := make(map[string][]RequestResponse, len(cal.Days))
	for day, requests := range cal.Days {
		days[strconv.Itoa(day)] = ToRequestResponses(requests, now)
	}
	return CalendarResponse{
		Year:     cal.Year,
		Month:    int(cal.Month),
		Days:     days,
		Overdue:  ToRequestResponses(cal.Overdue, now),
		Upcoming: ToRequestResponses(cal.Upcoming, now),
	}
}

func ToReportResponse(r *service.Report) ReportResponse {
	clients := make([]ClientReportResponse, 0, len(r.Clients))
	for _, c := range r.Clients {
		clients = append(clients, ClientReportResponse{
			ClientID: c.ClientID,
			Name:     c.Name,
			Color:    c.Color,
			Requests: c.Requests,
		})
	}
	return ReportResponse{
		Aggregates:  r.Aggregates,
		Clients:     clients,
		ClientCount: r.ClientCount,
	}
}
