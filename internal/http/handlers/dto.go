package handlers

import "time"

type dispatchRequest struct {
	IDs     []string `json:"ids,omitempty"`
	Preset  string   `json:"preset,omitempty"`
	Channel string   `json:"channel"`
	Label   string   `json:"label,omitempty"`
}

type dispatchResponse struct {
	Label      string   `json:"label,omitempty"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Total      int      `json:"total"`
	Errors     []string `json:"errors,omitempty"`
}

type sendResultDTO struct {
	AssignmentID string    `json:"assignment_id"`
	Channel      string    `json:"channel"`
	Success      bool      `json:"success"`
	ExternalID   string    `json:"external_id,omitempty"`
	Error        string    `json:"error,omitempty"`
	SentAt       time.Time `json:"sent_at"`
}

type sendResponse struct {
	Results []sendResultDTO `json:"results"`
}
