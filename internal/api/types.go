package api

import (
	"time"

	"github.com/RevCBH/revwatch/internal/evaluate"
	"github.com/RevCBH/revwatch/internal/store"
)

type errorResponse struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type sweepResponse struct {
	Reports []*evaluate.Report `json:"reports"`
	Error   string             `json:"error,omitempty"`
}

type evaluationPayload struct {
	ID             string    `json:"id"`
	Status         string    `json:"status"`
	Severity       string    `json:"severity,omitempty"`
	ElapsedMinutes float64   `json:"elapsed_minutes"`
	MarkerChanged  bool      `json:"marker_changed"`
	Notified       bool      `json:"notified"`
	EvaluatedAt    time.Time `json:"evaluated_at"`
}

func mapEvaluation(e store.Evaluation) evaluationPayload {
	return evaluationPayload{
		ID:             e.ID,
		Status:         e.Status,
		Severity:       e.Severity,
		ElapsedMinutes: e.ElapsedMinutes,
		MarkerChanged:  e.MarkerChanged,
		Notified:       e.Notified,
		EvaluatedAt:    e.EvaluatedAt,
	}
}
