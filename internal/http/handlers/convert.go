package handlers

import "service-rider-notify/internal/domain"

func batchToResponse(b domain.BatchResult) dispatchResponse {
	return dispatchResponse{
		Label:      b.Label,
		Successful: b.Successful,
		Failed:     b.Failed,
		Total:      b.Total(),
		Errors:     b.Errors,
	}
}

func resultsToResponse(list []domain.SendResult) sendResponse {
	out := make([]sendResultDTO, 0, len(list))
	for _, res := range list {
		out = append(out, sendResultDTO{
			AssignmentID: res.AssignmentID,
			Channel:      string(res.Channel),
			Success:      res.Success,
			ExternalID:   res.ExternalID,
			Error:        res.Error,
			SentAt:       res.SentAt,
		})
	}
	return sendResponse{Results: out}
}
