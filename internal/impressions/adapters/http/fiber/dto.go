package fiber

type CreateImpressionRequest struct {
	ID         string            `json:"id"`
	GroupKey   string            `json:"group_key"`
	UserID     string            `json:"user_id,omitempty"`
	Timestamp  int64             `json:"timestamp"`
	Click      bool              `json:"click"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type CreateImpressionResponse struct {
	Status string `json:"status" example:"created"`
}

type BulkCreateImpressionsRequest struct {
	Impressions []CreateImpressionRequest `json:"impressions"`
}

type BulkCreateImpressionsResponse struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_impression"`
	Message string `json:"message,omitempty"`
}
