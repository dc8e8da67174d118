package models

// WebhookRequest is the registration payload sent to the generate endpoint.
type WebhookRequest struct {
	Name  string `json:"name"`
	RegNo string `json:"regNo"`
	Email string `json:"email"`
}

// WebhookResponse is what the generate endpoint returns. Both fields are
// optional on the wire.
type WebhookResponse struct {
	Webhook     string `json:"webhook,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

type Submission struct {
	FinalQuery string `json:"finalQuery"`
}

type SubmissionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
