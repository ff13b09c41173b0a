package model

// PublishStatus is the normalized outcome of one adapter invocation.
type PublishStatus string

const (
	PublishSuccess PublishStatus = "success"
	PublishError   PublishStatus = "error"
	// PublishManual signals that no automated retry is useful and the
	// operator must complete publication outside the system.
	PublishManual PublishStatus = "manual_action_required"
)

// PublishResult is the transient, normalized outcome of a publish attempt.
// It is never persisted; the state machine folds it into the variant record.
type PublishResult struct {
	Platform   Platform      `json:"platform"`
	Status     PublishStatus `json:"status"`
	ExternalID string        `json:"id,omitempty"`
	URL        string        `json:"url,omitempty"`
	Step       string        `json:"step,omitempty"`
	Message    string        `json:"message,omitempty"`
}

func SuccessResult(platform Platform, externalID, url string) PublishResult {
	return PublishResult{Platform: platform, Status: PublishSuccess, ExternalID: externalID, URL: url}
}

func ErrorResult(platform Platform, message string) PublishResult {
	return PublishResult{Platform: platform, Status: PublishError, Message: message}
}

// StepErrorResult tags the failing phase of a multi-step protocol so the
// operator can tell which phase broke.
func StepErrorResult(platform Platform, step, message string) PublishResult {
	return PublishResult{Platform: platform, Status: PublishError, Step: step, Message: message}
}

func ManualResult(platform Platform, message string) PublishResult {
	return PublishResult{Platform: platform, Status: PublishManual, Message: message}
}

// PublishMedia carries the request-scoped media/destination parameters a
// publish attempt may need. Which fields are mandatory depends on the
// platform; that validation happens at the caller-facing boundary.
type PublishMedia struct {
	ImageURL  string `json:"image_url,omitempty"`
	VideoURL  string `json:"video_url,omitempty"`
	Recipient string `json:"whatsapp_number,omitempty"`
}

// Failed reports whether the result should count as a failed attempt for
// retry purposes. Manual outcomes are terminal for automation and never
// retried.
func (r PublishResult) Failed() bool { return r.Status == PublishError }
