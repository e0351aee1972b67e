package queue

// FormSubmittedEvent is published after a submission passes validation and
// is persisted. It carries enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary stores.
type FormSubmittedEvent struct {
    SubmissionID string `json:"submission_id"`
    FormID       string `json:"form_id"`
    FormName     string `json:"form_name"`
    SubmittedBy  string `json:"submitted_by"`
    FieldCount   int    `json:"field_count"`
    SubmittedAt  string `json:"submitted_at"`
}
