package model

// QARequest is the POST /ask body. Pointers let the validator tell a missing
// field from an empty string; empty strings are accepted.
type QARequest struct {
	Question *string `json:"question" validate:"required"`
	Log      *string `json:"log" validate:"required"`
}

// RedactResponse is the POST /upload success body.
type RedactResponse struct {
	Redacted string `json:"redacted"`
}

// AnswerResponse is the POST /ask success body.
type AnswerResponse struct {
	Answer string `json:"answer"`
}
