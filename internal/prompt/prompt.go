// Package prompt builds the instructions sent to the completion service.
// Both builders embed user content verbatim; nothing is truncated or escaped.
package prompt

import (
	"strings"

	"github.com/akave-ai/logrelay/internal/model"
)

// Redaction asks the model to redact the enabled categories from text.
// Categories are listed in a fixed order. With every flag off the list is
// empty and the sentence reads "...from the logs: ."; that is kept as is.
func Redaction(text string, flags model.RedactionFlags) string {
	items := make([]string, 0, 4)
	if flags.RedactIPs {
		items = append(items, "IP addresses")
	}
	if flags.RedactEmails {
		items = append(items, "email addresses")
	}
	if flags.RedactKeys {
		items = append(items, "encryption keys, API keys")
	}
	if flags.RedactUsernames {
		items = append(items, "usernames or names")
	}

	var b strings.Builder
	b.Grow(len(text) + 160)
	b.WriteString("Redact the following sensitive data from the logs: ")
	b.WriteString(strings.Join(items, ", "))
	b.WriteString(".\nKeep the log structure and message context unchanged. Here's the log:\n\n")
	b.WriteString(text)
	return b.String()
}

// Question frames the model as a log analysis assistant. The log comes
// before the question.
func Question(question, log string) string {
	var b strings.Builder
	b.Grow(len(question) + len(log) + 128)
	b.WriteString("You are a log analysis assistant. Given the following log, answer the user's question.\n\n")
	b.WriteString("Log:\n")
	b.WriteString(log)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n")
	return b.String()
}
