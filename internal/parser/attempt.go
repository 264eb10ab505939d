package parser

import (
	"strconv"
	"strings"

	"github.com/kamilpajak/pulse/pkg/models"
)

const attachmentNamePrefix = "Anexo "

// normalizeAttempt converts one raw attempt into its canonical form.
// Missing optional fields degrade to empty values.
func normalizeAttempt(raw playwrightAttempt) models.Attempt {
	return models.Attempt{
		Status:        raw.Status,
		DurationMS:    attemptDuration(raw),
		Stdout:        normalizeLogEntries(raw.Stdout),
		Stderr:        normalizeLogEntries(raw.Stderr),
		Attachments:   normalizeAttachments(raw.Attachments),
		Errors:        normalizeErrors(raw),
		WorkerIndex:   raw.WorkerIndex,
		ParallelIndex: raw.ParallelIndex,
		StartTime:     raw.StartTime,
	}
}

// attemptDuration keeps the reported milliseconds unrounded so sums over
// sub-millisecond attempts stay exact.
func attemptDuration(raw playwrightAttempt) float64 {
	if raw.Duration == nil {
		return 0
	}
	return *raw.Duration
}

// normalizeLogEntries trims every entry and drops the ones left empty.
func normalizeLogEntries(entries []playwrightStdEntry) []string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Text == nil {
			continue
		}
		if text := strings.TrimSpace(*entry.Text); text != "" {
			lines = append(lines, text)
		}
	}
	return lines
}

func normalizeAttachments(entries []playwrightAttachment) []models.Attachment {
	attachments := make([]models.Attachment, 0, len(entries))
	for i, entry := range entries {
		name := entry.Name
		if name == "" {
			name = attachmentNamePrefix + strconv.Itoa(i+1)
		}
		attachments = append(attachments, models.Attachment{
			Name:        name,
			Path:        entry.Path,
			ContentType: entry.ContentType,
		})
	}
	return attachments
}

// normalizeErrors merges the singular error with the error list (singular
// first) and drops entries carrying neither a message nor a stack.
func normalizeErrors(raw playwrightAttempt) []models.ErrorDetail {
	candidates := make([]playwrightError, 0, len(raw.Errors)+1)
	if raw.Error != nil {
		candidates = append(candidates, *raw.Error)
	}
	candidates = append(candidates, raw.Errors...)

	errs := make([]models.ErrorDetail, 0, len(candidates))
	for _, c := range candidates {
		detail := models.ErrorDetail{
			Message: errorMessage(c),
			Stack:   deref(c.Stack),
		}
		if detail.Message == "" && detail.Stack == "" {
			continue
		}
		errs = append(errs, detail)
	}
	return errs
}

// errorMessage prefers message over value.
func errorMessage(e playwrightError) string {
	if e.Message != nil {
		return *e.Message
	}
	return deref(e.Value)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
