package domain

import "fmt"

// Sentinel previews for documents with nothing extractable.
const (
	PreviewNoPDFText   = "No text detected in PDF (might be scanned)."
	PreviewEmptyTable  = "Empty or unreadable table."
	DefaultPreviewSize = 2000
)

// PreviewResult is the outcome of a preview extraction. Extraction never
// fails the upload; a failure is carried as a tagged value so internal
// callers can tell "no preview available" from "preview says X".
type PreviewResult struct {
	Text          string
	FailureReason string
}

func PreviewOK(text string) PreviewResult {
	return PreviewResult{Text: text}
}

func PreviewFailed(reason string) PreviewResult {
	return PreviewResult{FailureReason: reason}
}

func (r PreviewResult) Failed() bool {
	return r.FailureReason != ""
}

// Display flattens the result into the string shown to clients.
func (r PreviewResult) Display() string {
	if r.Failed() {
		return fmt.Sprintf("Parsing failed: %s", r.FailureReason)
	}
	return r.Text
}

// TruncateChars bounds s to at most limit characters, not bytes.
func TruncateChars(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
