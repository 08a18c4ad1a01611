package domain

import "time"

// MIME types accepted for upload.
const (
	MimePDF         = "application/pdf"
	MimeCSV         = "text/csv"
	MimeXLSX        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeLegacyExcel = "application/vnd.ms-excel"
)

var allowedMime = map[string]struct{}{
	MimePDF:         {},
	MimeCSV:         {},
	MimeXLSX:        {},
	MimeLegacyExcel: {},
}

func IsAllowedMime(mime string) bool {
	_, ok := allowedMime[mime]
	return ok
}

type StoredFile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MimeType    string    `json:"mime"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"-"`
	Preview     *string   `json:"preview"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
