package domain

import (
	"context"
	"io"
)

// UploadRequest describes one document upload before any transfer begins.
type UploadRequest struct {
	CandidateID   string
	ApplicationID int64
	Slot          DocumentSlot
	Filename      string
	ContentType   string
	Size          int64
	Body          io.Reader
	ClientIP      string
}

// UploadResult is returned once the file is stored and its reference written.
type UploadResult struct {
	Slot DocumentSlot `json:"slot"`
	Name string       `json:"name"`
	URL  string       `json:"url"`
}

// UploadProgress reports one in-flight (or finished) upload. Percent is
// monotonically non-decreasing for a given slot generation.
type UploadProgress struct {
	Slot    DocumentSlot `json:"slot"`
	Percent int          `json:"percent"`
	Done    bool         `json:"done"`
	Error   string       `json:"error,omitempty"`
}

// Uploader is the object-storage boundary. onProgress, when non-nil, receives
// cumulative written bytes during the transfer.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64, onProgress func(written int64)) (string, error)
}

// SlotPhoto is the progress-tracking key for profile photo uploads. The
// photo reference lives on the personal profile, not in the document set,
// so it is not a valid document slot.
const SlotPhoto DocumentSlot = "photo"

// UploadUsecase coordinates per-slot uploads with progress tracking.
type UploadUsecase interface {
	Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error)
	UploadPhoto(ctx context.Context, req *UploadRequest) (*UploadResult, error)
	Progress(candidateID string, applicationID int64, slot DocumentSlot) (*UploadProgress, bool)
	RemoveAdditionalFile(ctx context.Context, candidateID string, applicationID int64, name string, confirmed bool) error
}
