package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"recruitment-portal-backend/internal/domain"
	"recruitment-portal-backend/pkg/apperror"
	"recruitment-portal-backend/pkg/logger"
	"recruitment-portal-backend/pkg/security"

	"github.com/google/uuid"
)

// progressEntry tracks one slot's in-flight upload. generation increments on
// every new upload to the slot; a superseded transfer may finish but its
// result is discarded.
//
// commit serializes the persist phase for the slot: the staleness check and
// the reference write happen under it, so a stale generation can never slip
// its save in after the newer one's.
type progressEntry struct {
	commit     sync.Mutex
	percent    int
	generation uint64
	done       bool
	err        string
}

type uploadUsecase struct {
	appRepo  domain.ApplicationRepository
	drafts   domain.DraftUsecase
	store    domain.Uploader
	limiter  *security.UploadLimiter
	maxBytes int64

	mu      sync.Mutex
	entries map[string]*progressEntry
}

// NewUploadUsecase creates the document upload coordinator.
func NewUploadUsecase(
	appRepo domain.ApplicationRepository,
	drafts domain.DraftUsecase,
	store domain.Uploader,
	limiter *security.UploadLimiter,
) domain.UploadUsecase {
	return &uploadUsecase{
		appRepo:  appRepo,
		drafts:   drafts,
		store:    store,
		limiter:  limiter,
		maxBytes: domain.MaxUploadBytes,
		entries:  make(map[string]*progressEntry),
	}
}

// Upload validates, transfers and records one document. Every rejection
// (size, capacity, file type, rate limit) happens before any transfer
// begins; on failure no reference is written, so the previously stored one
// is untouched and the caller may retry.
func (uc *uploadUsecase) Upload(ctx context.Context, req *domain.UploadRequest) (*domain.UploadResult, error) {
	if !req.Slot.IsValid() {
		return nil, apperror.BadRequest(fmt.Sprintf("Unknown document slot %q", req.Slot))
	}
	if req.Size <= 0 {
		return nil, apperror.BadRequest("Empty file")
	}
	if req.Size > uc.maxBytes {
		return nil, apperror.BadRequest(fmt.Sprintf("File exceeds the %d MB size limit", uc.maxBytes>>20))
	}

	app, err := uc.appRepo.GetByID(ctx, req.ApplicationID)
	if err != nil {
		return nil, apperror.NotFound("Application not found")
	}
	if app.CandidateID != req.CandidateID {
		return nil, apperror.NotFound("Application not found")
	}
	if !app.IsDraft() {
		return nil, apperror.Conflict("This application has already been submitted and can no longer be edited")
	}

	docs, err := uc.currentDocuments(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}

	// Capacity check for the additional list happens before any transfer.
	// Re-uploading under an existing name replaces that entry, so it does not
	// count against the cap.
	if req.Slot == domain.SlotAdditional && !hasAdditionalNamed(docs, req.Filename) &&
		len(docs.AdditionalFiles) >= domain.MaxAdditionalFiles {
		return nil, apperror.BadRequest(fmt.Sprintf("At most %d additional files are allowed", domain.MaxAdditionalFiles))
	}

	if uc.limiter != nil {
		allowed, retryAfter, err := uc.limiter.AllowUpload(ctx, req.ClientIP, req.CandidateID)
		if err != nil {
			logger.Log.Warn("upload rate limit check failed", "error", err)
		}
		if !allowed {
			return nil, apperror.New(http.StatusTooManyRequests,
				fmt.Sprintf("Too many uploads, retry in %d seconds", retryAfter), nil)
		}
	}

	// Buffer the file so content validation sees the real bytes. The size
	// ceiling bounds memory; the extra byte catches clients that understate
	// Content-Length.
	data, err := io.ReadAll(io.LimitReader(req.Body, uc.maxBytes+1))
	if err != nil {
		return nil, apperror.Transient("Could not read upload, please try again", err)
	}
	if int64(len(data)) > uc.maxBytes {
		return nil, apperror.BadRequest(fmt.Sprintf("File exceeds the %d MB size limit", uc.maxBytes>>20))
	}

	detected := http.DetectContentType(data)
	if result := security.ValidateFile(req.Filename, data, detected); !result.Valid {
		return nil, apperror.BadRequest("File rejected: " + result.Error)
	}

	key := uc.trackerKey(req.ApplicationID, req.Slot)
	gen := uc.beginGeneration(key)

	objectKey := fmt.Sprintf("applications/%d/%s/%s%s",
		req.ApplicationID, req.Slot, uuid.New().String(), filepath.Ext(req.Filename))

	size := int64(len(data))
	url, err := uc.store.Upload(ctx, objectKey, detected, bytes.NewReader(data), size, func(written int64) {
		percent := int(written * 100 / size)
		uc.reportProgress(key, gen, percent)
	})
	if err != nil {
		uc.finishGeneration(key, gen, "upload failed")
		return nil, apperror.Transient("Upload failed, please try again", err)
	}

	// A newer upload to the same slot supersedes this one: last write wins on
	// completion, so a stale result is never written to the document set. The
	// commit lock keeps the staleness check and the write together, otherwise
	// a newer generation could persist in between and still lose.
	commit := uc.commitLock(key)
	commit.Lock()
	defer commit.Unlock()

	if !uc.isCurrentGeneration(key, gen) {
		return &domain.UploadResult{Slot: req.Slot, Name: req.Filename, URL: url}, nil
	}

	// Re-read before writing: another slot's upload may have completed while
	// this transfer ran.
	docs, err = uc.currentDocuments(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	if req.Slot == domain.SlotAdditional {
		setAdditional(docs, req.Filename, url)
	} else {
		docs.SetRef(req.Slot, url)
	}

	if err := uc.drafts.SaveDocuments(ctx, req.CandidateID, req.ApplicationID, docs); err != nil {
		uc.finishGeneration(key, gen, "saving document reference failed")
		return nil, err
	}

	uc.finishGeneration(key, gen, "")
	return &domain.UploadResult{Slot: req.Slot, Name: req.Filename, URL: url}, nil
}

// UploadPhoto stores a profile photo and writes its reference onto the
// personal profile. Same rejection and supersede rules as Upload, but only
// image files are accepted and the document set is untouched.
func (uc *uploadUsecase) UploadPhoto(ctx context.Context, req *domain.UploadRequest) (*domain.UploadResult, error) {
	if req.Size <= 0 {
		return nil, apperror.BadRequest("Empty file")
	}
	if req.Size > uc.maxBytes {
		return nil, apperror.BadRequest(fmt.Sprintf("File exceeds the %d MB size limit", uc.maxBytes>>20))
	}

	app, err := uc.appRepo.GetByID(ctx, req.ApplicationID)
	if err != nil || app.CandidateID != req.CandidateID {
		return nil, apperror.NotFound("Application not found")
	}
	if !app.IsDraft() {
		return nil, apperror.Conflict("This application has already been submitted and can no longer be edited")
	}

	if uc.limiter != nil {
		allowed, retryAfter, err := uc.limiter.AllowUpload(ctx, req.ClientIP, req.CandidateID)
		if err != nil {
			logger.Log.Warn("upload rate limit check failed", "error", err)
		}
		if !allowed {
			return nil, apperror.New(http.StatusTooManyRequests,
				fmt.Sprintf("Too many uploads, retry in %d seconds", retryAfter), nil)
		}
	}

	data, err := io.ReadAll(io.LimitReader(req.Body, uc.maxBytes+1))
	if err != nil {
		return nil, apperror.Transient("Could not read upload, please try again", err)
	}
	if int64(len(data)) > uc.maxBytes {
		return nil, apperror.BadRequest(fmt.Sprintf("File exceeds the %d MB size limit", uc.maxBytes>>20))
	}

	detected := http.DetectContentType(data)
	if !strings.HasPrefix(detected, "image/") {
		return nil, apperror.BadRequest("Profile photo must be a JPEG or PNG image")
	}
	if result := security.ValidateFile(req.Filename, data, detected); !result.Valid {
		return nil, apperror.BadRequest("File rejected: " + result.Error)
	}

	key := uc.trackerKey(req.ApplicationID, domain.SlotPhoto)
	gen := uc.beginGeneration(key)

	objectKey := fmt.Sprintf("applications/%d/photo/%s%s",
		req.ApplicationID, uuid.New().String(), filepath.Ext(req.Filename))

	size := int64(len(data))
	url, err := uc.store.Upload(ctx, objectKey, detected, bytes.NewReader(data), size, func(written int64) {
		percent := int(written * 100 / size)
		uc.reportProgress(key, gen, percent)
	})
	if err != nil {
		uc.finishGeneration(key, gen, "upload failed")
		return nil, apperror.Transient("Upload failed, please try again", err)
	}

	commit := uc.commitLock(key)
	commit.Lock()
	defer commit.Unlock()

	if !uc.isCurrentGeneration(key, gen) {
		return &domain.UploadResult{Slot: domain.SlotPhoto, Name: req.Filename, URL: url}, nil
	}

	profile, err := uc.appRepo.GetProfile(ctx, req.ApplicationID)
	if errors.Is(err, domain.ErrNotFound) {
		profile = &domain.PersonalProfile{ApplicationID: req.ApplicationID}
	} else if err != nil {
		return nil, apperror.Internal(err)
	}
	profile.ProfileImageURL = &url

	if err := uc.appRepo.UpsertProfile(ctx, profile); err != nil {
		uc.finishGeneration(key, gen, "saving photo reference failed")
		return nil, apperror.Internal(err)
	}

	uc.finishGeneration(key, gen, "")
	return &domain.UploadResult{Slot: domain.SlotPhoto, Name: req.Filename, URL: url}, nil
}

// Progress reports the latest state for a slot's upload. The second result
// is false when no upload has been started for the slot this process.
func (uc *uploadUsecase) Progress(candidateID string, applicationID int64, slot domain.DocumentSlot) (*domain.UploadProgress, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	entry, ok := uc.entries[uc.trackerKey(applicationID, slot)]
	if !ok {
		return nil, false
	}
	return &domain.UploadProgress{
		Slot:    slot,
		Percent: entry.percent,
		Done:    entry.done,
		Error:   entry.err,
	}, true
}

// RemoveAdditionalFile drops one (name, reference) pair from the additional
// list. Destructive, so it requires explicit confirmation.
func (uc *uploadUsecase) RemoveAdditionalFile(ctx context.Context, candidateID string, applicationID int64, name string, confirmed bool) error {
	if !confirmed {
		return apperror.BadRequest("Removing a file requires confirmation")
	}

	app, err := uc.appRepo.GetByID(ctx, applicationID)
	if err != nil || app.CandidateID != candidateID {
		return apperror.NotFound("Application not found")
	}

	docs, err := uc.currentDocuments(ctx, applicationID)
	if err != nil {
		return err
	}
	if !docs.RemoveAdditional(name) {
		return apperror.NotFound("File not found")
	}
	return uc.drafts.SaveDocuments(ctx, candidateID, applicationID, docs)
}

func (uc *uploadUsecase) currentDocuments(ctx context.Context, applicationID int64) (*domain.DocumentSet, error) {
	docs, err := uc.appRepo.GetDocuments(ctx, applicationID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.DocumentSet{ApplicationID: applicationID, AdditionalFiles: []domain.AdditionalFile{}}, nil
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return docs, nil
}

func (uc *uploadUsecase) trackerKey(applicationID int64, slot domain.DocumentSlot) string {
	return fmt.Sprintf("%d:%s", applicationID, slot)
}

// beginGeneration resets the slot's progress entry and returns the new
// generation number.
func (uc *uploadUsecase) beginGeneration(key string) uint64 {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	entry, ok := uc.entries[key]
	if !ok {
		entry = &progressEntry{}
		uc.entries[key] = entry
	}
	entry.generation++
	entry.percent = 0
	entry.done = false
	entry.err = ""
	return entry.generation
}

// reportProgress updates the slot's percentage. Stale generations are
// ignored and the percentage never decreases within a generation.
func (uc *uploadUsecase) reportProgress(key string, gen uint64, percent int) {
	if percent > 100 {
		percent = 100
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()

	entry, ok := uc.entries[key]
	if !ok || entry.generation != gen {
		return
	}
	if percent > entry.percent {
		entry.percent = percent
	}
}

func (uc *uploadUsecase) finishGeneration(key string, gen uint64, errMsg string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	entry, ok := uc.entries[key]
	if !ok || entry.generation != gen {
		return
	}
	entry.done = true
	entry.err = errMsg
	if errMsg == "" {
		entry.percent = 100
	}
}

// commitLock returns the slot's persist-phase mutex. The entry always exists
// by commit time because beginGeneration created it.
func (uc *uploadUsecase) commitLock(key string) *sync.Mutex {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return &uc.entries[key].commit
}

func (uc *uploadUsecase) isCurrentGeneration(key string, gen uint64) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	entry, ok := uc.entries[key]
	return ok && entry.generation == gen
}

func hasAdditionalNamed(docs *domain.DocumentSet, name string) bool {
	for _, f := range docs.AdditionalFiles {
		if f.Name == name {
			return true
		}
	}
	return false
}

func setAdditional(docs *domain.DocumentSet, name, url string) {
	for i, f := range docs.AdditionalFiles {
		if f.Name == name {
			docs.AdditionalFiles[i].URL = url
			return
		}
	}
	docs.AdditionalFiles = append(docs.AdditionalFiles, domain.AdditionalFile{Name: name, URL: url})
}
