package service

import (
	"mime/multipart"
	"sync"

	"github.com/Lucid-Synth/fileflow/internal/model"
	"github.com/pkg/errors"
)

// concurrency is the number of parallel uploads within one batch, bounded to
// avoid overwhelming the storage backend.
const concurrency = 5

type (
	// An UploadResult is the outcome of one file's upload attempt.
	UploadResult struct {
		Filename string
		Share    *model.Share
		Err      error
	}

	// A BatchResult aggregates the upload results of one batch.
	BatchResult struct {
		Results []UploadResult
	}
)

// Successful returns the results that carry a registered share.
func (r *BatchResult) Successful() []UploadResult {
	results := make([]UploadResult, 0, len(r.Results))
	for _, result := range r.Results {
		if result.Err == nil {
			results = append(results, result)
		}
	}
	return results
}

// Failed returns the results that carry an error.
func (r *BatchResult) Failed() []UploadResult {
	results := make([]UploadResult, 0, len(r.Results))
	for _, result := range r.Results {
		if result.Err != nil {
			results = append(results, result)
		}
	}
	return results
}

// A Batch runs the Uploader once per file with independent failure
// accounting. One file's failure never aborts nor rolls back another's.
type Batch struct {
	uploader *Uploader
}

// NewBatch returns a new Batch.
func NewBatch(uploader *Uploader) *Batch {
	return &Batch{
		uploader: uploader,
	}
}

// Upload uploads all the given files and collects one result per file.
func (s *Batch) Upload(files []*multipart.FileHeader) *BatchResult {
	result := &BatchResult{
		Results: make([]UploadResult, len(files)),
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)
		go func(i int, file *multipart.FileHeader) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			result.Results[i] = s.upload(file)
		}(i, file)
	}
	wg.Wait()

	return result
}

func (s *Batch) upload(file *multipart.FileHeader) UploadResult {
	result := UploadResult{Filename: file.Filename}

	f, err := file.Open()
	if err != nil {
		result.Err = errors.Wrapf(err, "could not open %s", file.Filename)
		return result
	}
	defer f.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result.Share, result.Err = s.uploader.Upload(file.Filename, contentType, f)
	return result
}
