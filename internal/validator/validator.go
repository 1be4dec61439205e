package validator

import "fmt"

const (
	// DefaultMaxFileSize is the largest accepted upload, applied to each
	// file and to the batch as a whole.
	DefaultMaxFileSize = 49 << 20 // 49 MiB
	// DefaultMaxBatchFiles is the largest accepted batch.
	DefaultMaxBatchFiles = 20
)

type (
	// A Validator checks the candidate files of a request before any
	// storage I/O happens.
	Validator struct {
		MaxFileSize   int64
		MaxBatchFiles int
	}

	// A File is a candidate upload, described by the caller's declared
	// attributes only.
	File struct {
		Filename    string
		Size        int64
		ContentType string
	}

	// A Result is the outcome of a validation pass.
	Result struct {
		OK        bool
		Errors    []string
		TotalSize int64
		// TooLarge reports whether any violation is a size one, so the
		// surface can distinguish 413 from plain bad requests.
		TooLarge bool
	}
)

// New returns a Validator with the default limits.
func New() Validator {
	return Validator{
		MaxFileSize:   DefaultMaxFileSize,
		MaxBatchFiles: DefaultMaxBatchFiles,
	}
}

// Check validates the given files against the per-file limit, the aggregate
// limit and the batch count. It is a pure function with no side effects.
func (v Validator) Check(files []File) Result {
	result := Result{}

	if len(files) == 0 {
		result.Errors = append(result.Errors, "no file provided")
		return result
	}

	if len(files) > v.MaxBatchFiles {
		result.Errors = append(result.Errors,
			fmt.Sprintf("too many files: %d (max %d files per batch)", len(files), v.MaxBatchFiles))
	}

	for _, file := range files {
		result.TotalSize += file.Size

		if file.Size == 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: empty file", file.Filename))
			continue
		}

		if file.Size > v.MaxFileSize {
			result.TooLarge = true
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: file too large: %d bytes (max %d bytes)", file.Filename, file.Size, v.MaxFileSize))
		}
	}

	// The limit also applies to the batch total so a folder upload cannot
	// smuggle more bytes than a single file could.
	if len(files) > 1 && result.TotalSize > v.MaxFileSize {
		result.TooLarge = true
		result.Errors = append(result.Errors,
			fmt.Sprintf("files too large altogether: %d bytes (max %d bytes)", result.TotalSize, v.MaxFileSize))
	}

	result.OK = len(result.Errors) == 0
	return result
}
