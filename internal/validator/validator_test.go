package validator_test

import (
	"fmt"
	"testing"

	"github.com/Lucid-Synth/fileflow/internal/validator"
	"github.com/stretchr/testify/assert"
)

func TestCheckSingle(t *testing.T) {
	v := validator.New()

	result := v.Check([]validator.File{
		{Filename: "report.pdf", Size: 1024, ContentType: "application/pdf"},
	})
	assert.True(t, result.OK)
	assert.Empty(t, result.Errors)
	assert.Equal(t, int64(1024), result.TotalSize)
}

func TestCheckFileTooLarge(t *testing.T) {
	v := validator.New()

	result := v.Check([]validator.File{
		{Filename: "huge.iso", Size: validator.DefaultMaxFileSize + 1},
	})
	assert.False(t, result.OK)
	assert.Len(t, result.Errors, 1)
	// The violation names the file, its size and the limit.
	assert.Contains(t, result.Errors[0], "huge.iso")
	assert.Contains(t, result.Errors[0], fmt.Sprint(validator.DefaultMaxFileSize+1))
	assert.Contains(t, result.Errors[0], fmt.Sprint(validator.DefaultMaxFileSize))
}

func TestCheckAggregateTooLarge(t *testing.T) {
	v := validator.New()

	// Each file fits, the folder does not.
	files := make([]validator.File, 3)
	for i := range files {
		files[i] = validator.File{
			Filename: fmt.Sprintf("part-%d.bin", i),
			Size:     validator.DefaultMaxFileSize/2 + 1,
		}
	}

	result := v.Check(files)
	assert.False(t, result.OK)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "altogether")
}

func TestCheckTooManyFiles(t *testing.T) {
	v := validator.New()

	files := make([]validator.File, validator.DefaultMaxBatchFiles+1)
	for i := range files {
		files[i] = validator.File{Filename: fmt.Sprintf("f%d.txt", i), Size: 1}
	}

	result := v.Check(files)
	assert.False(t, result.OK)
	assert.Contains(t, result.Errors[0], "too many files")
}

func TestCheckEmptyFile(t *testing.T) {
	v := validator.New()

	result := v.Check([]validator.File{{Filename: "void.txt", Size: 0}})
	assert.False(t, result.OK)
	assert.Contains(t, result.Errors[0], "empty file")
}

func TestCheckNoFile(t *testing.T) {
	v := validator.New()

	result := v.Check(nil)
	assert.False(t, result.OK)
	assert.Contains(t, result.Errors[0], "no file provided")
}

func TestCheckCollectsAllViolations(t *testing.T) {
	v := validator.New()

	result := v.Check([]validator.File{
		{Filename: "a.bin", Size: validator.DefaultMaxFileSize + 1},
		{Filename: "b.txt", Size: 0},
		{Filename: "c.bin", Size: validator.DefaultMaxFileSize + 2},
	})
	assert.False(t, result.OK)
	assert.Len(t, result.Errors, 4) // 2 oversized, 1 empty, 1 aggregate
}
