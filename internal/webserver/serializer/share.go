package serializer

import (
	"github.com/Lucid-Synth/fileflow/internal/model"
	"github.com/Lucid-Synth/fileflow/internal/webserver/service"
)

// URLs builds the public links of a share: the share link handed to the
// recipient and the direct URL of the stored blob.
type URLs func(share *model.Share) (shareURL, publicURL string)

// Upload returns the serialized form of a fresh upload.
func Upload(share *model.Share, urls URLs) map[string]interface{} {
	shareURL, publicURL := urls(share)

	return map[string]interface{}{
		"ok":           true,
		"share_id":     share.Token,
		"share_url":    shareURL,
		"public_url":   publicURL,
		"filename":     share.Filename,
		"size":         share.Size,
		"content_type": share.ContentType,
		"checksum":     share.Checksum,
		"created_at":   share.CreatedAt,
	}
}

// Share returns the serialized form of a resolved share link.
func Share(share *model.Share, urls URLs) map[string]interface{} {
	shareURL, publicURL := urls(share)

	return map[string]interface{}{
		"share_url":    shareURL,
		"original_url": publicURL,
		"filename":     share.Filename,
		"size":         share.Size,
		"content_type": share.ContentType,
		"created_at":   share.CreatedAt,
	}
}

// Batch returns the serialized form of a batch outcome.
func Batch(result *service.BatchResult, urls URLs) map[string]interface{} {
	successful := make([]map[string]interface{}, 0, len(result.Results))
	for _, r := range result.Successful() {
		successful = append(successful, Upload(r.Share, urls))
	}

	failed := make([]map[string]interface{}, 0)
	for _, r := range result.Failed() {
		failed = append(failed, map[string]interface{}{
			"filename": r.Filename,
			"error":    r.Err.Error(),
		})
	}

	return map[string]interface{}{
		"successful_uploads": successful,
		"failed_uploads":     failed,
		"total_files":        len(result.Results),
		"successful_count":   len(successful),
		"failed_count":       len(failed),
	}
}
