package blob

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

var (
	// ErrInvalidConfig indicates required configuration is missing.
	ErrInvalidConfig = errors.New("blob: invalid configuration")

	// ErrNotFound indicates the object does not exist.
	ErrNotFound = errors.New("blob: object not found")

	// ErrAccessDenied indicates the credentials lack permission.
	ErrAccessDenied = errors.New("blob: access denied")

	// ErrUploadFailed indicates the upload was rejected or failed.
	ErrUploadFailed = errors.New("blob: upload failed")

	// ErrDeleteFailed indicates the delete operation failed.
	ErrDeleteFailed = errors.New("blob: delete failed")

	// ErrPresignFailed indicates signed URL generation failed.
	ErrPresignFailed = errors.New("blob: presign failed")
)

// wrapS3Error maps S3 errors onto package sentinels. The original error
// is formatted with %v rather than %w so callers match with errors.Is
// against sentinels instead of reaching for AWS types.
func wrapS3Error(err error, fallback error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	var notFound *types.NoSuchKey
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return fmt.Errorf("%w: %v", fallback, err)
}
