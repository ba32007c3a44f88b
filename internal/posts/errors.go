package posts

import "errors"

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrImageNotFound   = errors.New("image not found")
	ErrNoFile          = errors.New("no file uploaded")
	ErrTooManyFiles    = errors.New("too many files")
	ErrInvalidImage    = errors.New("file is not a supported image")
	ErrFileTooLarge    = errors.New("file exceeds the upload size limit")
	ErrInvalidImageRef = errors.New("invalid image reference")
)
