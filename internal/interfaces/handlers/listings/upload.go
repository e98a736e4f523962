package listings

import (
	"io"
	"mime/multipart"
	"strings"

	"akaguriroo-backend/internal/application/media"
	"akaguriroo-backend/internal/config"
	"akaguriroo-backend/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// File fields accepted on listing forms, in the order they are read.
// Images and video are told apart by content, not by field.
var fileFields = []string{"images", "media", "files", "video"}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// readFiles enforces the upload limits and loads every file into memory.
func readFiles(form *multipart.Form, limits config.UploadLimits) ([]media.File, error) {
	if form == nil {
		return nil, nil
	}
	count := 0
	for field, headers := range form.File {
		if !accepted(field) {
			return nil, apperr.ErrUnexpectedField.WithDetails(map[string]interface{}{"field": field})
		}
		count += len(headers)
	}
	if limits.MaxFiles > 0 && count > limits.MaxFiles {
		return nil, apperr.ErrTooManyFiles
	}

	files := make([]media.File, 0, count)
	for _, field := range fileFields {
		for _, fh := range form.File[field] {
			f, err := readFile(field, fh, limits.MaxFileBytes)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		}
	}
	return files, nil
}

func accepted(field string) bool {
	for _, f := range fileFields {
		if f == field {
			return true
		}
	}
	return false
}

func readFile(field string, fh *multipart.FileHeader, maxBytes int64) (media.File, error) {
	if maxBytes > 0 && fh.Size > maxBytes {
		return media.File{}, apperr.ErrFileTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return media.File{}, apperr.Wrap(apperr.CodeValidation, err, "Could not read uploaded file")
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return media.File{}, apperr.Wrap(apperr.CodeValidation, err, "Could not read uploaded file")
	}
	return media.File{Field: field, Name: fh.Filename, Data: data}, nil
}
