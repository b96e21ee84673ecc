package security_test

import (
	"net/http"
	"testing"

	"recruitment-portal-backend/pkg/security"

	"github.com/stretchr/testify/assert"
)

var (
	pdfData  = []byte("%PDF-1.4\n1 0 obj\nendobj")
	pngData  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}
	jpegData = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}
	exeData  = []byte("MZ\x90\x00\x03\x00\x00\x00")
)

func TestValidateFileAccepts(t *testing.T) {
	cases := []struct {
		filename string
		data     []byte
	}{
		{"resume.pdf", pdfData},
		{"Resume.PDF", pdfData}, // extension check is case-insensitive
		{"photo.png", pngData},
		{"photo.jpg", jpegData},
		{"photo.jpeg", jpegData},
	}

	for _, tc := range cases {
		mime := http.DetectContentType(tc.data)
		result := security.ValidateFile(tc.filename, tc.data, mime)
		assert.True(t, result.Valid, "%s: %s", tc.filename, result.Error)
		assert.Empty(t, result.Error)
	}
}

func TestValidateFileRejects(t *testing.T) {
	t.Run("disallowed extension", func(t *testing.T) {
		result := security.ValidateFile("script.exe", exeData, "application/x-msdownload")
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "not allowed")
	})

	t.Run("no extension", func(t *testing.T) {
		result := security.ValidateFile("README", pdfData, "application/pdf")
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "no extension")
	})

	t.Run("executable renamed to pdf", func(t *testing.T) {
		result := security.ValidateFile("resume.pdf", exeData, http.DetectContentType(exeData))
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "spoofing")
	})

	t.Run("png renamed to jpg", func(t *testing.T) {
		result := security.ValidateFile("photo.jpg", pngData, "image/png")
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "spoofing")
	})

	t.Run("octet-stream rejected for pdf", func(t *testing.T) {
		result := security.ValidateFile("resume.pdf", pdfData, "application/octet-stream")
		assert.False(t, result.Valid)
	})

	t.Run("octet-stream allowed for docx", func(t *testing.T) {
		docx := []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x06, 0x00}
		result := security.ValidateFile("cover-letter.docx", docx, "application/octet-stream")
		assert.True(t, result.Valid, result.Error)
	})

	t.Run("truncated file", func(t *testing.T) {
		result := security.ValidateFile("resume.pdf", []byte{0x25, 0x50}, "application/pdf")
		assert.False(t, result.Valid)
	})
}
