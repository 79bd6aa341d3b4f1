package utils

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestFileHeader creates a mock multipart.FileHeader for testing
func createTestFileHeader(filename string, size int64, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="receipt"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, _ := writer.CreatePart(h)
	part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content)) + 1024)
	defer form.RemoveAll()

	if len(form.File["receipt"]) > 0 {
		fileHeader := form.File["receipt"][0]
		// Override size for testing purposes
		fileHeader.Size = size
		return fileHeader
	}

	return nil
}

func TestValidateReceiptFile_AllowedFormats(t *testing.T) {
	for _, name := range []string{"receipt.png", "receipt.jpg", "receipt.jpeg", "receipt.pdf", "RECEIPT.PDF"} {
		t.Run(name, func(t *testing.T) {
			content := []byte("fake content")
			fileHeader := createTestFileHeader(name, int64(len(content)), content)
			require.NotNil(t, fileHeader)

			assert.NoError(t, ValidateReceiptFile(fileHeader))
		})
	}
}

func TestValidateReceiptFile_FileTooLarge(t *testing.T) {
	content := []byte("fake png content")
	fileHeader := createTestFileHeader("large.png", 11*1024*1024, content)
	require.NotNil(t, fileHeader)

	err := ValidateReceiptFile(fileHeader)
	assert.Error(t, err)

	fileErr, ok := err.(*FileUploadError)
	require.True(t, ok, "Error should be of type FileUploadError")
	assert.Equal(t, "FILE_TOO_LARGE", fileErr.Code)
	assert.Contains(t, fileErr.Message, "File size exceeds maximum allowed size")
}

func TestValidateReceiptFile_InvalidFormat(t *testing.T) {
	for _, name := range []string{"receipt.gif", "receipt.exe", "receipt"} {
		t.Run(name, func(t *testing.T) {
			content := []byte("fake content")
			fileHeader := createTestFileHeader(name, int64(len(content)), content)
			require.NotNil(t, fileHeader)

			err := ValidateReceiptFile(fileHeader)
			fileErr, ok := err.(*FileUploadError)
			require.True(t, ok, "Error should be of type FileUploadError")
			assert.Equal(t, "INVALID_FILE_FORMAT", fileErr.Code)
			assert.Contains(t, fileErr.Message, ".pdf")
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType("a.png"))
	assert.Equal(t, "image/jpeg", ContentType("a.JPG"))
	assert.Equal(t, "application/pdf", ContentType("a.pdf"))
	assert.Equal(t, "application/octet-stream", ContentType("a.txt"))
}

func TestReceiptFilename(t *testing.T) {
	a := ReceiptFilename("DTF-001", "Bank Slip.PNG")
	b := ReceiptFilename("DTF-001", "Bank Slip.PNG")

	assert.True(t, strings.HasPrefix(a, "DTF-001_"))
	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, " ")
}

func TestSaveUploadedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	content := []byte("%PDF-1.4 fake")
	fileHeader := createTestFileHeader("slip.pdf", int64(len(content)), content)
	require.NotNil(t, fileHeader)

	require.NoError(t, SaveUploadedFile(fileHeader, dir, "DTF-001_x.pdf"))

	saved, err := os.ReadFile(filepath.Join(dir, "DTF-001_x.pdf"))
	require.NoError(t, err)
	assert.Equal(t, content, saved)
}

func TestGetReceiptURL(t *testing.T) {
	assert.Equal(t, "", GetReceiptURL(""))
	assert.Equal(t, "/api/v1/receipts/DTF-001_x.pdf", GetReceiptURL("DTF-001_x.pdf"))
}

func TestFileUploadError_Error(t *testing.T) {
	err := &FileUploadError{
		Code:    "TEST_CODE",
		Message: "Test error message",
	}

	assert.Equal(t, "Test error message", err.Error())
}
