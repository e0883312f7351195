// Package intake turns an upload or pasted text into the contract text to analyze.
package intake

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bryanwahyu/contract-analyzer/internal/domain/contract"
)

const (
	pdfAdvisory  = "PDF parsing is not available. Please upload a .txt file or paste the contract text instead."
	wordAdvisory = "Word document parsing is not available. Please upload a .txt file or paste the contract text instead."
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Upload is a file received from the user.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Input is the normalized contract text plus the file it came from.
// FileName is empty for manual input.
type Input struct {
	Text     string
	FileName string
}

// ReadUpload reads at most limit bytes of an uploaded file. A larger file is an
// InputError; nothing is truncated silently.
func ReadUpload(r io.Reader, name, contentType string, limit int64) (*Upload, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, &contract.InputError{Reason: "could not read upload", Err: err}
	}
	if int64(len(data)) > limit {
		return nil, &contract.InputError{Reason: fmt.Sprintf("file exceeds the %d byte upload limit", limit)}
	}
	return &Upload{Name: name, ContentType: contentType, Data: data}, nil
}

// Resolve picks the contract text. Pasted text wins when both are present.
func Resolve(pasted string, upload *Upload) (Input, error) {
	if strings.TrimSpace(pasted) != "" {
		return Input{Text: pasted}, nil
	}
	if upload == nil {
		return Input{}, &contract.InputError{Reason: "no contract text: upload a .txt file or paste the contract text"}
	}

	text, err := FromUpload(upload.Name, upload.ContentType, upload.Data)
	if err != nil {
		return Input{}, err
	}
	return Input{Text: text, FileName: upload.Name}, nil
}

// FromUpload decodes a plain-text upload. PDF and Word files are recognized but
// rejected with an advisory; no text is ever made up for them.
func FromUpload(name, contentType string, data []byte) (string, error) {
	mediaType := normalizeType(contentType)
	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case mediaType == "application/pdf" || ext == ".pdf":
		return "", &contract.UnsupportedFormatError{Format: "pdf", Advisory: pdfAdvisory}
	case strings.Contains(mediaType, "word") || ext == ".doc" || ext == ".docx":
		return "", &contract.UnsupportedFormatError{Format: "word", Advisory: wordAdvisory}
	}

	return decodeText(data)
}

func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", &contract.InputError{Reason: "file is not valid UTF-8 text"}
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", &contract.InputError{Reason: "file is empty"}
	}
	return text, nil
}

func normalizeType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}
