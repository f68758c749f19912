// Package extract converts uploaded documents into plain text.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnsupportedFormat is returned for mime types the extractor cannot handle.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Extractor turns raw document bytes into plain text
type Extractor interface {
	Extract(data []byte, mimeType string) (string, error)
}

// DocumentExtractor handles PDF, DOCX and plain text attachments
type DocumentExtractor struct{}

// NewDocumentExtractor creates a document extractor
func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{}
}

// Extract returns the plain text of a document
func (e *DocumentExtractor) Extract(data []byte, mimeType string) (string, error) {
	switch {
	case mimeType == mimePDF:
		return extractPDF(data)
	case mimeType == mimeDOCX:
		return extractDOCX(data)
	case strings.HasPrefix(mimeType, "text/"):
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}
}

// DecodeContent decodes a base64 attachment body, accepting both raw base64
// and data URIs ("data:<mime>;base64,<payload>").
func DecodeContent(content string) ([]byte, error) {
	if strings.HasPrefix(content, "data:") {
		idx := strings.Index(content, ",")
		if idx == -1 {
			return nil, fmt.Errorf("malformed data URI")
		}
		content = content[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 content: %w", err)
	}
	return data, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, textReader); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	return buf.String(), nil
}

// extractDOCX reads word/document.xml from the OOXML archive and collects
// the text nodes, one line per paragraph.
func extractDOCX(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX archive: %w", err)
	}

	var document *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			document = f
			break
		}
	}
	if document == nil {
		return "", fmt.Errorf("DOCX archive has no word/document.xml")
	}

	rc, err := document.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open document body: %w", err)
	}
	defer rc.Close()

	var sb strings.Builder
	decoder := xml.NewDecoder(rc)
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document body: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
