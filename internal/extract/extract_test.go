package extract

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDocumentExtractor_PlainText(t *testing.T) {
	e := NewDocumentExtractor()

	got, err := e.Extract([]byte("just some text"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "just some text", got)

	got, err = e.Extract([]byte("# markdown"), "text/markdown")
	require.NoError(t, err)
	assert.Equal(t, "# markdown", got)
}

func TestDocumentExtractor_DOCX(t *testing.T) {
	e := NewDocumentExtractor()

	docx := buildDOCX(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Senior Go developer.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Ten years of experience.</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	got, err := e.Extract(docx, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	require.NoError(t, err)
	assert.Contains(t, got, "Senior Go developer.")
	assert.Contains(t, got, "Ten years of experience.")
}

func TestDocumentExtractor_DOCX_MissingBody(t *testing.T) {
	e := NewDocumentExtractor()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	require.NoError(t, w.Close())

	_, err := e.Extract(buf.Bytes(), "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	assert.Error(t, err)
}

func TestDocumentExtractor_UnsupportedFormat(t *testing.T) {
	e := NewDocumentExtractor()

	_, err := e.Extract([]byte{0x00}, "image/png")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDocumentExtractor_CorruptPDF(t *testing.T) {
	e := NewDocumentExtractor()

	_, err := e.Extract([]byte("not a pdf at all"), "application/pdf")
	assert.Error(t, err)
}

func TestDecodeContent(t *testing.T) {
	t.Run("raw base64", func(t *testing.T) {
		data, err := DecodeContent(base64.StdEncoding.EncodeToString([]byte("hello")))
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)
	})

	t.Run("data URI", func(t *testing.T) {
		uri := "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("hello"))
		data, err := DecodeContent(uri)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)
	})

	t.Run("malformed data URI", func(t *testing.T) {
		_, err := DecodeContent("data:text/plain;base64")
		assert.Error(t, err)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := DecodeContent("%%% nope %%%")
		assert.Error(t, err)
	})
}
