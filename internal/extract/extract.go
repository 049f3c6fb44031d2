package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nguyenthenguyen/docx"
)

const (
	MimePDF   = "application/pdf"
	MimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeHTML  = "text/html"
	MimePlain = "text/plain"

	// MaxFileSize bounds uploads accepted for text extraction.
	MaxFileSize = 10 << 20
)

var (
	ErrUnsupported = errors.New("unsupported file type")
	ErrEmpty       = errors.New("no text found in file")
)

// TextFromBytes turns an uploaded resume into plain text.
// Libraries used: github.com/ledongthuc/pdf (PDF), github.com/nguyenthenguyen/docx
// (DOCX) and github.com/microcosm-cc/bluemonday (HTML).
func TextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	var (
		text string
		err  error
	)
	kind := DetectType(mimeType, fileName, data)
	switch kind {
	case MimePDF:
		text, err = extractPDF(data)
	case MimeDOCX:
		text, err = extractDOCX(data)
	case MimeHTML:
		text = extractHTML(data)
	case MimePlain:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: text is not valid utf-8", ErrUnsupported)
		}
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", kind, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// DetectType resolves the effective mime type from the declared type, the
// file extension and, as a last resort, the content itself.
func DetectType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case MimePDF, MimeDOCX, MimeHTML, MimePlain:
		return clean
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".html", ".htm":
		return MimeHTML
	case ".txt", ".md", ".text":
		return MimePlain
	}

	if isDOCXZip(data) {
		return MimeDOCX
	}
	sniffed := strings.Split(http.DetectContentType(data), ";")[0]
	switch sniffed {
	case MimePDF, MimeHTML, MimePlain:
		return sniffed
	}
	if clean != "" && clean != "application/octet-stream" {
		return clean
	}
	return sniffed
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()
	return stripDocxXML(doc.Editable().GetContent()), nil
}

// stripDocxXML keeps run text (w:t) and turns paragraph and line breaks into newlines.
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			if inText {
				buf.WriteString(string(t))
			}
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				buf.WriteString("\t")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p", "br":
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

var htmlPolicy = bluemonday.StrictPolicy()

func extractHTML(data []byte) string {
	// Block-level closers become newlines before tags are stripped.
	src := string(data)
	for _, tag := range []string{"</p>", "</div>", "</li>", "</h1>", "</h2>", "</h3>", "<br>", "<br/>", "<br />"} {
		src = strings.ReplaceAll(src, tag, tag+"\n")
	}
	stripped := html.UnescapeString(htmlPolicy.Sanitize(src))
	lines := strings.Split(stripped, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}

func isDOCXZip(data []byte) bool {
	if len(data) < 4 || !bytes.HasPrefix(data, []byte("PK")) {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}
