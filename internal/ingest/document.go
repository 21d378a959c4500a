package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/licitaciones/internal/entity"
)

// headerKeys are the metadata lines an exported notice may start with, e.g.
//
//	Message-Id: 18c2f0a9
//	Subject: Licitación 2025-17
//	Date: 2025-11-03T09:15:00-04:00
//
// followed by a blank line and the notice body.
var headerKeys = map[string]string{
	"message-id": "id",
	"email-id":   "id",
	"subject":    "subject",
	"date":       "date",
	"pdf":        "pdf",
	"link":       "link",
}

var headerDateLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02 15:04",
	"2006-01-02",
}

// ReadDocument loads a notice text file. Without a Message-Id header the
// source id is derived from the content hash, so re-ingesting the same text
// is recognized as already processed.
func ReadDocument(path string) (entity.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return entity.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return ReadDocumentFrom(path, f)
}

// ReadDocumentFrom is ReadDocument for an already open stream; name stands
// in for the path.
func ReadDocumentFrom(name string, r io.Reader) (entity.Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return entity.Document{}, fmt.Errorf("read %s: %w", name, err)
	}
	sum := sha256.Sum256(raw)
	return ParseDocument(name, string(raw), hex.EncodeToString(sum[:])), nil
}

// ParseDocument splits an optional header block from body text.
func ParseDocument(path, raw, hash string) entity.Document {
	doc := entity.Document{
		Path:        path,
		ContentHash: hash,
		Source:      entity.Source{PDFFilename: filepath.Base(path)},
	}
	headers, body := splitHeaders(raw)
	doc.Text = body

	doc.Source.EmailID = headers["id"]
	if doc.Source.EmailID == "" && hash != "" {
		doc.Source.EmailID = "sha256:" + hash[:16]
	}
	doc.Source.Subject = headers["subject"]
	if v := headers["pdf"]; v != "" {
		doc.Source.PDFFilename = v
	}
	doc.Source.PDFLink = headers["link"]
	if v := headers["date"]; v != "" {
		for _, layout := range headerDateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				doc.Source.EmailDate = t
				break
			}
		}
	}
	return doc
}

// splitHeaders returns the header block only when every line before the first
// blank line is a known header; otherwise the whole input is body.
func splitHeaders(raw string) (map[string]string, string) {
	headers := map[string]string{}
	rest := raw
	for {
		line, tail, found := strings.Cut(rest, "\n")
		if strings.TrimSpace(line) == "" {
			if len(headers) == 0 {
				return map[string]string{}, raw
			}
			return headers, tail
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			return map[string]string{}, raw
		}
		name, known := headerKeys[strings.ToLower(strings.TrimSpace(key))]
		if !known || !found {
			return map[string]string{}, raw
		}
		headers[name] = strings.TrimSpace(val)
		rest = tail
	}
}
