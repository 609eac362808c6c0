package ingest

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"postboard/internal/apperr"
)

// extByType is the full set of accepted attachment content types. The
// mapping is fixed: anything outside it is rejected before any byte is
// written, never stored and retried.
var extByType = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
}

var whitespace = regexp.MustCompile(`\s+`)

type Ingestor struct{}

func New() *Ingestor {
	return &Ingestor{}
}

// Validate maps a declared content type to its canonical filename
// extension, or fails with UnsupportedAttachment.
func (i *Ingestor) Validate(declaredType string) (string, error) {
	ext, ok := extByType[normalizeType(declaredType)]
	if !ok {
		return "", apperr.Newf(apperr.UnsupportedAttachment,
			"unsupported attachment type %q, allowed: png, jpeg", declaredType)
	}
	return ext, nil
}

// StorageName derives a collision-resistant object name for an upload:
// the original name lower-cased with whitespace collapsed to single
// dashes, a nanosecond timestamp and the canonical extension. Two
// uploads at distinct instants never collide, whatever their names.
func (i *Ingestor) StorageName(originalName, declaredType string, now time.Time) (string, error) {
	ext, err := i.Validate(declaredType)
	if err != nil {
		return "", err
	}

	name := strings.ToLower(strings.TrimSpace(originalName))
	if dot := strings.LastIndex(name, "."); dot > 0 {
		name = name[:dot]
	}
	name = whitespace.ReplaceAllString(name, "-")
	if name == "" {
		name = "image"
	}

	return name + "-" + strconv.FormatInt(now.UnixNano(), 10) + "." + ext, nil
}

// Sniff resolves a missing or application/octet-stream declared type
// from the payload's leading bytes. Any other declared type is returned
// as-is, so an explicitly declared unsupported type stays rejected by
// Validate no matter what the bytes look like. The returned reader
// replays everything Sniff consumed.
func (i *Ingestor) Sniff(declaredType string, r io.Reader) (string, io.Reader, error) {
	if t := normalizeType(declaredType); t != "" && t != "application/octet-stream" {
		return t, r, nil
	}

	buf := bufio.NewReader(r)
	header, err := buf.Peek(512)
	if err != nil && err != io.EOF {
		return "", nil, apperr.Wrap(apperr.StorageFailure, "could not read attachment", err)
	}

	return mimetype.Detect(header).String(), buf, nil
}

func normalizeType(declaredType string) string {
	t := strings.ToLower(strings.TrimSpace(declaredType))
	if semi := strings.Index(t, ";"); semi >= 0 {
		t = strings.TrimSpace(t[:semi])
	}
	return t
}
