package logger

import (
	"io"
	"regexp"
)

// piiPatterns are replaced with their label before a log line is written.
var piiPatterns = []struct {
	label   []byte
	pattern *regexp.Regexp
}{
	{[]byte("<EMAIL>"), regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
	{[]byte("<PAN>"), regexp.MustCompile(`\b[A-Z]{5}[0-9]{4}[A-Z]\b`)},
	{[]byte("<AADHAAR>"), regexp.MustCompile(`\b\d{4}\s\d{4}\s\d{4}\b`)},
	{[]byte("<PHONE>"), regexp.MustCompile(`(?:\+91[\s-]?|\b)[6-9]\d{9}\b`)},
}

type sanitizingWriter struct {
	w io.Writer
}

// NewSanitizingWriter redacts personal identifiers from everything written to w.
func NewSanitizingWriter(w io.Writer) io.Writer {
	return &sanitizingWriter{w: w}
}

func (s *sanitizingWriter) Write(p []byte) (int, error) {
	out := p
	for _, pii := range piiPatterns {
		out = pii.pattern.ReplaceAll(out, pii.label)
	}
	if _, err := s.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}
