package io

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	nerrors "github.com/matzehuels/nodegraph/pkg/errors"
)

// Format identifies a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", nerrors.New(nerrors.ErrCodeInvalidFormat, "unsupported document extension %q (want .json or .toml)", filepath.Ext(path))
	}
}

// ParseFormat validates a format name such as "json" or "toml".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatTOML:
		return f, nil
	default:
		return "", nerrors.New(nerrors.ErrCodeInvalidFormat, "unsupported document format %q", s)
	}
}

// DecodeJSON reads a JSON document from r. Unknown fields are rejected.
func DecodeJSON(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Document{}, nerrors.Wrap(nerrors.ErrCodeInvalidDocument, err, "decode json")
	}
	return doc, nil
}

// DecodeTOML reads a TOML document from r. Unknown keys are rejected.
func DecodeTOML(r io.Reader) (Document, error) {
	var doc Document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return Document{}, nerrors.Wrap(nerrors.ErrCodeInvalidDocument, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Document{}, nerrors.New(nerrors.ErrCodeInvalidDocument, "decode toml: unknown key %q", undecoded[0].String())
	}
	return doc, nil
}

// EncodeJSON writes doc as indented JSON.
func EncodeJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// EncodeTOML writes doc as TOML with arrays of tables.
func EncodeTOML(w io.Writer, doc Document) error {
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	return nil
}

// Decode reads a document in the given format.
func Decode(r io.Reader, f Format) (Document, error) {
	switch f {
	case FormatJSON:
		return DecodeJSON(r)
	case FormatTOML:
		return DecodeTOML(r)
	default:
		return Document{}, nerrors.New(nerrors.ErrCodeInvalidFormat, "unsupported document format %q", f)
	}
}

// Encode writes a document in the given format.
func Encode(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatJSON:
		return EncodeJSON(w, doc)
	case FormatTOML:
		return EncodeTOML(w, doc)
	default:
		return nerrors.New(nerrors.ErrCodeInvalidFormat, "unsupported document format %q", f)
	}
}

// ReadFile reads a document from path, choosing the format by extension.
func ReadFile(path string) (Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return Document{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return Decode(file, f)
}

// WriteFile writes doc to path, choosing the format by extension.
func WriteFile(path string, doc Document) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(file, f, doc); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Hash returns a hex SHA-256 of the canonical JSON encoding of doc.
// Equal documents hash equally regardless of the format they were read from.
func Hash(doc Document) string {
	var buf bytes.Buffer
	// Document contains only strings, ints and slices; encoding cannot fail.
	_ = json.NewEncoder(&buf).Encode(doc)
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}
