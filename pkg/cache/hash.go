package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// keyHash returns prefix:sha256(fields), with fields joined by NUL bytes.
// Every field is already text, so no value can fail to encode and two
// different field lists never share a digest input.
func keyHash(prefix string, fields ...string) string {
	h := sha256.New()
	for _, f := range fields {
		h.Write([]byte(f))
		h.Write([]byte{0})
	}
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// fields lists opts in a fixed order. Floats use the shortest exact
// representation, so NaN and the infinities still yield distinct fields.
func (o RenderKeyOpts) fields() []string {
	return []string{
		"group=" + o.Group,
		"compact=" + strconv.FormatBool(o.Compact),
		"format=" + o.Format,
		"detailed=" + strconv.FormatBool(o.Detailed),
		"clusters=" + strconv.FormatBool(o.Clusters),
		"scale=" + strconv.FormatFloat(o.Scale, 'g', -1, 64),
	}
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
