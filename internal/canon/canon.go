// Package canon produces deterministic checksums over structured values.
// The digest is stable across object key ordering, which is what lets the
// server recognize a retried offline submission as a duplicate.
package canon

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// composite is the fixed shape hashed for queue records.
type composite struct {
	DeviceID      string `json:"device_id"`
	ProvisionalAt int64  `json:"provisional_at"`
	Payload       any    `json:"payload"`
}

// Checksum returns the hex-encoded SHA-256 of the canonical serialization of
// (deviceID, provisionalAt, payload). The timestamp is reduced to Unix
// milliseconds so wall-clock precision differences cannot change the digest.
func Checksum(deviceID string, provisionalAt time.Time, payload any) (string, error) {
	data, err := CanonicalBytes(composite{
		DeviceID:      deviceID,
		ProvisionalAt: provisionalAt.UTC().UnixMilli(),
		Payload:       payload,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// CanonicalBytes serializes v deterministically: primitives in their JSON
// textual form, arrays element-wise in original order, objects with keys
// sorted lexicographically. Two semantically identical values yield the
// same bytes regardless of field or key order.
func CanonicalBytes(v any) ([]byte, error) {
	// Round-trip through JSON first so structs, maps and json.RawMessage
	// all collapse to the same generic shape. UseNumber keeps numeric
	// literals intact instead of going through float64.
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}

	var buf bytes.Buffer
	if err := writeCanonical(&buf, generic); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if x {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case json.Number:
		buf.WriteString(x.String())
	case string:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Errorf("failed to marshal string: %w", err)
		}
		buf.Write(b)
	case []any:
		buf.WriteByte('[')
		for i, el := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, el); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return fmt.Errorf("failed to marshal key: %w", err)
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeCanonical(buf, x[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported canonical type %T", v)
	}
	return nil
}
