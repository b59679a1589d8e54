package timeboundary

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// Cursor is an opaque pagination token for a (occurredAt DESC, id DESC) scan.
type Cursor string

// CursorKey is the last-seen sort position of a page.
type CursorKey struct {
	SortKey time.Time
	ID      string
}

var (
	errMissingID    = errors.New("missing id")
	errTrailingData = errors.New("trailing data after record")
)

type cursorPayload struct {
	SortKey string `json:"sortKey"`
	ID      string `json:"id"`
}

// MalformedCursorError is returned when a cursor does not decode to a CursorKey.
type MalformedCursorError struct {
	Cursor Cursor
	Err    error
}

func (e *MalformedCursorError) Error() string {
	return fmt.Sprintf("malformed cursor %q: %v", string(e.Cursor), e.Err)
}

func (e *MalformedCursorError) Unwrap() error {
	return e.Err
}

// EncodeCursor encodes key as base64 of a small JSON record.
func EncodeCursor(key CursorKey) Cursor {
	payload := cursorPayload{
		SortKey: key.SortKey.UTC().Format(time.RFC3339Nano),
		ID:      key.ID,
	}
	// Marshalling two strings cannot fail.
	raw, _ := json.Marshal(payload)
	return Cursor(base64.StdEncoding.EncodeToString(raw))
}

// DecodeCursor reverses EncodeCursor.
func DecodeCursor(c Cursor) (CursorKey, error) {
	raw, err := base64.StdEncoding.DecodeString(string(c))
	if err != nil {
		return CursorKey{}, &MalformedCursorError{Cursor: c, Err: err}
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()

	var payload cursorPayload
	if err := decoder.Decode(&payload); err != nil {
		return CursorKey{}, &MalformedCursorError{Cursor: c, Err: err}
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return CursorKey{}, &MalformedCursorError{Cursor: c, Err: errTrailingData}
	}
	if payload.ID == "" {
		return CursorKey{}, &MalformedCursorError{Cursor: c, Err: errMissingID}
	}

	sortKey, err := time.Parse(time.RFC3339Nano, payload.SortKey)
	if err != nil {
		return CursorKey{}, &MalformedCursorError{Cursor: c, Err: err}
	}

	return CursorKey{SortKey: sortKey.UTC(), ID: payload.ID}, nil
}
