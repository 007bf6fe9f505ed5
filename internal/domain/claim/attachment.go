package claim

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
)

var (
	ErrMalformedAttachment = errors.New("malformed attachment")
	ErrAttachmentTooLarge  = errors.New("attachment exceeds maximum allowed size")
)

const defaultMimeType = "application/octet-stream"

// Attachment is a decoded file: the original name, its MIME type and the raw
// bytes. Base64 only appears in AttachmentRef.
type Attachment struct {
	FileName string
	MimeType string
	Data     []byte
}

// AttachmentRef is an attachment in the form the case record stores it: a
// JSON envelope {"name","type","data"} whose data is a base64 data URL.
type AttachmentRef string

type envelope struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
}

// ReadAttachment reads at most maxBytes from r into an Attachment. An empty
// mimeType is guessed from the file extension.
func ReadAttachment(name, mimeType string, r io.Reader, maxBytes int64) (Attachment, error) {
	if strings.TrimSpace(name) == "" {
		return Attachment{}, ErrEmptyFileName
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return Attachment{}, fmt.Errorf("reading %s: %w", name, err)
	}
	if int64(len(data)) > maxBytes {
		return Attachment{}, fmt.Errorf("%w: %s", ErrAttachmentTooLarge, name)
	}
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(name))
	}
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	return Attachment{FileName: name, MimeType: mimeType, Data: data}, nil
}

// EncodeAttachment converts a decoded attachment to its stored form.
func EncodeAttachment(a Attachment) (AttachmentRef, error) {
	if strings.TrimSpace(a.FileName) == "" {
		return "", ErrEmptyFileName
	}
	mt := a.MimeType
	if mt == "" {
		mt = defaultMimeType
	}
	return encodeEnvelope(envelope{
		Name: a.FileName,
		Type: mt,
		Data: "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(a.Data),
	})
}

func encodeEnvelope(env envelope) (AttachmentRef, error) {
	b, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("encoding attachment %s: %w", env.Name, err)
	}
	return AttachmentRef(b), nil
}

func (r AttachmentRef) envelope() (envelope, error) {
	var env envelope
	if err := json.Unmarshal([]byte(r), &env); err != nil {
		return envelope{}, fmt.Errorf("%w: %v", ErrMalformedAttachment, err)
	}
	return env, nil
}

// Decode parses the envelope and its data URL. It fails on a missing name,
// a payload that is not a base64 data URL, or invalid base64.
func (r AttachmentRef) Decode() (Attachment, error) {
	env, err := r.envelope()
	if err != nil {
		return Attachment{}, err
	}
	if strings.TrimSpace(env.Name) == "" {
		return Attachment{}, fmt.Errorf("%w: missing file name", ErrMalformedAttachment)
	}
	mt, payload, ok := splitDataURL(env.Data)
	if !ok {
		return Attachment{}, fmt.Errorf("%w: %s: payload is not a base64 data URL", ErrMalformedAttachment, env.Name)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Attachment{}, fmt.Errorf("%w: %s: %v", ErrMalformedAttachment, env.Name, err)
	}
	if env.Type != "" {
		mt = env.Type
	}
	if mt == "" {
		mt = defaultMimeType
	}
	return Attachment{FileName: env.Name, MimeType: mt, Data: data}, nil
}

func splitDataURL(s string) (mimeType, payload string, ok bool) {
	header, payload, found := strings.Cut(s, ",")
	if !found || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return "", "", false
	}
	mimeType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	return mimeType, payload, true
}

// Recover extracts bytes from a reference that Decode rejected, tolerating
// whitespace and missing padding in the base64. For a readable envelope the
// payload is the data URL after its first comma; otherwise it is the text
// between the first and second comma of the raw reference.
func (r AttachmentRef) Recover() ([]byte, bool) {
	var raw string
	if env, err := r.envelope(); err == nil {
		if _, after, found := strings.Cut(env.Data, ","); found {
			raw = after
		} else {
			raw = env.Data
		}
	} else {
		parts := strings.Split(string(r), ",")
		if len(parts) < 2 {
			return nil, false
		}
		raw = parts[1]
	}
	payload := strings.Map(func(c rune) rune {
		switch c {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return c
	}, raw)
	if payload == "" {
		return nil, false
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if data, err := enc.DecodeString(payload); err == nil && len(data) > 0 {
			return data, true
		}
	}
	if trimmed := strings.TrimRight(payload, "="); trimmed != payload {
		if data, err := base64.RawStdEncoding.DecodeString(trimmed); err == nil && len(data) > 0 {
			return data, true
		}
	}
	return nil, false
}

// Name returns the stored file name, or "Unknown file".
func (r AttachmentRef) Name() string {
	env, err := r.envelope()
	if err != nil || env.Name == "" {
		return "Unknown file"
	}
	return env.Name
}

// MimeType returns the stored MIME type, or application/octet-stream.
func (r AttachmentRef) MimeType() string {
	env, err := r.envelope()
	if err != nil || env.Type == "" {
		return defaultMimeType
	}
	return env.Type
}

// Rename replaces the base name and keeps the extension of the stored name.
func (r AttachmentRef) Rename(newBase string) (AttachmentRef, error) {
	newBase = strings.TrimSpace(newBase)
	if newBase == "" {
		return "", ErrEmptyFileName
	}
	env, err := r.envelope()
	if err != nil {
		return "", err
	}
	env.Name = newBase + extension(env.Name)
	return encodeEnvelope(env)
}

// extension returns ".ext" for names with a dot after the first character.
func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}
