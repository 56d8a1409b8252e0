package primitive

import (
	"fmt"
	"io"

	"github.com/erraggy/oasbind/internal/httputil"
)

// File is an uploaded file: its content plus the metadata sent with it.
// A File built by a Builder always carries a content type.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Kind implements Value.
func (f *File) Kind() Kind { return KindFile }

// Raw implements Value. It returns the file content.
func (f *File) Raw() any { return f.Data }

// NewFile creates a file from in-memory content.
func NewFile(filename string, data []byte) *File {
	return &File{Filename: filename, Data: data}
}

// ReadFile reads r to the end and wraps the content as a file. The reader is
// consumed here so the resulting request can be sent any number of times.
func ReadFile(filename, contentType string, r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return &File{Filename: filename, ContentType: contentType, Data: data}, nil
}

// toFile accepts *File, File, or a descriptor map with "data", "filename"
// and "content_type" (or "content-type") keys. Data may be []byte, string or
// an io.Reader.
func toFile(raw any) (*File, error) {
	var f *File
	switch v := raw.(type) {
	case *File:
		if v == nil {
			return nil, fmt.Errorf("file is nil")
		}
		cp := *v
		f = &cp
	case File:
		f = &v
	case map[string]any:
		desc, err := fileFromDescriptor(v)
		if err != nil {
			return nil, err
		}
		f = desc
	default:
		return nil, fmt.Errorf("expected a file, got %T", raw)
	}

	if f.ContentType == "" {
		f.ContentType = httputil.DefaultFileContentType
	}
	return f, nil
}

func fileFromDescriptor(m map[string]any) (*File, error) {
	f := &File{}
	f.Filename, _ = m["filename"].(string)
	if ct, ok := m["content_type"].(string); ok {
		f.ContentType = ct
	} else if ct, ok := m["content-type"].(string); ok {
		f.ContentType = ct
	}

	switch data := m["data"].(type) {
	case []byte:
		f.Data = data
	case string:
		f.Data = []byte(data)
	case io.Reader:
		b, err := io.ReadAll(data)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", f.Filename, err)
		}
		f.Data = b
	case nil:
		return nil, fmt.Errorf("file descriptor has no data")
	default:
		return nil, fmt.Errorf("unsupported file data %T", data)
	}
	return f, nil
}
