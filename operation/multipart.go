package operation

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// encodeMultipart writes form fields in declaration order, followed by one
// part per file. Every file part carries the parameter name, its own
// filename and its content type.
func encodeMultipart(boundary string, keys []string, form url.Values, files []filePart) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(boundary); err != nil {
		return nil, err
	}

	for _, key := range keys {
		for _, v := range form[key] {
			if err := w.WriteField(key, v); err != nil {
				return nil, err
			}
		}
	}

	for _, fp := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			`form-data; name="`+quoteEscaper.Replace(fp.param)+`"; filename="`+quoteEscaper.Replace(fp.file.Filename)+`"`)
		h.Set("Content-Type", fp.file.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(fp.file.Data); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
