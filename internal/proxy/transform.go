package proxy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
)

// Transform selects how a request body is reshaped before it goes upstream.
type Transform int

const (
	// Passthrough copies the body bytes unmodified. The default.
	Passthrough Transform = iota

	// JSONToForm re-encodes a flat JSON object as
	// application/x-www-form-urlencoded. Used for the auth routes, where
	// the browser speaks JSON but the upstream expects form fields.
	JSONToForm

	// MultipartRewrite re-writes multipart/form-data part by part, renaming
	// form fields to the names the upstream expects while preserving file
	// names and part content types. Used for attachment uploads.
	MultipartRewrite
)

// maxJSONBody caps bodies decoded for the JSONToForm transform. Auth
// payloads are tiny; anything near this limit is not a login request.
const maxJSONBody = 1 << 20

// transformedBody is the result of applying a Transform to a request body.
type transformedBody struct {
	reader        io.Reader
	contentType   string
	contentLength int64 // -1 when unknown
}

// applyTransform reshapes the inbound request body according to the
// transform. Multipart bodies are bounded by maxUploadBytes; exceeding it
// returns ErrBodyTooLarge before any upstream contact.
func applyTransform(r *http.Request, transform Transform, fieldRenames map[string]string, maxUploadBytes int64) (*transformedBody, error) {
	switch transform {
	case JSONToForm:
		return jsonToForm(r)
	case MultipartRewrite:
		return multipartRewrite(r, fieldRenames, maxUploadBytes)
	default:
		return &transformedBody{
			reader:        r.Body,
			contentType:   r.Header.Get("Content-Type"),
			contentLength: r.ContentLength,
		}, nil
	}
}

// jsonToForm decodes a flat JSON object and re-encodes it as URL-encoded
// form fields. Nested objects have no form representation and are rejected.
func jsonToForm(r *http.Request) (*transformedBody, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var fields map[string]interface{}
	if err := decoder.Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	values := url.Values{}
	// Sorted for a deterministic encoding.
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch value := fields[key].(type) {
		case nil:
			// Omitted, matching how browsers skip empty optional fields.
		case string:
			values.Add(key, value)
		case bool, json.Number:
			values.Add(key, fmt.Sprintf("%v", value))
		case []interface{}:
			for _, item := range value {
				switch item := item.(type) {
				case string:
					values.Add(key, item)
				case bool, json.Number:
					values.Add(key, fmt.Sprintf("%v", item))
				default:
					return nil, fmt.Errorf("%w: field %q has no form encoding", ErrMalformedBody, key)
				}
			}
		default:
			return nil, fmt.Errorf("%w: field %q has no form encoding", ErrMalformedBody, key)
		}
	}

	encoded := values.Encode()
	return &transformedBody{
		reader:        bytes.NewReader([]byte(encoded)),
		contentType:   "application/x-www-form-urlencoded",
		contentLength: int64(len(encoded)),
	}, nil
}

// multipartRewrite re-encodes a multipart body with renamed form fields.
// The whole upload is buffered so the upstream request carries an accurate
// Content-Length; the buffer is bounded by maxUploadBytes.
func multipartRewrite(r *http.Request, fieldRenames map[string]string, maxUploadBytes int64) (*transformedBody, error) {
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" || params["boundary"] == "" {
		return nil, fmt.Errorf("%w: expected multipart/form-data", ErrMalformedBody)
	}

	if maxUploadBytes > 0 && r.ContentLength > maxUploadBytes {
		return nil, ErrBodyTooLarge
	}

	body := io.Reader(r.Body)
	if maxUploadBytes > 0 {
		body = &boundedReader{r: r.Body, remaining: maxUploadBytes + 1}
	}

	reader := multipart.NewReader(body, params["boundary"])

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, ErrBodyTooLarge) {
				return nil, ErrBodyTooLarge
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}

		name := part.FormName()
		if renamed, ok := fieldRenames[name]; ok {
			name = renamed
		}

		header := make(textproto.MIMEHeader)
		if fileName := part.FileName(); fileName != "" {
			header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, name, fileName))
			if partType := part.Header.Get("Content-Type"); partType != "" {
				header.Set("Content-Type", partType)
			}
		} else {
			header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q`, name))
		}

		dst, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("rewrite multipart part: %w", err)
		}
		if _, err := io.Copy(dst, part); err != nil {
			if errors.Is(err, ErrBodyTooLarge) {
				return nil, ErrBodyTooLarge
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}

	return &transformedBody{
		reader:        bytes.NewReader(buf.Bytes()),
		contentType:   writer.FormDataContentType(),
		contentLength: int64(buf.Len()),
	}, nil
}

// boundedReader fails with ErrBodyTooLarge once more than the allowed number
// of bytes has been read, instead of silently truncating like io.LimitReader.
type boundedReader struct {
	r         io.Reader
	remaining int64
}

func (b *boundedReader) Read(p []byte) (int, error) {
	if b.remaining <= 0 {
		return 0, ErrBodyTooLarge
	}
	if int64(len(p)) > b.remaining {
		p = p[:b.remaining]
	}
	n, err := b.r.Read(p)
	b.remaining -= int64(n)
	return n, err
}
