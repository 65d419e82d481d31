package response

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/url"
	"sort"
)

// BodyKind classifies a response body so that serialisation is an explicit
// decision instead of a runtime type inspection.
type BodyKind int

const (
	// KindNone is an absent body.
	KindNone BodyKind = iota
	// KindText is a UTF-8 string.
	KindText
	// KindBytes is a binary buffer.
	KindBytes
	// KindStream is an io.Reader consumed lazily by the caller.
	KindStream
	// KindForm is multipart/form-data built from url.Values.
	KindForm
	// KindSearchParams is application/x-www-form-urlencoded.
	KindSearchParams
	// KindStructured is any other value, serialised as JSON.
	KindStructured
)

var kindNames = map[BodyKind]string{
	KindNone:         "none",
	KindText:         "text",
	KindBytes:        "bytes",
	KindStream:       "stream",
	KindForm:         "form",
	KindSearchParams: "search-params",
	KindStructured:   "structured",
}

func (k BodyKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Body is a classified response body. The zero value is an absent body.
type Body struct {
	kind   BodyKind
	text   string
	data   []byte
	stream io.Reader
	values url.Values
	value  any
}

// Text returns a text body.
func Text(s string) Body { return Body{kind: KindText, text: s} }

// Bytes returns a binary body.
func Bytes(b []byte) Body { return Body{kind: KindBytes, data: b} }

// Stream returns a body read from r. The response never buffers it.
func Stream(r io.Reader) Body { return Body{kind: KindStream, stream: r} }

// Form returns a multipart/form-data body with one field per value.
func Form(v url.Values) Body { return Body{kind: KindForm, values: v} }

// SearchParams returns a URL-encoded form body.
func SearchParams(v url.Values) Body { return Body{kind: KindSearchParams, values: v} }

// JSON returns a structured body that is serialised with encoding/json.
func JSON(v any) Body { return Body{kind: KindStructured, value: v} }

// Auto classifies v: nil is absent, strings are text, byte slices are bytes,
// url.Values are search params, readers are streams, a Body is kept as is and
// anything else is structured.
func Auto(v any) Body {
	switch x := v.(type) {
	case nil:
		return Body{}
	case Body:
		return x
	case string:
		return Text(x)
	case []byte:
		return Bytes(x)
	case url.Values:
		return SearchParams(x)
	case io.Reader:
		return Stream(x)
	default:
		return JSON(x)
	}
}

// Kind returns the classification of b.
func (b Body) Kind() BodyKind { return b.kind }

// encoded is a body ready to be attached to an *http.Response.
type encoded struct {
	reader      io.Reader
	data        []byte
	buffered    bool
	length      int64
	contentType string
}

// encode serialises b. contentType is the type a fetch Response would infer
// for the body kind; structured bodies report application/json.
func (b Body) encode() (encoded, error) {
	switch b.kind {
	case KindNone:
		return encoded{buffered: true}, nil
	case KindText:
		return bufferedBody([]byte(b.text), "text/plain;charset=UTF-8"), nil
	case KindBytes:
		return bufferedBody(b.data, ""), nil
	case KindStream:
		return encoded{reader: b.stream, length: -1}, nil
	case KindSearchParams:
		return bufferedBody([]byte(b.values.Encode()), "application/x-www-form-urlencoded;charset=UTF-8"), nil
	case KindForm:
		return encodeForm(b.values)
	default:
		raw, err := json.Marshal(b.value)
		if err != nil {
			return encoded{}, err
		}
		return bufferedBody(raw, ContentTypeJSON), nil
	}
}

func bufferedBody(data []byte, contentType string) encoded {
	return encoded{
		reader:      bytes.NewReader(data),
		data:        data,
		buffered:    true,
		length:      int64(len(data)),
		contentType: contentType,
	}
}

func encodeForm(values url.Values) (encoded, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range values[k] {
			if err := w.WriteField(k, v); err != nil {
				return encoded{}, err
			}
		}
	}
	if err := w.Close(); err != nil {
		return encoded{}, err
	}

	return bufferedBody(buf.Bytes(), w.FormDataContentType()), nil
}

