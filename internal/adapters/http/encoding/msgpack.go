package encoding

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

const ContentTypeMsgpack = "application/msgpack"
const ContentTypeJSON = "application/json"

// NegotiateContentType checks the Accept header and returns the preferred content type
func NegotiateContentType(r *http.Request) string {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return ContentTypeJSON
	}

	if strings.Contains(accept, ContentTypeMsgpack) {
		return ContentTypeMsgpack
	}

	return ContentTypeJSON
}

// IsMsgpackBody reports whether the request body is declared as MessagePack.
func IsMsgpackBody(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == ContentTypeMsgpack
}

// WriteMsgpack writes a MessagePack response with the given status code.
// Struct fields are keyed by their json tag so both encodings share field names.
func WriteMsgpack(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", ContentTypeMsgpack)
	w.WriteHeader(status)

	encoder := msgpack.NewEncoder(w)
	encoder.SetCustomStructTag("json")
	return encoder.Encode(data)
}

// DecodeMsgpack decodes exactly one non-nil MessagePack value from data.
// Truncated input, a top-level nil and trailing bytes are errors.
func DecodeMsgpack(data []byte, target interface{}) error {
	if len(data) > 0 && data[0] == msgpcode.Nil {
		return errors.New("msgpack: top-level nil")
	}
	rd := bytes.NewReader(data)
	decoder := msgpack.NewDecoder(rd)
	decoder.SetCustomStructTag("json")
	if err := decoder.Decode(target); err != nil {
		return err
	}
	if rd.Len() > 0 {
		return errors.New("msgpack: trailing data after value")
	}
	return nil
}
