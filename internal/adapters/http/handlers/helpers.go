package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/longregen/improv/internal/adapters/http/dto"
	"github.com/longregen/improv/internal/adapters/http/encoding"
	"github.com/longregen/improv/internal/domain"
)

const maxBodyBytes = 1024 * 1024

// respond writes data as JSON, or MessagePack when the client asks for it
func respond(w http.ResponseWriter, r *http.Request, data interface{}, status int) {
	if encoding.NegotiateContentType(r) == encoding.ContentTypeMsgpack {
		encoding.WriteMsgpack(w, status, data)
		return
	}
	respondJSON(w, data, status)
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes the fixed failure body
func respondError(w http.ResponseWriter, r *http.Request, message string, status int) {
	respond(w, r, dto.NewErrorResponse(message), status)
}

// decodeBody decodes a JSON or MessagePack request body. A body of zero
// bytes yields the zero value. Anything else must be exactly one complete,
// non-null value, or the error wraps domain.ErrMalformedRequest.
func decodeBody[T any](w http.ResponseWriter, r *http.Request) (*T, error) {
	var req T
	if r.Body == nil || r.Body == http.NoBody {
		return &req, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, malformed(err)
	}
	if len(data) == 0 {
		return &req, nil
	}

	if encoding.IsMsgpackBody(r) {
		err = encoding.DecodeMsgpack(data, &req)
	} else {
		err = decodeJSON(data, &req)
	}
	if err != nil {
		return nil, malformed(err)
	}
	return &req, nil
}

// decodeJSON accepts a single JSON value followed only by whitespace.
func decodeJSON(data []byte, target interface{}) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("top-level null")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(target); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("trailing data after JSON value")
	}
	return nil
}

func malformed(err error) error {
	return domain.NewDomainError(domain.ErrMalformedRequest, fmt.Sprintf("decode body: %v", err))
}
