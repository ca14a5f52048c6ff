package response

import (
	"encoding/json"
	"net/http"

	"village-server/internal/shared/errors"
)

const maxBodyBytes = 1 << 20

// DecodeJSON reads a size-limited JSON body into dst, rejecting unknown
// fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.WrapValidation("invalid JSON in request body", err)
	}
	return nil
}
