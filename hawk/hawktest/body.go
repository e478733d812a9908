package hawktest

import (
	"bytes"
	"io"
	"net/http"
)

// readBody reads r.Body and replaces it so the wrapped handler can read it
// again.
func readBody(r *http.Request) []byte {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(data))
	return data
}
