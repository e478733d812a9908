package logger

import "time"

// Standard field key constants for structured logging.
const (
	FieldClient     = "client"
	FieldComponent  = "component"
	FieldMethod     = "method"
	FieldURL        = "url"
	FieldStatus     = "status"
	FieldAttempt    = "attempt"
	FieldDelay      = "delay_ms"
	FieldElapsed    = "elapsed_ms"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldClientID   = "client_id"
	FieldServiceURL = "service_url"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	log.Debug("attempt", logger.Fields("method", "GET", "attempt", 2))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// DurationFields creates fields for a timed operation.
func DurationFields(d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldDuration: d.Milliseconds(),
	}
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}
