package model

import (
	"bytes"
	"encoding/json"
)

// ErrorRecord stands in for a record whose fetch or analysis step failed.
// It encodes as {"error": "<message>"}.
type ErrorRecord struct {
	Message string `json:"error"`
}

func (e ErrorRecord) Error() string {
	return e.Message
}

// Result is either a value or an ErrorRecord. Consumers must check IsErr
// before calling Value.
type Result[T any] struct {
	value T
	fail  *ErrorRecord
}

func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

func Fail[T any](message string) Result[T] {
	return Result[T]{fail: &ErrorRecord{Message: message}}
}

func (r Result[T]) IsErr() bool {
	return r.fail != nil
}

// Value returns the wrapped value, or the zero value for a failed result.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the ErrorRecord of a failed result and nil otherwise.
func (r Result[T]) Err() *ErrorRecord {
	return r.fail
}

// Message returns the failure message, empty for ok results.
func (r Result[T]) Message() string {
	if r.fail == nil {
		return ""
	}
	return r.fail.Message
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.fail != nil {
		return json.Marshal(r.fail)
	}
	return json.Marshal(r.value)
}

func (r *Result[T]) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(data, &probe); err != nil {
			return err
		}
		if raw, ok := probe["error"]; ok && len(probe) == 1 {
			var msg string
			if err := json.Unmarshal(raw, &msg); err != nil {
				return err
			}
			*r = Fail[T](msg)
			return nil
		}
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ok(v)
	return nil
}

// Partition splits results into values and failures, keeping order.
func Partition[T any](results []Result[T]) ([]T, []ErrorRecord) {
	var values []T
	var failures []ErrorRecord
	for _, r := range results {
		if r.IsErr() {
			failures = append(failures, *r.fail)
			continue
		}
		values = append(values, r.value)
	}
	return values, failures
}
