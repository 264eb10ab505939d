package parser

import (
	"encoding/json"

	"github.com/kamilpajak/pulse/pkg/models"
)

// jsonObject holds the raw members of a JSON object. Anything that is not an
// object decodes to an empty one.
type jsonObject map[string]json.RawMessage

func decodeObject(data []byte) jsonObject {
	var obj jsonObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	return obj
}

// field decodes member key into dst. A missing member or a value of the
// wrong type leaves dst unchanged.
func field[T any](obj jsonObject, key string, dst *T) {
	raw, ok := obj[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err == nil {
		*dst = v
	}
}

// listField decodes member key as an array, keeping the zero value for
// elements that fail to decode. A non-array value yields nil.
func listField[T any](obj jsonObject, key string) []T {
	var raws []json.RawMessage
	field(obj, key, &raws)
	if raws == nil {
		return nil
	}
	items := make([]T, len(raws))
	for i, raw := range raws {
		_ = json.Unmarshal(raw, &items[i])
	}
	return items
}

// UnmarshalJSON never fails. A status of the wrong type is left empty and
// rejected later by validateStatuses.
func (a *playwrightAttempt) UnmarshalJSON(data []byte) error {
	obj := decodeObject(data)

	var status string
	field(obj, "status", &status)

	*a = playwrightAttempt{
		Status:      models.AttemptStatus(status),
		Errors:      listField[playwrightError](obj, "errors"),
		Stdout:      listField[playwrightStdEntry](obj, "stdout"),
		Stderr:      listField[playwrightStdEntry](obj, "stderr"),
		Attachments: listField[playwrightAttachment](obj, "attachments"),
	}
	field(obj, "duration", &a.Duration)
	field(obj, "error", &a.Error)
	field(obj, "workerIndex", &a.WorkerIndex)
	field(obj, "parallelIndex", &a.ParallelIndex)
	field(obj, "retry", &a.Retry)
	field(obj, "startTime", &a.StartTime)
	return nil
}

func (e *playwrightError) UnmarshalJSON(data []byte) error {
	obj := decodeObject(data)
	*e = playwrightError{}
	field(obj, "message", &e.Message)
	field(obj, "value", &e.Value)
	field(obj, "stack", &e.Stack)
	return nil
}

func (s *playwrightStdEntry) UnmarshalJSON(data []byte) error {
	obj := decodeObject(data)
	*s = playwrightStdEntry{}
	field(obj, "text", &s.Text)
	return nil
}

func (a *playwrightAttachment) UnmarshalJSON(data []byte) error {
	obj := decodeObject(data)
	*a = playwrightAttachment{}
	field(obj, "name", &a.Name)
	field(obj, "contentType", &a.ContentType)
	field(obj, "path", &a.Path)
	return nil
}
