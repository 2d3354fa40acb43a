package qa

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

// Value stores Answers as a JSON array.
func (a Answers) Value() (driver.Value, error) {
	if a == nil {
		a = Answers{}
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling answers")
	}
	return string(b), nil
}

// Scan loads Answers from a JSON array column.
func (a *Answers) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*a = Answers{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("scanning answers: unsupported type %T", src)
	}
	var answers Answers
	if err := json.Unmarshal(data, &answers); err != nil {
		return errors.Wrap(err, "unmarshalling answers")
	}
	if answers == nil {
		answers = Answers{}
	}
	*a = answers
	return nil
}
