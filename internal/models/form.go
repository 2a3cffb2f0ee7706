package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldValue is a single submitted form value kept as text. JSON strings, numbers and
// booleans all decode into their literal text so one coercion path serves every
// content type; JSON null decodes to the empty value.
type FieldValue struct {
	Text    string `form:"-"`
	Present bool   `form:"-"`
}

// Value returns a present FieldValue holding s.
func Value(s string) FieldValue {
	return FieldValue{Text: s, Present: true}
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = FieldValue{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}
	if bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")) {
		*v = Value(string(data))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("form value must be a string, number or boolean")
	}
	*v = Value(n.String())
	return nil
}

// UnmarshalParam lets gin's form binding fill a FieldValue.
func (v *FieldValue) UnmarshalParam(param string) error {
	*v = Value(param)
	return nil
}

// FieldList is a repeatable form field. JSON accepts either a single value or an array.
type FieldList []string

func (l *FieldList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var items []FieldValue
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make(FieldList, 0, len(items))
		for _, item := range items {
			out = append(out, item.Text)
		}
		*l = out
		return nil
	}
	var single FieldValue
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = FieldList{single.Text}
	return nil
}

// ProjectForm is the raw project field set as submitted. Nothing here is validated;
// the project service coerces only the fields the caller may write.
type ProjectForm struct {
	Title          FieldValue `json:"title" form:"title"`
	Description    FieldValue `json:"description" form:"description"`
	Price          FieldValue `json:"price" form:"price"`
	CompletedTasks FieldValue `json:"completedTasks" form:"completedTasks"`
	StartDate      FieldValue `json:"startDate" form:"startDate"`
	EndDate        FieldValue `json:"endDate" form:"endDate"`
	Team           FieldList  `json:"team" form:"team"`
	Archived       FieldValue `json:"archived" form:"archived"`
}
