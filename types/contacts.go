package types

import (
	"fmt"
	"regexp"
)

const (
	FieldCodePhone = "PHONE"
	FieldCodeEmail = "EMAIL"

	contactPlaceholderName = "No contact!"
)

type Contact struct {
	Id                 int64              `json:"id"`
	Name               string             `json:"name"`
	FirstName          string             `json:"first_name,omitempty"`
	LastName           string             `json:"last_name,omitempty"`
	ResponsibleUserId  int64              `json:"responsible_user_id,omitempty"`
	CustomFieldsValues []CustomFieldValue `json:"custom_fields_values,omitempty"`
}

type CustomFieldValue struct {
	FieldId   int64              `json:"field_id"`
	FieldName string             `json:"field_name"`
	FieldCode string             `json:"field_code,omitempty"`
	FieldType string             `json:"field_type,omitempty"`
	Values    []CustomFieldEntry `json:"values"`
}

type CustomFieldEntry struct {
	// Value is a string for text/phone fields and a number for numeric ones.
	Value    any    `json:"value"`
	EnumId   int64  `json:"enum_id,omitempty"`
	EnumCode string `json:"enum_code,omitempty"`
}

// ContactPlaceholder is shown instead of a contact that could not be loaded.
func ContactPlaceholder() Contact {
	return Contact{Name: contactPlaceholderName}
}

func (c Contact) IsPlaceholder() bool {
	return c.Id == 0 && c.Name == contactPlaceholderName
}

// Field returns the first value of the custom field with the given code.
func (c Contact) Field(code string) string {
	for _, f := range c.CustomFieldsValues {
		if f.FieldCode != code || len(f.Values) == 0 || f.Values[0].Value == nil {
			continue
		}
		return fmt.Sprint(f.Values[0].Value)
	}
	return ""
}

func (c Contact) Phone() string {
	return c.Field(FieldCodePhone)
}

var phoneRe = regexp.MustCompile(`^(\+\d{1,3})(\d{3})(\d{3})(\d{2})(\d{2})$`)

// FormatPhone splits a compact international number like +79991234567
// into "+7 999 123 45 67". Anything else is returned unchanged.
func FormatPhone(phone string) string {
	m := phoneRe.FindStringSubmatch(phone)
	if m == nil {
		return phone
	}
	return m[1] + " " + m[2] + " " + m[3] + " " + m[4] + " " + m[5]
}
