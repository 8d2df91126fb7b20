// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Field names a vacancy attribute. The vocabulary is closed: the parser only
// ever produces the constants below.
type Field string

const (
	FieldVacancy                  Field = "vacancy"
	FieldClient                   Field = "client"
	FieldJobTitle                 Field = "job_title"
	FieldJobType                  Field = "job_type"
	FieldLocation                 Field = "location"
	FieldSalary                   Field = "salary"
	FieldFutureMeritLocations     Field = "future_merit_locations"
	FieldOfficeArrangement        Field = "office_arrangement"
	FieldOfficeArrangementDetails Field = "office_arrangement_details"
	FieldClassification           Field = "classification"
	FieldPositionNumber           Field = "position_number"
	FieldAgencyWebsite            Field = "agency_website"
	FieldPositionContact          Field = "position_contact"
	FieldContactNumber            Field = "contact_number"
	FieldAgencyRecruitmentSite    Field = "agency_recruitment_site"
)

// AllFields lists the vocabulary in the order fields appear on a gazette page.
var AllFields = []Field{
	FieldVacancy,
	FieldClient,
	FieldJobTitle,
	FieldJobType,
	FieldLocation,
	FieldSalary,
	FieldFutureMeritLocations,
	FieldOfficeArrangement,
	FieldOfficeArrangementDetails,
	FieldClassification,
	FieldPositionNumber,
	FieldAgencyWebsite,
	FieldPositionContact,
	FieldContactNumber,
	FieldAgencyRecruitmentSite,
}

// Valid reports whether f belongs to the vocabulary.
func (f Field) Valid() bool {
	for _, known := range AllFields {
		if f == known {
			return true
		}
	}
	return false
}

// Vacancy is one job vacancy record. Fields keep the order in which they
// were first set, so encoded output is stable across runs. Setting a field
// a second time replaces its value without moving it.
type Vacancy struct {
	keys   []Field
	values map[Field]string
}

// NewVacancy returns an empty record.
func NewVacancy() Vacancy {
	return Vacancy{values: make(map[Field]string)}
}

// Set assigns value to field f.
func (v *Vacancy) Set(f Field, value string) {
	if v.values == nil {
		v.values = make(map[Field]string)
	}
	if _, ok := v.values[f]; !ok {
		v.keys = append(v.keys, f)
	}
	v.values[f] = value
}

// Get returns the value of field f and whether it was set.
func (v Vacancy) Get(f Field) (string, bool) {
	val, ok := v.values[f]
	return val, ok
}

// Value returns the value of field f, or "" when unset.
func (v Vacancy) Value(f Field) string {
	return v.values[f]
}

// Keys returns the set fields in first-seen order.
func (v Vacancy) Keys() []Field {
	out := make([]Field, len(v.keys))
	copy(out, v.keys)
	return out
}

// Map returns a copy of the record as a plain map.
func (v Vacancy) Map() map[string]string {
	m := make(map[string]string, len(v.keys))
	for _, k := range v.keys {
		m[string(k)] = v.values[k]
	}
	return m
}

// MarshalJSON encodes the record as a JSON object with keys in first-seen order.
func (v Vacancy) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range v.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(k))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key order.
func (v *Vacancy) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("vacancy: expected JSON object, got %v", tok)
	}

	*v = NewVacancy()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("vacancy: expected string key, got %v", tok)
		}
		if !Field(key).Valid() {
			return fmt.Errorf("vacancy: unknown field %q", key)
		}
		var val string
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("vacancy: field %s: %w", key, err)
		}
		v.Set(Field(key), val)
	}
	_, err = dec.Token()
	return err
}

// MarshalYAML encodes the record as a YAML mapping with keys in first-seen order.
func (v Vacancy) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range v.keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(k)},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.values[k]},
		)
	}
	return node, nil
}

// UnmarshalYAML decodes a YAML mapping, preserving key order.
func (v *Vacancy) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("vacancy: expected YAML mapping at line %d", node.Line)
	}
	*v = NewVacancy()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := Field(node.Content[i].Value)
		if !key.Valid() {
			return fmt.Errorf("vacancy: unknown field %q at line %d", key, node.Content[i].Line)
		}
		v.Set(key, node.Content[i+1].Value)
	}
	return nil
}
