package pocat

import "fmt"

// Variants is the list of translations of a YAML entry. A single
// translation may be written as a plain string:
//
//	translations: Установка
//	translations: ["%d файл", "%d файла", "%d файлов"]
type Variants []string

// UnmarshalYAML allows translations to be given as a string or a list.
func (v *Variants) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = nil
		return nil
	case string:
		*v = Variants{t}
		return nil
	case []interface{}:
		var list []string
		if err := unmarshal(&list); err != nil {
			return err
		}
		*v = list
		return nil
	default:
		var s string
		if err := unmarshal(&s); err != nil {
			return fmt.Errorf("translations must be a string or a list of strings, got %T", raw)
		}
		*v = Variants{s}
		return nil
	}
}

// MarshalYAML writes a single translation as a plain string.
func (v Variants) MarshalYAML() (interface{}, error) {
	if len(v) == 1 {
		return v[0], nil
	}
	return []string(v), nil
}
