package taskfmt

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParamTypes are the accepted values of a paramschema "type".
var ParamTypes = []string{"string", "integer", "number", "file", "boolean", "url"}

// decodeList parses text as a YAML list of mappings. An empty document or
// null yields a nil list.
func decodeList(text, what string, check func(map[string]any) error) ([]map[string]any, error) {
	var raw any
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", what, err)
	}
	if raw == nil {
		return nil, nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s is not list or none: %v", what, raw)
	}

	list := make([]map[string]any, 0, len(items))
	for _, item := range items {
		elem, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s element is not a mapping: %v", what, item)
		}
		if err := check(elem); err != nil {
			return nil, err
		}
		list = append(list, elem)
	}
	return list, nil
}

func validateParamField(elem map[string]any) error {
	if err := requireString(elem, "name"); err != nil {
		return err
	}
	return requireString(elem, "value")
}

func validateParamSchemaField(elem map[string]any) error {
	if err := requireString(elem, "name"); err != nil {
		return err
	}
	v, ok := elem["type"]
	if !ok {
		return fmt.Errorf("type is not defined: %v", elem)
	}
	s, _ := v.(string)
	for _, t := range ParamTypes {
		if s == t {
			return nil
		}
	}
	return fmt.Errorf("unexpected type: %v", v)
}

func requireString(elem map[string]any, key string) error {
	v, ok := elem[key]
	if !ok {
		return fmt.Errorf("%s is not defined: %v", key, elem)
	}
	if _, ok := v.(string); !ok {
		return fmt.Errorf("%s is not str: %v", key, v)
	}
	return nil
}

func requireBool(elem map[string]any, key string) error {
	v, ok := elem[key]
	if !ok {
		return fmt.Errorf("%s is not defined: %v", key, elem)
	}
	if _, ok := v.(bool); !ok {
		return fmt.Errorf("%s is not bool: %v", key, v)
	}
	return nil
}

func requireInt(elem map[string]any, key string) (int, error) {
	v, ok := elem[key]
	if !ok {
		return 0, fmt.Errorf("%s is not defined: %v", key, elem)
	}
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("%s is not int: %v", key, v)
	}
	return n, nil
}
