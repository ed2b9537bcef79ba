package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// attributes - JSONB-колонка с картой атрибутов объявления.
type attributes map[string]string

func (a attributes) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]string(a))
}

func (a *attributes) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*a = attributes{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("attributes: unsupported type %T", src)
	}
	out := map[string]string{}
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("attributes: %w", err)
	}
	*a = out
	return nil
}
