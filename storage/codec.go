package storage

import (
	"encoding/json"
	"fmt"
)

func encode(value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("storage: encode value: %w", err)
	}
	return raw, nil
}

func decode(raw []byte, dst any) error {
	if dst == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("storage: decode value: %w", err)
	}
	return nil
}
