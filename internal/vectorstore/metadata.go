package vectorstore

import "encoding/json"

// encodeMetadata serializes a flat scalar metadata map to JSON text for
// storage. Per spec.md §4.2/§9, composite values (lists, nested objects)
// must already have been JSON-stringified by the caller before reaching
// this layer — this function only serializes the outer map.
func encodeMetadata(md map[string]interface{}) (string, error) {
	if md == nil {
		return "{}", nil
	}
	b, err := json.Marshal(md)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeMetadata(s string) (map[string]interface{}, error) {
	if s == "" {
		return map[string]interface{}{}, nil
	}
	var md map[string]interface{}
	if err := json.Unmarshal([]byte(s), &md); err != nil {
		return nil, err
	}
	return md, nil
}
