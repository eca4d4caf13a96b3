package vend

import (
	"bytes"
	"encoding/json"
)

// NormalizeResponse flattens the backend envelopes into the shape callers
// expect. It works on decoded JSON values:
//
//   - nil is returned unchanged;
//   - a paginated envelope ({count, results}) whose results is a
//     {success, data} wrapper is rebuilt with results set to the inner data;
//     any other paginated envelope is returned unchanged;
//   - a {success, data} wrapper is unwrapped one level;
//   - everything else is returned unchanged.
//
// Only one level is unwrapped. Deeper nesting is returned as is.
func NormalizeResponse(raw any) any {
	obj, ok := raw.(map[string]any)
	if !ok {
		return raw
	}

	if hasKeys(obj, "count", "results") {
		results, ok := obj["results"].(map[string]any)
		if ok && hasKeys(results, "success", "data") {
			return map[string]any{
				"count":    obj["count"],
				"next":     obj["next"],
				"previous": obj["previous"],
				"results":  results["data"],
			}
		}
		return raw
	}

	if hasKeys(obj, "success", "data") {
		return obj["data"]
	}

	return raw
}

// NormalizeJSON applies the NormalizeResponse contract to an undecoded body.
// Unrecognized shapes are returned unchanged; only invalid JSON objects
// produce an error.
func NormalizeJSON(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return raw, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, ErrMalformedResponse
	}

	if hasRawKeys(obj, "count", "results") {
		results, ok := rawObject(obj["results"])
		if ok && hasRawKeys(results, "success", "data") {
			page := map[string]json.RawMessage{
				"count":    rawOrNull(obj, "count"),
				"next":     rawOrNull(obj, "next"),
				"previous": rawOrNull(obj, "previous"),
				"results":  rawOrNull(results, "data"),
			}
			out, err := json.Marshal(page)
			if err != nil {
				return nil, ErrMalformedResponse
			}
			return out, nil
		}
		return raw, nil
	}

	if hasRawKeys(obj, "success", "data") {
		return obj["data"], nil
	}

	return raw, nil
}

func hasKeys(obj map[string]any, keys ...string) bool {
	for _, key := range keys {
		if _, ok := obj[key]; !ok {
			return false
		}
	}
	return true
}

func hasRawKeys(obj map[string]json.RawMessage, keys ...string) bool {
	for _, key := range keys {
		if _, ok := obj[key]; !ok {
			return false
		}
	}
	return true
}

func rawObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func rawOrNull(obj map[string]json.RawMessage, key string) json.RawMessage {
	if v, ok := obj[key]; ok && len(v) > 0 {
		return v
	}
	return json.RawMessage("null")
}
