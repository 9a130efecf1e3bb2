package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v2"

	"github.com/near/near-cli-go/interactive"
)

// callArgs are function call arguments given as YAML or JSON and sent as JSON.
type callArgs struct {
	raw  string
	json []byte
}

func parseCallArgs(_ *interactive.Env, raw string) (callArgs, error) {
	if strings.TrimSpace(raw) == "" {
		return callArgs{raw: raw}, nil
	}
	var v interface{}
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return callArgs{}, fmt.Errorf("malformed arguments: %w", err)
	}
	encoded, err := marshalUniversalValue(v)
	if err != nil {
		return callArgs{}, err
	}
	return callArgs{raw: raw, json: encoded}, nil
}

func (a callArgs) String() string {
	return a.raw
}

// marshalKey encodes k as a JSON string.
func marshalKey(k interface{}) ([]byte, error) {
	switch key := k.(type) {
	case string:
		return json.Marshal(key)
	case []byte:
		if utf8.Valid(key) {
			return json.Marshal(string(key))
		}
		return json.Marshal(key)
	default:
		return json.Marshal(fmt.Sprint(key))
	}
}

// marshalUniversalValue wraps the JSON encoder to support the map[interface{}]interface{} values
// produced by the YAML decoder. Map keys are sorted.
func marshalUniversalValue(v interface{}) ([]byte, error) {
	switch val := v.(type) {
	case []interface{}:
		e := make([]string, 0, len(val))
		for _, item := range val {
			itemJSON, err := marshalUniversalValue(item)
			if err != nil {
				return nil, err
			}
			e = append(e, string(itemJSON))
		}
		return []byte(fmt.Sprintf("[%s]", strings.Join(e, ","))), nil
	case map[interface{}]interface{}:
		e := make([]string, 0, len(val))
		for k, item := range val {
			keyJSON, err := marshalKey(k)
			if err != nil {
				return nil, err
			}
			itemJSON, err := marshalUniversalValue(item)
			if err != nil {
				return nil, err
			}
			e = append(e, fmt.Sprintf("%s:%s", keyJSON, itemJSON))
		}
		sort.Strings(e)
		return []byte(fmt.Sprintf("{%s}", strings.Join(e, ","))), nil
	default:
		return json.Marshal(v)
	}
}
