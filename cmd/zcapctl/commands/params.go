package commands

import (
	"encoding/json"

	"github.com/teranos/zcap/errors"
)

// parseParameters decodes a --parameters flag value, a JSON object, into
// the map shape InvokeCapability expects. An empty string means no
// parameters were supplied.
func parseParameters(raw string) (map[string]interface{}, error) {
	if raw == "" {
		return nil, nil
	}
	var params map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, errors.Wrap(err, "--parameters must be a JSON object")
	}
	return params, nil
}
