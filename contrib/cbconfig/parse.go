package cbconfig

import (
	"bytes"
	"encoding/json"
)

var hostPlaceholder = []byte("$HOST")

// ParseTerseConfig decodes a terse bucket configuration.  The server uses the
// $HOST placeholder to refer to the node which sent the configuration; it is
// substituted with sourceHostname unless that is empty.
func ParseTerseConfig(config []byte, sourceHostname string) (*TerseConfigJson, error) {
	if sourceHostname != "" {
		config = bytes.ReplaceAll(config, hostPlaceholder, []byte(sourceHostname))
	}

	var configOut *TerseConfigJson
	err := json.Unmarshal(config, &configOut)
	if err != nil {
		return nil, err
	}
	return configOut, nil
}

// IsNewerThan reports whether this configuration supersedes the revision
// identified by rev and revEpoch.  Epochs take precedence over revisions.
func (c *TerseConfigJson) IsNewerThan(revEpoch int, rev int) bool {
	if c.RevEpoch != revEpoch {
		return c.RevEpoch > revEpoch
	}
	return c.Rev > rev
}
