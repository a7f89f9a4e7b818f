package cbconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTerseConfig = `{
  "rev": 1073,
  "revEpoch": 2,
  "name": "default",
  "nodeLocator": "vbucket",
  "vBucketServerMap": {
    "hashAlgorithm": "CRC",
    "numReplicas": 1,
    "serverList": ["$HOST:11210", "10.0.0.2:11210"],
    "vBucketMap": [[0, 1], [1, 0]]
  },
  "nodesExt": [
    {"services": {"kv": 11210, "mgmt": 8091}, "thisNode": true}
  ]
}`

func TestParseTerseConfigReplacesHost(t *testing.T) {
	config, err := ParseTerseConfig([]byte(testTerseConfig), "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, 1073, config.Rev)
	assert.Equal(t, 2, config.RevEpoch)
	assert.Equal(t, "default", config.Name)
	require.NotNil(t, config.VBucketServerMap)
	assert.Equal(t, []string{"10.0.0.1:11210", "10.0.0.2:11210"}, config.VBucketServerMap.ServerList)
	assert.Equal(t, [][]int{{0, 1}, {1, 0}}, config.VBucketServerMap.VBucketMap)
	require.Len(t, config.NodesExt, 1)
	assert.Equal(t, uint16(11210), config.NodesExt[0].Services.Kv)
}

func TestParseTerseConfigNoHost(t *testing.T) {
	config, err := ParseTerseConfig([]byte(testTerseConfig), "")
	require.NoError(t, err)
	assert.Equal(t, "$HOST:11210", config.VBucketServerMap.ServerList[0])
}

func TestParseTerseConfigInvalid(t *testing.T) {
	_, err := ParseTerseConfig([]byte(`{"rev":`), "host")
	assert.Error(t, err)
}

func TestTerseConfigIsNewerThan(t *testing.T) {
	config := &TerseConfigJson{Rev: 10, RevEpoch: 1}

	assert.True(t, config.IsNewerThan(1, 9))
	assert.False(t, config.IsNewerThan(1, 10))
	assert.False(t, config.IsNewerThan(2, 1))
	assert.True(t, config.IsNewerThan(0, 100))
}
