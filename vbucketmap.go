package gocbkvx

import (
	"errors"
	"hash/crc32"

	"github.com/couchbase/gocbkvx/contrib/cbconfig"
)

type VbucketMap struct {
	entries     [][]int
	numReplicas int
}

func NewVbucketMap(entries [][]int, numReplicas int) (*VbucketMap, error) {
	if len(entries) == 0 {
		return nil, errors.New("vbucket map must have at least a single entry")
	}

	vbMap := VbucketMap{
		entries:     entries,
		numReplicas: numReplicas,
	}
	return &vbMap, nil
}

// NewVbucketMapFromConfig builds the map carried by a bucket configuration,
// such as one pushed alongside a NotMyVBucket response.
func NewVbucketMapFromConfig(config *cbconfig.TerseConfigJson) (*VbucketMap, error) {
	if config == nil || config.VBucketServerMap == nil {
		return nil, errors.New("configuration does not contain a vbucket map")
	}

	return NewVbucketMap(config.VBucketServerMap.VBucketMap, config.VBucketServerMap.NumReplicas)
}

func (vbMap VbucketMap) IsValid() bool {
	return len(vbMap.entries) > 0 && len(vbMap.entries[0]) > 0
}

func (vbMap VbucketMap) NumVbuckets() int {
	return len(vbMap.entries)
}

func (vbMap VbucketMap) NumReplicas() int {
	return vbMap.numReplicas
}

func (vbMap VbucketMap) VbucketByKey(key []byte) uint16 {
	if len(vbMap.entries) == 0 {
		// prevent divide-by-zero panic's
		return 0
	}

	crc := crc32.ChecksumIEEE(key)
	crcMidBits := uint16(crc>>16) & ^uint16(0x8000)
	return crcMidBits % uint16(len(vbMap.entries))
}

// TargetForKey returns the partition which owns key within bucketName.
func (vbMap VbucketMap) TargetForKey(key []byte, bucketName string) VBucket {
	return NewVBucket(vbMap.VbucketByKey(key), bucketName)
}
