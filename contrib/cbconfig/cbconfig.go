package cbconfig

// VBucketServerMapJson maps each vbucket to the index within ServerList of
// its active node followed by its replicas.  An index of -1 means no node.
type VBucketServerMapJson struct {
	HashAlgorithm string   `json:"hashAlgorithm"`
	NumReplicas   int      `json:"numReplicas"`
	ServerList    []string `json:"serverList"`
	VBucketMap    [][]int  `json:"vBucketMap,omitempty"`
}

type TerseExtNodePortsJson struct {
	Kv      uint16 `json:"kv,omitempty"`
	KvSsl   uint16 `json:"kvSSL,omitempty"`
	Mgmt    uint16 `json:"mgmt,omitempty"`
	MgmtSsl uint16 `json:"mgmtSSL,omitempty"`
}

type TerseExtNodeAltAddressesJson struct {
	Ports    *TerseExtNodePortsJson `json:"ports,omitempty"`
	Hostname string                 `json:"hostname,omitempty"`
}

type TerseExtNodeJson struct {
	Services     *TerseExtNodePortsJson                  `json:"services,omitempty"`
	ThisNode     bool                                    `json:"thisNode,omitempty"`
	Hostname     string                                  `json:"hostname,omitempty"`
	AltAddresses map[string]TerseExtNodeAltAddressesJson `json:"alternateAddresses,omitempty"`
}

// TerseConfigJson is the bucket configuration the server pushes alongside
// NotMyVBucket responses and returns from GetClusterConfig.  Only the parts
// needed to route KV operations are decoded.
type TerseConfigJson struct {
	Rev                int                   `json:"rev,omitempty"`
	RevEpoch           int                   `json:"revEpoch,omitempty"`
	Name               string                `json:"name,omitempty"`
	NodeLocator        string                `json:"nodeLocator,omitempty"`
	UUID               string                `json:"uuid,omitempty"`
	BucketCapabilities []string              `json:"bucketCapabilities,omitempty"`
	VBucketServerMap   *VBucketServerMapJson `json:"vBucketServerMap,omitempty"`
	NodesExt           []TerseExtNodeJson    `json:"nodesExt,omitempty"`
}
