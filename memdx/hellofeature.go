package memdx

import (
	"encoding/binary"
	"fmt"
)

// HelloFeature represents a feature code included in a memcached
// HELLO operation.
type HelloFeature uint16

const (
	// FeatureDatatype indicates support for Datatype fields.
	HelloFeatureDatatype = HelloFeature(0x01)

	// FeatureTLS indicates support for TLS
	HelloFeatureTLS = HelloFeature(0x02)

	// FeatureTCPNoDelay indicates support for TCP no-delay.
	HelloFeatureTCPNoDelay = HelloFeature(0x03)

	// FeatureSeqNo indicates support for mutation tokens.
	HelloFeatureSeqNo = HelloFeature(0x04)

	// FeatureTCPDelay indicates support for TCP delay.
	HelloFeatureTCPDelay = HelloFeature(0x05)

	// FeatureXattr indicates support for document xattrs.
	HelloFeatureXattr = HelloFeature(0x06)

	// FeatureXerror indicates support for extended errors.
	HelloFeatureXerror = HelloFeature(0x07)

	// FeatureSelectBucket indicates support for the SelectBucket operation.
	HelloFeatureSelectBucket = HelloFeature(0x08)

	// Feature 0x09 is reserved and cannot be used.

	// FeatureSnappy indicates support for snappy compressed documents.
	HelloFeatureSnappy = HelloFeature(0x0a)

	// FeatureJSON indicates support for JSON datatype data.
	HelloFeatureJSON = HelloFeature(0x0b)

	// FeatureDuplex indicates support for duplex communications.
	HelloFeatureDuplex = HelloFeature(0x0c)

	// FeatureClusterMapNotif indicates support for cluster-map update notifications.
	HelloFeatureClusterMapNotif = HelloFeature(0x0d)

	// FeatureUnorderedExec indicates support for unordered execution of operations.
	HelloFeatureUnorderedExec = HelloFeature(0x0e)

	// FeatureDurations indicates support for server durations.
	HelloFeatureDurations = HelloFeature(0xf)

	// FeatureAltRequests indicates support for requests with flexible frame extras.
	HelloFeatureAltRequests = HelloFeature(0x10)

	// FeatureSyncReplication indicates support for requests synchronous durability requirements.
	HelloFeatureSyncReplication = HelloFeature(0x11)

	// FeatureCollections indicates support for collections.
	HelloFeatureCollections = HelloFeature(0x12)

	// FeatureOpenTracing indicates support for OpenTracing.
	HelloFeatureOpenTracing = HelloFeature(0x13)

	// FeaturePreserveExpiry indicates support for preserve TTL.
	HelloFeaturePreserveExpiry = HelloFeature(0x14)

	// FeaturePITR indicates support for PITR snapshots.
	HelloFeaturePITR = HelloFeature(0x16)

	// FeatureCreateAsDeleted indicates support for the create as deleted feature.
	HelloFeatureCreateAsDeleted = HelloFeature(0x17)

	// FeatureReplaceBodyWithXattr indicates support for the replace body with xattr feature.
	HelloFeatureReplaceBodyWithXattr = HelloFeature(0x19)
)

func (f HelloFeature) String() string {
	switch f {
	case HelloFeatureDatatype:
		return "Datatype"
	case HelloFeatureTLS:
		return "TLS"
	case HelloFeatureTCPNoDelay:
		return "TCPNoDelay"
	case HelloFeatureSeqNo:
		return "MutationSeqno"
	case HelloFeatureTCPDelay:
		return "TCPDelay"
	case HelloFeatureXattr:
		return "Xattr"
	case HelloFeatureXerror:
		return "XError"
	case HelloFeatureSelectBucket:
		return "SelectBucket"
	case HelloFeatureSnappy:
		return "Snappy"
	case HelloFeatureJSON:
		return "JSON"
	case HelloFeatureDuplex:
		return "Duplex"
	case HelloFeatureClusterMapNotif:
		return "ClustermapChangeNotification"
	case HelloFeatureUnorderedExec:
		return "UnorderedExecution"
	case HelloFeatureDurations:
		return "Tracing"
	case HelloFeatureAltRequests:
		return "AltRequestSupport"
	case HelloFeatureSyncReplication:
		return "SyncReplication"
	case HelloFeatureCollections:
		return "Collections"
	case HelloFeatureOpenTracing:
		return "OpenTracing"
	case HelloFeaturePreserveExpiry:
		return "PreserveTtl"
	case HelloFeaturePITR:
		return "PiTR"
	case HelloFeatureCreateAsDeleted:
		return "CreateAsDeleted"
	case HelloFeatureReplaceBodyWithXattr:
		return "ReplaceBodyWithXattr"
	}
	return fmt.Sprintf("x%04x", uint16(f))
}

// EncodeHelloFeatures encodes a list of features as the body of a HELLO
// request, two bytes per feature.
func EncodeHelloFeatures(features []HelloFeature) []byte {
	buf := make([]byte, len(features)*2)
	for featureIdx, feature := range features {
		binary.BigEndian.PutUint16(buf[featureIdx*2:], uint16(feature))
	}
	return buf
}

// DecodeHelloFeatures decodes the features the server agreed to from the
// value of a HELLO response.
func DecodeHelloFeatures(buf []byte) ([]HelloFeature, error) {
	if len(buf)%2 != 0 {
		return nil, protocolError{"invalid hello features length"}
	}

	numFeatures := len(buf) / 2
	features := make([]HelloFeature, numFeatures)
	for featureIdx := range features {
		features[featureIdx] = HelloFeature(binary.BigEndian.Uint16(buf[featureIdx*2:]))
	}

	return features, nil
}
