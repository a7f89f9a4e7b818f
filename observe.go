package gocbkvx

import (
	"fmt"
	"time"

	"github.com/couchbase/gocbkvx/memdx"
)

// KeyState is the persistence state of a document reported by Observe.
type KeyState uint8

const (
	KeyStateFoundNotPersisted = KeyState(0x00)
	KeyStateFoundPersisted    = KeyState(0x01)
	KeyStateNotFound          = KeyState(0x80)
	KeyStateLogicalDeleted    = KeyState(0x81)
)

func (s KeyState) String() string {
	switch s {
	case KeyStateFoundNotPersisted:
		return "FoundNotPersisted"
	case KeyStateFoundPersisted:
		return "FoundPersisted"
	case KeyStateNotFound:
		return "NotFound"
	case KeyStateLogicalDeleted:
		return "LogicalDeleted"
	}
	return fmt.Sprintf("KeyState(0x%02x)", uint8(s))
}

// ObserveState is the decoded body of an Observe response.
type ObserveState struct {
	VbID     uint16
	Key      string
	KeyState KeyState
	Cas      uint64

	// The server reports its average persist and replicate times in the
	// response CAS field.
	PersistStat   time.Duration
	ReplicateStat time.Duration
}

func encodeObserveBody(vbID uint16, key string) ([]byte, error) {
	body := make([]byte, 4+len(key))

	if err := memdx.FromUInt16(vbID, body, 0); err != nil {
		return nil, err
	}
	if err := memdx.FromUInt16(uint16(len(key)), body, 2); err != nil {
		return nil, err
	}
	if _, err := memdx.FromString(key, body, 4); err != nil {
		return nil, err
	}

	return body, nil
}

func decodeObserveState(value []byte, headerCas uint64) (*ObserveState, error) {
	vbID, err := memdx.ToUInt16(value, 0)
	if err != nil {
		return nil, err
	}

	keyLen, err := memdx.ToUInt16(value, 2)
	if err != nil {
		return nil, err
	}

	key, err := memdx.ToString(value, 4, int(keyLen))
	if err != nil {
		return nil, err
	}

	pos := 4 + int(keyLen)
	keyState, err := memdx.ToByte(value, pos)
	if err != nil {
		return nil, err
	}

	cas, err := memdx.ToUInt64(value, pos+1)
	if err != nil {
		return nil, err
	}

	return &ObserveState{
		VbID:          vbID,
		Key:           key,
		KeyState:      KeyState(keyState),
		Cas:           cas,
		PersistStat:   time.Duration(headerCas>>32) * time.Millisecond,
		ReplicateStat: time.Duration(headerCas&0xffffffff) * time.Millisecond,
	}, nil
}
