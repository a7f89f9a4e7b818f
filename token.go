package gocbkvx

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// MutationToken identifies the point in a partition's history at which a
// mutation was applied.
type MutationToken struct {
	VbID       uint16
	VbUuid     uint64
	SeqNo      uint64
	BucketName string
}

// UnsetMutationToken is returned for operations which did not produce a
// token.
var UnsetMutationToken = MutationToken{}

// IsSet reports whether the token carries partition information.
func (t MutationToken) IsSet() bool {
	return t.VbUuid != 0 || t.SeqNo != 0 || t.VbID != 0
}

func (t MutationToken) String() string {
	return fmt.Sprintf("%s:%d/%d/%d", t.BucketName, t.VbID, t.VbUuid, t.SeqNo)
}

// MutationState holds and aggregates MutationToken's across multiple operations.
type MutationState struct {
	Tokens map[string][]MutationToken
}

// NewMutationState creates a new MutationState for tracking mutation state.
func NewMutationState(tokens ...MutationToken) *MutationState {
	mt := &MutationState{
		Tokens: make(map[string][]MutationToken),
	}
	mt.Add(tokens...)
	return mt
}

// Add includes an operation's mutation information in this mutation state.
// Unset tokens are ignored.
func (mt *MutationState) Add(tokens ...MutationToken) {
	for _, token := range tokens {
		if !token.IsSet() {
			continue
		}

		mt.Tokens[token.BucketName] = append(mt.Tokens[token.BucketName], token)
	}
}

// MarshalJSON marshal's this mutation state to JSON.
func (mt *MutationState) MarshalJSON() ([]byte, error) {
	var data mutationStateData
	for bucketName, tokens := range mt.Tokens {
		for _, token := range tokens {
			if data == nil {
				data = make(mutationStateData)
			}

			if (data)[bucketName] == nil {
				tokens := make(bucketTokens)
				(data)[bucketName] = &tokens
			}

			vbID := fmt.Sprintf("%d", token.VbID)
			stateToken := (*(data)[bucketName])[vbID]
			if stateToken == nil {
				stateToken = &bucketToken{}
				(*(data)[bucketName])[vbID] = stateToken
			}

			stateToken.SeqNo = token.SeqNo
			stateToken.VbUUID = fmt.Sprintf("%d", token.VbUuid)
		}
	}

	return json.Marshal(data)
}

// UnmarshalJSON unmarshal's a mutation state from JSON.
func (mt *MutationState) UnmarshalJSON(data []byte) error {
	var stateData mutationStateData
	err := json.Unmarshal(data, &stateData)
	if err != nil {
		return err
	}

	if mt.Tokens == nil {
		mt.Tokens = make(map[string][]MutationToken)
	}

	for bucketName, bTokens := range stateData {
		for vbIDStr, stateToken := range *bTokens {
			vbID, err := strconv.ParseUint(vbIDStr, 10, 16)
			if err != nil {
				return err
			}
			vbUUID, err := strconv.ParseUint(stateToken.VbUUID, 10, 64)
			if err != nil {
				return err
			}

			mt.Tokens[bucketName] = append(mt.Tokens[bucketName], MutationToken{
				VbID:       uint16(vbID),
				VbUuid:     vbUUID,
				SeqNo:      stateToken.SeqNo,
				BucketName: bucketName,
			})
		}
	}

	return nil
}

type bucketToken struct {
	SeqNo  uint64 `json:"seqno"`
	VbUUID string `json:"vbuuid"`
}

func (mt bucketToken) MarshalJSON() ([]byte, error) {
	info := []interface{}{mt.SeqNo, mt.VbUUID}
	return json.Marshal(info)
}

func (mt *bucketToken) UnmarshalJSON(data []byte) error {
	info := []interface{}{&mt.SeqNo, &mt.VbUUID}
	return json.Unmarshal(data, &info)
}

type bucketTokens map[string]*bucketToken
type mutationStateData map[string]*bucketTokens
