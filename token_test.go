package gocbkvx

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutationState_Add(t *testing.T) {
	bucketName := "frank"

	fakeToken1 := MutationToken{
		VbID:       1,
		VbUuid:     9,
		SeqNo:      12,
		BucketName: bucketName,
	}
	fakeToken2 := MutationToken{
		VbID:       2,
		VbUuid:     1,
		SeqNo:      22,
		BucketName: bucketName,
	}
	fakeToken3 := MutationToken{
		VbID:       2,
		VbUuid:     4,
		SeqNo:      99,
		BucketName: bucketName,
	}

	state := NewMutationState(fakeToken1, fakeToken2)
	state.Add(fakeToken3, UnsetMutationToken)

	bytes, err := json.Marshal(&state)
	require.NoError(t, err)
	require.JSONEq(t, `{"frank":{"1":[12,"9"],"2":[99,"4"]}}`, string(bytes))

	var afterState MutationState
	err = json.Unmarshal(bytes, &afterState)
	require.NoError(t, err)

	require.Len(t, afterState.Tokens[bucketName], 2)
	for _, token := range afterState.Tokens[bucketName] {
		assert.Equal(t, bucketName, token.BucketName)
		assert.True(t, token.IsSet())
	}

	bytes, err = json.Marshal(&afterState)
	require.NoError(t, err)
	require.JSONEq(t, `{"frank":{"1":[12,"9"],"2":[99,"4"]}}`, string(bytes))
}

func TestMutationStateSeparatesBuckets(t *testing.T) {
	state := NewMutationState(
		MutationToken{VbID: 1, VbUuid: 2, SeqNo: 3, BucketName: "a"},
		MutationToken{VbID: 4, VbUuid: 5, SeqNo: 6, BucketName: "b"},
	)

	assert.Len(t, state.Tokens["a"], 1)
	assert.Len(t, state.Tokens["b"], 1)
}

func TestUnsetMutationToken(t *testing.T) {
	assert.False(t, UnsetMutationToken.IsSet())
	assert.Equal(t, uint16(0), UnsetMutationToken.VbID)
	assert.Equal(t, uint64(0), UnsetMutationToken.VbUuid)
	assert.Equal(t, uint64(0), UnsetMutationToken.SeqNo)
}
