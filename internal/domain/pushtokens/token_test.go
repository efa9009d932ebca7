package pushtokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	assert.True(t, Valid("ExponentPushToken[xxxxxxxxxxxxxxxxxxxxxx]"))
	assert.True(t, Valid("ExpoPushToken[abc]"))
	assert.False(t, Valid("ExponentPushToken[]"))
	assert.False(t, Valid("ExponentPushToken[abc"))
	assert.False(t, Valid("fcm:abc"))
	assert.False(t, Valid(""))
}
