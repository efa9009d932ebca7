package orgunits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Valid(t *testing.T) {
	for _, k := range []Kind{KindCommittee, KindChapter, KindTeam} {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, Kind("club").Valid())
	assert.False(t, Kind("").Valid())
}
