package accounting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccntAccumulatesUserAndGC(t *testing.T) {
	var a Accnt
	a.AddUser(100)
	a.AddUser(50)
	a.AddGC(30)

	snap := a.Now()
	assert.Equal(t, int64(150), snap.UserNs)
	assert.Equal(t, int64(30), snap.GCNs)
	assert.Equal(t, int64(1), snap.GCRuns)
	assert.Equal(t, int64(180), a.IoTime())
}
