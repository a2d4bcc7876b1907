package stat

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionCounters(t *testing.T) {
	s := CreateStatistics(0)
	assert.Equal(t, 12*time.Hour, s.OldIPAddrTime)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NewConnection()
		}()
	}
	wg.Wait()
	s.CloseConnection(time.Second)
	s.CloseConnection(3 * time.Second)
	s.CloseConnection(2 * time.Second)
	s.CommandExecuted()
	s.UnknownCommand()
	s.Fault()

	snap := s.GetSnapshot()
	assert.Equal(t, uint64(10), snap.AllConnection)
	assert.Equal(t, int32(7), snap.NowConnected)
	assert.Equal(t, int32(10), snap.MaxCuncurentConnection)
	assert.Equal(t, 3*time.Second, snap.MaxTimeForOneConnection)
	assert.Equal(t, uint64(1), snap.Commands)
	assert.Equal(t, uint64(1), snap.UnknownCommands)
	assert.Equal(t, uint64(1), snap.Faults)
	assert.Equal(t, S_VERSION, snap.ServerVersion)
}

func TestIPAddressCounter(t *testing.T) {
	s := CreateStatistics(time.Hour)
	assert.Equal(t, uint32(1), s.AddIPAddres("10.1.1.1"))
	assert.Equal(t, uint32(2), s.AddIPAddres("10.1.1.1"))
	assert.Equal(t, uint32(1), s.AddIPAddres("10.1.1.2"))

	s.ReleaseIPAddres("10.1.1.1")
	s.ReleaseIPAddres("10.1.1.2")
	s.ReleaseIPAddres("10.1.1.2")
	s.ReleaseIPAddres("unknown")

	ips := s.GetSnapshot().IPAddresses
	assert.Equal(t, uint32(1), ips["10.1.1.1"].Count)
	assert.Equal(t, uint32(0), ips["10.1.1.2"].Count)
	assert.NotContains(t, ips, "unknown")
}

func TestOldIPAddressIsReset(t *testing.T) {
	s := CreateStatistics(time.Millisecond)
	s.AddIPAddres("10.1.1.1")
	s.AddIPAddres("10.1.1.1")
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, uint32(1), s.AddIPAddres("10.1.1.1"))
}

func TestJsonStat(t *testing.T) {
	s := CreateStatistics(0)
	s.NewConnection()
	var res map[string]interface{}
	require.NoError(t, json.Unmarshal(s.GetJsonStat(), &res))
	assert.Equal(t, S_VERSION, res["version"])
	assert.Equal(t, float64(1), res["nowConnected"])
}
