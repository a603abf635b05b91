//go:build !linux

package netif

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterfaceExists(t *testing.T) {
	ifaces, err := net.Interfaces()
	require.NoError(t, err)
	require.NotEmpty(t, ifaces)

	assert.True(t, interfaceExists(ifaces[0].Name))
	assert.False(t, interfaceExists("nosuchif0"))
}
