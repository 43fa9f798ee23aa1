package network

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftctl/liftctl/internal/domain"
)

func listenOnFreePort(t *testing.T) (*net.UDPConn, int) {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	require.NoError(t, err)
	return conn, conn.LocalAddr().(*net.UDPAddr).Port
}

func readOne(t *testing.T, conn *net.UDPConn) domain.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 4096)
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)
	msg, err := Decode(buf[:n])
	require.NoError(t, err)
	return msg
}

func TestSender_StampsSenderAndRoleOnOutgoingMessages(t *testing.T) {
	listener, port := listenOnFreePort(t)
	defer listener.Close()

	s := NewSender(domain.NodeID(3), port, time.Hour, 10*time.Millisecond)
	s.SetRole(domain.RoleMaster)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	order := domain.Order{Floor: domain.NewFloor(1), Direction: domain.HallDown}
	s.Outbound <- domain.NewOrderAck(domain.NodeID(0), domain.RoleSlave, order)

	got := readOne(t, listener)
	assert.Equal(t, domain.NodeID(3), got.Sender)
	assert.Equal(t, domain.RoleMaster, got.SenderRole)
	assert.Equal(t, domain.CommOrderAck, got.Type)
}

func TestSender_ResendsLastStatusOnStatusPeriod(t *testing.T) {
	listener, port := listenOnFreePort(t)
	defer listener.Close()

	s := NewSender(domain.NodeID(1), port, 30*time.Millisecond, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	status := domain.Status{LastFloor: domain.NewFloor(0), MotorDirection: domain.MotorStop}
	s.Outbound <- domain.NewStatusMessage(domain.NodeID(1), domain.RoleSlave, status)

	first := readOne(t, listener)
	assert.Equal(t, domain.CommStatus, first.Type)

	second := readOne(t, listener)
	assert.Equal(t, domain.CommStatus, second.Type)
	assert.Equal(t, first.Status, second.Status)
}
