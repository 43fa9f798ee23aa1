package network

import (
	"context"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/liftctl/liftctl/internal/constants"
	"github.com/liftctl/liftctl/internal/domain"
)

// Sender is Net Send (§4.4): it stamps outgoing messages with this
// node's identity and current role, serializes them, and broadcasts
// them on a UDP socket it rebinds on failure.
type Sender struct {
	self          domain.NodeID
	role          atomic.Int32
	broadcastAddr *net.UDPAddr
	statusPeriod  time.Duration
	backoff       time.Duration

	Outbound chan domain.Message

	logger *slog.Logger
}

// NewSender builds a Sender targeting the given broadcast port.
func NewSender(self domain.NodeID, port int, statusPeriod, backoff time.Duration) *Sender {
	s := &Sender{
		self:          self,
		broadcastAddr: &net.UDPAddr{IP: net.IPv4bcast, Port: port},
		statusPeriod:  statusPeriod,
		backoff:       backoff,
		Outbound:      make(chan domain.Message, 64),
		logger:        slog.With(slog.String("component", constants.ComponentNetSend)),
	}
	s.SetRole(domain.RoleSlave)
	return s
}

// SetRole updates the role stamped on outgoing envelopes; safe to call
// concurrently with Run.
func (s *Sender) SetRole(role domain.Role) {
	s.role.Store(int32(role))
}

func (s *Sender) currentRole() domain.Role {
	return domain.Role(s.role.Load())
}

// Run dials the broadcast socket and serves outgoing traffic until ctx
// is cancelled: every message on Outbound is stamped and sent
// immediately, and the most recently sent STATUS_MESSAGE is re-emitted
// every statusPeriod between events (§4.4).
func (s *Sender) Run(ctx context.Context) {
	var lastStatus *domain.Message

	conn := s.dial(ctx)
	if conn == nil {
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(s.statusPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.Outbound:
			msg.Sender = s.self
			msg.SenderRole = s.currentRole()
			if msg.Type == domain.CommStatus {
				lastStatus = &msg
			}
			conn = s.sendOrRebind(ctx, conn, msg)
		case <-ticker.C:
			if lastStatus != nil {
				conn = s.sendOrRebind(ctx, conn, *lastStatus)
			}
		}
	}
}

func (s *Sender) sendOrRebind(ctx context.Context, conn *net.UDPConn, msg domain.Message) *net.UDPConn {
	data, err := Encode(msg)
	if err != nil {
		s.logger.Error("failed to encode outgoing message", slog.String("error", err.Error()))
		return conn
	}

	if _, err := conn.WriteToUDP(data, s.broadcastAddr); err != nil {
		s.logger.Warn("broadcast send failed, rebinding socket", slog.String("error", err.Error()))
		conn.Close()
		select {
		case <-time.After(s.backoff):
		case <-ctx.Done():
			return conn
		}
		if fresh := s.dial(ctx); fresh != nil {
			return fresh
		}
	}
	return conn
}

func (s *Sender) dial(ctx context.Context) *net.UDPConn {
	for {
		conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: 0})
		if err == nil {
			return conn
		}
		s.logger.Warn("failed to open broadcast socket, retrying", slog.String("error", err.Error()))
		select {
		case <-time.After(s.backoff):
		case <-ctx.Done():
			return nil
		}
	}
}
