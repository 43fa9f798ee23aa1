// Package network implements Net Send and Net Recv (§4.4, §4.5): the
// periodic UDP broadcaster and the listener/dispatcher that together
// treat the socket as a lossy broadcast channel carrying one JSON
// Message per datagram (§6).
package network

import (
	"encoding/json"

	"github.com/liftctl/liftctl/internal/domain"
)

// wireMessage mirrors domain.Message's JSON shape; kept as a distinct
// type so decode failures and unknown comm_type values are reported
// through the domain error taxonomy rather than a bare json error.
type wireMessage struct {
	Sender     domain.NodeID   `json:"sender"`
	SenderRole domain.Role     `json:"sender_role"`
	Target     domain.Target   `json:"target"`
	Type       domain.CommType `json:"comm_type"`
	Status     *domain.Status  `json:"status"`
	Order      *domain.Order   `json:"order"`
}

// Encode serializes a Message to its wire form (§6).
func Encode(msg domain.Message) ([]byte, error) {
	return json.Marshal(wireMessage(msg))
}

// Decode parses a datagram into a Message. Malformed JSON and unknown
// comm_type values are both reported as domain errors so Net Recv can
// uniformly drop them (§4.5, §7).
func Decode(data []byte) (domain.Message, error) {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return domain.Message{}, domain.ErrMalformedEnvelope.WithContext("cause", err.Error())
	}

	switch w.Type {
	case domain.CommStatus, domain.CommOrderTransfer, domain.CommOrderAck:
	default:
		return domain.Message{}, domain.ErrUnknownCommType.WithContext("comm_type", uint8(w.Type))
	}

	return domain.Message(w), nil
}
