package domain

import "github.com/liftctl/liftctl/internal/constants"

// CommType is the envelope's comm_type field (§6).
type CommType uint8

const (
	CommStatus        CommType = CommType(constants.CommStatusMessage)
	CommOrderTransfer CommType = CommType(constants.CommOrderTransfer)
	CommOrderAck      CommType = CommType(constants.CommOrderAck)
)

func (c CommType) String() string {
	switch c {
	case CommStatus:
		return "status"
	case CommOrderTransfer:
		return "order_transfer"
	case CommOrderAck:
		return "order_ack"
	default:
		return "unknown"
	}
}

// Target names the recipient of a Message: a specific NodeID, the
// current MASTER, or ALL (§6's reserved 0xFE/0xFF values).
type Target uint8

const (
	TargetMaster Target = Target(constants.TargetMaster)
	TargetAll    Target = Target(constants.TargetAll)
)

// NewNodeTarget builds a Target addressed to a specific node.
func NewNodeTarget(id NodeID) Target { return Target(id.Value()) }

func (t Target) IsMaster() bool { return t == TargetMaster }
func (t Target) IsAll() bool    { return t == TargetAll }

// NodeID returns the addressed node and true, or (0, false) if the
// target is MASTER or ALL rather than a specific node.
func (t Target) NodeID() (NodeID, bool) {
	if t.IsMaster() || t.IsAll() {
		return 0, false
	}
	return NodeID(t), true
}

// Message is the single envelope type broadcast on the wire (§3, §6).
// Status and Order are mutually exclusive payload slots: a
// STATUS_MESSAGE carries Status, an ORDER_TRANSFER or ORDER_ACK carries
// Order, and the unused slot is nil.
type Message struct {
	Sender     NodeID   `json:"sender"`
	SenderRole Role     `json:"sender_role"`
	Target     Target   `json:"target"`
	Type       CommType `json:"comm_type"`
	Status     *Status  `json:"status"`
	Order      *Order   `json:"order"`
}

// NewStatusMessage builds a STATUS_MESSAGE envelope broadcast to ALL.
func NewStatusMessage(sender NodeID, role Role, status Status) Message {
	return Message{Sender: sender, SenderRole: role, Target: TargetAll, Type: CommStatus, Status: &status}
}

// NewOrderTransfer builds an ORDER_TRANSFER envelope addressed to a
// specific node.
func NewOrderTransfer(sender NodeID, role Role, to NodeID, order Order) Message {
	return Message{Sender: sender, SenderRole: role, Target: NewNodeTarget(to), Type: CommOrderTransfer, Order: &order}
}

// NewOrderAck builds an ORDER_ACK envelope addressed to MASTER.
func NewOrderAck(sender NodeID, role Role, order Order) Message {
	return Message{Sender: sender, SenderRole: role, Target: TargetMaster, Type: CommOrderAck, Order: &order}
}
