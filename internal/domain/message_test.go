package domain

import "testing"

func TestTarget_IsMasterIsAll(t *testing.T) {
	if !TargetMaster.IsMaster() {
		t.Errorf("TargetMaster.IsMaster() should be true")
	}
	if TargetMaster.IsAll() {
		t.Errorf("TargetMaster.IsAll() should be false")
	}
	if !TargetAll.IsAll() {
		t.Errorf("TargetAll.IsAll() should be true")
	}

	node, ok := NewNodeTarget(NodeID(5)).NodeID()
	if !ok {
		t.Fatalf("expected a node target to resolve to a node id")
	}
	if node != 5 {
		t.Errorf("NodeID() = %v, want 5", node)
	}

	if _, ok := TargetMaster.NodeID(); ok {
		t.Errorf("TargetMaster.NodeID() should not resolve to a node")
	}
}

func TestNewStatusMessage(t *testing.T) {
	status := UnknownStatus()
	msg := NewStatusMessage(NodeID(1), RoleSlave, status)

	if msg.Type != CommStatus {
		t.Errorf("Type = %v, want CommStatus", msg.Type)
	}
	if !msg.Target.IsAll() {
		t.Errorf("status messages must target ALL")
	}
	if msg.Status == nil || msg.Order != nil {
		t.Errorf("status message must carry Status and no Order")
	}
}

func TestNewOrderTransfer(t *testing.T) {
	order := Order{Floor: NewFloor(2), Direction: HallUp}
	msg := NewOrderTransfer(NodeID(0), RoleMaster, NodeID(3), order)

	if msg.Type != CommOrderTransfer {
		t.Errorf("Type = %v, want CommOrderTransfer", msg.Type)
	}
	node, ok := msg.Target.NodeID()
	if !ok || node != 3 {
		t.Errorf("Target = %v, want node 3", msg.Target)
	}
	if msg.Order == nil || msg.Status != nil {
		t.Errorf("order transfer must carry Order and no Status")
	}
}

func TestNewOrderAck(t *testing.T) {
	order := Order{Floor: NewFloor(1), Direction: HallDown}
	msg := NewOrderAck(NodeID(3), RoleSlave, order)

	if msg.Type != CommOrderAck {
		t.Errorf("Type = %v, want CommOrderAck", msg.Type)
	}
	if !msg.Target.IsMaster() {
		t.Errorf("order ack must target MASTER")
	}
}
