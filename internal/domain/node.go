package domain

import "github.com/liftctl/liftctl/internal/constants"

// NodeID identifies a peer node, unique and immutable for the lifetime
// of its process (§3).
type NodeID uint8

// NewNodeID validates a raw value against the 0-253 range reserved by
// §6 (0xFE/0xFF are reserved envelope targets).
func NewNodeID(value int) (NodeID, error) {
	if value < constants.MinNodeID || value > constants.MaxNodeID {
		return 0, ErrUnknownNodeID.WithContext("node_id", value)
	}
	return NodeID(value), nil
}

func (n NodeID) Value() uint8 { return uint8(n) }

// Role is a node's position in the master-election protocol (§3, §4.3).
type Role uint8

const (
	RoleMaster Role = Role(constants.WireRoleMaster)
	// RoleMasterBackup designates the next node to promote if the
	// current master disappears.
	RoleMasterBackup Role = Role(constants.WireRoleMasterBackup)
	RoleSlave        Role = Role(constants.WireRoleSlave)
)

func (r Role) String() string {
	switch r {
	case RoleMaster:
		return "master"
	case RoleMasterBackup:
		return "master_backup"
	default:
		return "slave"
	}
}

func (r Role) ToWire() uint8 { return uint8(r) }

// RoleFromWire decodes a wire role byte, defaulting unknown values to
// slave so a malformed peer never mistakenly becomes a master locally.
func RoleFromWire(b uint8) Role {
	switch b {
	case constants.WireRoleMaster:
		return RoleMaster
	case constants.WireRoleMasterBackup:
		return RoleMasterBackup
	default:
		return RoleSlave
	}
}
