// Package constants centralizes magic numbers and names shared across the
// node so wire codes and component labels live in exactly one place.
package constants

import "time"

// Default configuration values, used when the environment does not
// override them.
const (
	DefaultNumFloors         = 4
	DefaultStatusPeriod      = 1000 * time.Millisecond
	DefaultAssignPeriod      = 500 * time.Millisecond
	DefaultPeerTTL           = 3000 * time.Millisecond
	DefaultDoorOpenPeriod    = 3000 * time.Millisecond
	DefaultBroadcastPort     = 20010
	DefaultHardwareAddr      = "localhost:15657"
	DefaultSocketBackoff     = 1000 * time.Millisecond
	DefaultPollPeriod        = 25 * time.Millisecond
	DefaultSocketReadTimeout = 5 * time.Second

	// DefaultFSMTickPeriod is the FSM's idle-tick / status cadence (§4.1).
	DefaultFSMTickPeriod = 1 * time.Second
	// DefaultFloorTravelPeriod is the simulated driver's per-floor travel time.
	DefaultFloorTravelPeriod = 1 * time.Second
)

// Node identity limits from §6 (NODE_ID is 0-253; 0xFE/0xFF are reserved
// envelope targets for MASTER/ALL).
const (
	MinNodeID    = 0
	MaxNodeID    = 253
	TargetMaster = 0xFE
	TargetAll    = 0xFF
)

// Floor count bounds accepted by configuration validation; chosen to
// match the physical rigs the wire protocol was built for.
const (
	MinAllowedFloors = 2
	MaxAllowedFloors = 16
)

// Default observer HTTP surface.
const (
	DefaultHTTPPort           = 8080
	DefaultHTTPReadTimeout    = 5 * time.Second
	DefaultHTTPWriteTimeout   = 5 * time.Second
	DefaultHTTPIdleTimeout    = 60 * time.Second
	DefaultHTTPShutdownGrace  = 5 * time.Second
	DefaultWebSocketPingEvery = 15 * time.Second
)

// Wire comm_type codes (§6). These values are part of the on-the-wire
// contract and must not change.
const (
	CommStatusMessage uint8 = 0
	CommOrderTransfer uint8 = 1
	CommOrderAck      uint8 = 2
)

// Wire role codes (§6).
const (
	WireRoleMaster       uint8 = 0
	WireRoleMasterBackup uint8 = 1
	WireRoleSlave        uint8 = 2
)

// Hardware call-button kinds (§6); numeric codes match the hardware
// driver and must not change.
const (
	CallHallUp   uint8 = 0
	CallHallDown uint8 = 1
	CallCab      uint8 = 2
)

// Hall direction wire codes (§6).
const (
	WireHallUp   uint8 = 0
	WireHallDown uint8 = 1
)

// Motor direction wire codes (§6). WireMotorStop and WireMotorUp share
// the value zero on the wire; conversion between hall and motor
// direction always goes through the explicit conversion functions in
// package domain, never through raw comparison of these constants.
const (
	WireMotorUp   uint8 = 0
	WireMotorDown uint8 = 255
	WireMotorStop uint8 = 0
)

// UnknownFloor represents "no floor observed yet" (last_floor's initial
// value of F+1 in spec.md, modeled here as -1 since real floors are
// always >= 0).
const UnknownFloor = -1

// Component names used as slog "component" attributes.
const (
	ComponentFSM         = "elevator-fsm"
	ComponentMotor       = "motor-controller"
	ComponentMaster      = "master-core"
	ComponentHallQueue   = "hall-queue"
	ComponentRoleManager = "role-manager"
	ComponentPeerTable   = "peer-table"
	ComponentNetSend     = "net-send"
	ComponentNetRecv     = "net-recv"
	ComponentHardware    = "hardware-driver"
	ComponentNode        = "node"
	ComponentHTTPServer  = "http-server"
	ComponentHTTPHandler = "http-handler"
)

// HTTP content types.
const (
	ContentTypeJSON      = "application/json"
	ContentTypeTextPlain = "text/plain"
)

// MetricsNamespace prefixes every Prometheus metric this node exports.
const MetricsNamespace = "liftctl"
