package device

import "strings"

var _ Device = (*Server)(nil)

// ServerRole is the part an AIM node plays in a cluster.
type ServerRole int

const (
	RoleUnknown ServerRole = iota
	RoleSolo
	RoleBackup
	RolePrimary
	RoleUnconfigured
)

// String returns the name of the role.
func (r ServerRole) String() string {
	switch r {
	case RoleSolo:
		return "Solo"
	case RoleBackup:
		return "Backup"
	case RolePrimary:
		return "Primary"
	case RoleUnconfigured:
		return "Unconfigured"
	default:
		return "Unknown"
	}
}

// ServerStatus is the health of an AIM node.
type ServerStatus int

const (
	ServerUnknown ServerStatus = iota
	ServerActive
	ServerStandby
	ServerFailed
	ServerQuiescent
)

// String returns the name of the status.
func (s ServerStatus) String() string {
	switch s {
	case ServerActive:
		return "Active"
	case ServerStandby:
		return "Standby"
	case ServerFailed:
		return "Failed"
	case ServerQuiescent:
		return "Quiescent"
	default:
		return "Unknown"
	}
}

// Server is an AIM management node.
type Server struct {
	Base
}

// NewServer builds a server from a server record.
func NewServer(m map[string]string) *Server {
	return &Server{Base: newBase(m)}
}

// Type implements Device.
func (s *Server) Type() Type { return TypeServer }

// Role returns the cluster role of the node.
func (s *Server) Role() ServerRole {
	switch strings.ToLower(strings.TrimSpace(s.a.String("s_role"))) {
	case "solo":
		return RoleSolo
	case "backup":
		return RoleBackup
	case "primary":
		return RolePrimary
	case "unconfigured":
		return RoleUnconfigured
	default:
		return RoleUnknown
	}
}

// ServerStatus returns the node health. It is separate from Status, which
// reports the device-level state shared with endpoints.
func (s *Server) ServerStatus() ServerStatus {
	switch strings.ToLower(strings.TrimSpace(s.a.String("s_status"))) {
	case "active":
		return ServerActive
	case "standby":
		return ServerStandby
	case "failed":
		return ServerFailed
	case "quiescent":
		return ServerQuiescent
	default:
		return ServerUnknown
	}
}

// DualEthernet reports whether both ethernet ports are configured.
func (s *Server) DualEthernet() bool { return s.a.Flag("s_dual_ethernet") }
