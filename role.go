package robbie

import "strconv"

// Role identifies who authored a turn.
type Role int

const (
	RoleSystem Role = iota
	RoleUser
	RoleAssistant
	RoleToolOutput
)

// String returns the display form rendered into the prompt template.
// ToolOutput uses the IPython header name of the Llama 3.1 tool-output role.
func (r Role) String() string {
	switch r {
	case RoleSystem:
		return "System"
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "Assistant"
	case RoleToolOutput:
		return "IPython"
	default:
		return "Role(" + strconv.Itoa(int(r)) + ")"
	}
}

// Roles returns every declared role in declaration order.
func Roles() []Role {
	return []Role{RoleSystem, RoleUser, RoleAssistant, RoleToolOutput}
}
