package navigation

// State is the lifecycle position of a controller or composite in a screen tree.
type State int

const (
	StateUnattached State = iota
	StateBound
	StateComponentReady
	StateAttached
	StateStopping
	StateDetached
)

func (s State) String() string {
	switch s {
	case StateUnattached:
		return "unattached"
	case StateBound:
		return "bound"
	case StateComponentReady:
		return "component_ready"
	case StateAttached:
		return "attached"
	case StateStopping:
		return "stopping"
	case StateDetached:
		return "detached"
	default:
		return "unknown"
	}
}
