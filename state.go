package gatt

// State is the protocol state of a connection. Exactly one State is
// active per connection at any instant.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateConnectFailure
	StateDisconnecting
	StateDisconnected
	StateDisconnectFailure
	StateRadioOff

	StateDiscovering
	StateDiscoverySuccess
	StateDiscoveryFailure
	StateReadingCharacteristic
	StateReadCharacteristicSuccess
	StateReadCharacteristicFailure
	StateWritingCharacteristic
	StateWriteCharacteristicSuccess
	StateWriteCharacteristicFailure
	StateReadingDescriptor
	StateReadDescriptorSuccess
	StateReadDescriptorFailure
	StateWritingDescriptor
	StateWriteDescriptorSuccess
	StateWriteDescriptorFailure
	StateSubscribing
	StateSubscribeSuccess
	StateSubscribeFailure
	StateUnsubscribing
	StateUnsubscribeSuccess
	StateUnsubscribeFailure
	StateRequestingMTU
	StateRequestMTUSuccess
	StateRequestMTUFailure
	StateReadingRSSI
	StateReadRSSISuccess
	StateReadRSSIFailure
	StateReadingPhy
	StateReadPhySuccess
	StateReadPhyFailure
	StateSettingPhy
	StateSetPhySuccess
	StateSetPhyFailure

	StateAddingService
	StateAddServiceSuccess
	StateAddServiceFailure
	StateRemovingService
	StateRemoveServiceSuccess
	StateRemoveServiceFailure
	StateClearingServices
	StateClearServicesSuccess
	StateClearServicesFailure
	StateNotifying
	StateNotifySuccess
	StateNotifyFailure
	StateSendingResponse
	StateSendResponseSuccess
	StateSendResponseFailure

	numStates
)

var stateNames = [...]string{
	"Idle",
	"Connecting",
	"Connected",
	"ConnectFailure",
	"Disconnecting",
	"Disconnected",
	"DisconnectFailure",
	"RadioOff",

	"Discovering",
	"DiscoverySuccess",
	"DiscoveryFailure",
	"ReadingCharacteristic",
	"ReadCharacteristicSuccess",
	"ReadCharacteristicFailure",
	"WritingCharacteristic",
	"WriteCharacteristicSuccess",
	"WriteCharacteristicFailure",
	"ReadingDescriptor",
	"ReadDescriptorSuccess",
	"ReadDescriptorFailure",
	"WritingDescriptor",
	"WriteDescriptorSuccess",
	"WriteDescriptorFailure",
	"Subscribing",
	"SubscribeSuccess",
	"SubscribeFailure",
	"Unsubscribing",
	"UnsubscribeSuccess",
	"UnsubscribeFailure",
	"RequestingMTU",
	"RequestMTUSuccess",
	"RequestMTUFailure",
	"ReadingRSSI",
	"ReadRSSISuccess",
	"ReadRSSIFailure",
	"ReadingPhy",
	"ReadPhySuccess",
	"ReadPhyFailure",
	"SettingPhy",
	"SetPhySuccess",
	"SetPhyFailure",

	"AddingService",
	"AddServiceSuccess",
	"AddServiceFailure",
	"RemovingService",
	"RemoveServiceSuccess",
	"RemoveServiceFailure",
	"ClearingServices",
	"ClearServicesSuccess",
	"ClearServicesFailure",
	"Notifying",
	"NotifySuccess",
	"NotifyFailure",
	"SendingResponse",
	"SendResponseSuccess",
	"SendResponseFailure",
}

// A compile error here means stateNames is out of step with the constants.
var _ = [1]struct{}{}[len(stateNames)-int(numStates)]

func (s State) String() string {
	if s < 0 || s >= numStates {
		return "State(?)"
	}
	return stateNames[s]
}

// step is the position of a state within its operation.
type step int

const (
	stepRest step = iota
	stepInProgress
	stepSuccess
	stepFailure
)

// step classifies s. Operation triples are laid out as in-progress,
// success, failure starting at StateDiscovering.
func (s State) step() step {
	switch s {
	case StateIdle, StateConnected, StateDisconnected, StateRadioOff:
		return stepRest
	case StateConnecting, StateDisconnecting:
		return stepInProgress
	case StateConnectFailure, StateDisconnectFailure:
		return stepFailure
	}
	if s < StateDiscovering || s >= numStates {
		return stepRest
	}
	return step((s-StateDiscovering)%3) + stepInProgress
}

// Busy reports whether s is the in-progress state of some operation.
func (s State) Busy() bool { return s.step() == stepInProgress }

// server reports whether s belongs to a server operation.
func (s State) server() bool { return s >= StateAddingService && s < numStates }

// LinkUp reports whether s implies an established link to the peer.
func (s State) LinkUp() bool {
	switch s {
	case StateConnected, StateDisconnectFailure:
		return true
	}
	if s.server() || s < StateDiscovering || s >= numStates {
		return false
	}
	return !s.Busy()
}

// LinkDown reports whether s implies there is no link to the peer.
func (s State) LinkDown() bool {
	switch s {
	case StateIdle, StateDisconnected, StateConnectFailure:
		return true
	}
	return false
}

// serverReady reports whether a server endpoint in state s may accept
// a new server operation.
func (s State) serverReady() bool {
	if s == StateIdle {
		return true
	}
	return s.server() && !s.Busy()
}

// settled returns the state s resolves to when its operation is
// abandoned: in-progress states map to their failure state.
func (s State) settled() State {
	switch s {
	case StateConnecting:
		return StateConnectFailure
	case StateDisconnecting:
		return StateDisconnectFailure
	}
	if s.Busy() {
		return s + 2
	}
	return s
}

// IsAny reports whether s is one of states.
func (s State) IsAny(states ...State) bool {
	for _, other := range states {
		if s == other {
			return true
		}
	}
	return false
}
