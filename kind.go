package gatt

// Kind is the type of protocol operation a Transaction performs.
type Kind int

const (
	KindSetState Kind = iota
	KindConnect
	KindDisconnect
	KindDiscoverServices
	KindReadCharacteristic
	KindWriteCharacteristic
	KindReadDescriptor
	KindWriteDescriptor
	KindSubscribe
	KindUnsubscribe
	KindRequestMTU
	KindReadRSSI
	KindReadPhy
	KindSetPhy

	KindAddService
	KindRemoveService
	KindClearServices
	KindNotify
	KindSendResponse
)

func (k Kind) String() string {
	str := []string{
		"SetState",
		"Connect",
		"Disconnect",
		"DiscoverServices",
		"ReadCharacteristic",
		"WriteCharacteristic",
		"ReadDescriptor",
		"WriteDescriptor",
		"Subscribe",
		"Unsubscribe",
		"RequestMTU",
		"ReadRSSI",
		"ReadPhy",
		"SetPhy",
		"AddService",
		"RemoveService",
		"ClearServices",
		"Notify",
		"SendResponse",
	}
	if k < 0 || int(k) >= len(str) {
		return "Kind(?)"
	}
	return str[k]
}

// Role says which side of a connection a Kind runs on.
type Role int

const (
	RoleAny Role = iota
	RoleClient
	RoleServer
)

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleServer:
		return "server"
	default:
		return "any"
	}
}

// States returns the in-progress, success and failure states of k.
// KindSetState has no fixed states; its target comes from the request.
func (k Kind) States() (progress, success, failure State) {
	switch k {
	case KindSetState:
		return StateIdle, StateIdle, StateIdle
	case KindConnect:
		return StateConnecting, StateConnected, StateConnectFailure
	case KindDisconnect:
		return StateDisconnecting, StateDisconnected, StateDisconnectFailure
	case KindDiscoverServices:
		return StateDiscovering, StateDiscoverySuccess, StateDiscoveryFailure
	case KindReadCharacteristic:
		return StateReadingCharacteristic, StateReadCharacteristicSuccess, StateReadCharacteristicFailure
	case KindWriteCharacteristic:
		return StateWritingCharacteristic, StateWriteCharacteristicSuccess, StateWriteCharacteristicFailure
	case KindReadDescriptor:
		return StateReadingDescriptor, StateReadDescriptorSuccess, StateReadDescriptorFailure
	case KindWriteDescriptor:
		return StateWritingDescriptor, StateWriteDescriptorSuccess, StateWriteDescriptorFailure
	case KindSubscribe:
		return StateSubscribing, StateSubscribeSuccess, StateSubscribeFailure
	case KindUnsubscribe:
		return StateUnsubscribing, StateUnsubscribeSuccess, StateUnsubscribeFailure
	case KindRequestMTU:
		return StateRequestingMTU, StateRequestMTUSuccess, StateRequestMTUFailure
	case KindReadRSSI:
		return StateReadingRSSI, StateReadRSSISuccess, StateReadRSSIFailure
	case KindReadPhy:
		return StateReadingPhy, StateReadPhySuccess, StateReadPhyFailure
	case KindSetPhy:
		return StateSettingPhy, StateSetPhySuccess, StateSetPhyFailure
	case KindAddService:
		return StateAddingService, StateAddServiceSuccess, StateAddServiceFailure
	case KindRemoveService:
		return StateRemovingService, StateRemoveServiceSuccess, StateRemoveServiceFailure
	case KindClearServices:
		return StateClearingServices, StateClearServicesSuccess, StateClearServicesFailure
	case KindNotify:
		return StateNotifying, StateNotifySuccess, StateNotifyFailure
	case KindSendResponse:
		return StateSendingResponse, StateSendResponseSuccess, StateSendResponseFailure
	}
	panic("gatt: unknown transaction kind " + k.String())
}

// Role returns the connection role k runs on.
func (k Kind) Role() Role {
	switch k {
	case KindSetState:
		return RoleAny
	case KindAddService, KindRemoveService, KindClearServices, KindNotify, KindSendResponse:
		return RoleServer
	}
	return RoleClient
}

// local reports whether k is bookkeeping that never reaches the native stack.
func (k Kind) local() bool { return k == KindSetState }
