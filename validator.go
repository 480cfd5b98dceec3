package gatt

// Verdict is the outcome of checking a transaction against the current
// connection state.
type Verdict int

const (
	VerdictOK Verdict = iota
	VerdictInvalidTargetState
	VerdictRadioOff
	VerdictInProgress
)

func (v Verdict) String() string {
	str := []string{
		"OK",
		"InvalidTargetState",
		"RadioOff",
		"InProgress",
	}
	if v < 0 || int(v) >= len(str) {
		return "Verdict(?)"
	}
	return str[v]
}

// CheckTransaction reports whether t may run on a connection in state cur.
// It has no side effects and depends only on cur, t's kind and, for
// KindSetState, t's target state.
func CheckTransaction(cur State, t *Transaction) Verdict {
	return checkKind(cur, t.kind, t.req.State)
}

func checkKind(cur State, k Kind, target State) Verdict {
	if k == KindSetState {
		if cur == StateRadioOff && !target.IsAny(StateIdle, StateDisconnected) {
			return VerdictRadioOff
		}
		return VerdictOK
	}
	if cur == StateRadioOff {
		return VerdictRadioOff
	}

	var ok bool
	switch k {
	case KindConnect:
		ok = cur.LinkDown()
	case KindDisconnect:
		ok = cur.LinkUp() || cur == StateConnecting
	case KindDiscoverServices:
		ok = cur.LinkUp() || cur == StateDiscovering
	case KindReadCharacteristic, KindWriteCharacteristic,
		KindReadDescriptor, KindWriteDescriptor,
		KindSubscribe, KindUnsubscribe,
		KindRequestMTU, KindReadRSSI, KindReadPhy, KindSetPhy:
		ok = cur.LinkUp()
	case KindAddService, KindRemoveService, KindClearServices, KindNotify, KindSendResponse:
		ok = cur.serverReady()
	default:
		panic("gatt: unknown transaction kind " + k.String())
	}

	switch {
	case ok:
		return VerdictOK
	case cur.Busy():
		return VerdictInProgress
	}
	return VerdictInvalidTargetState
}
