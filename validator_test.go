package gatt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allKinds = []Kind{
	KindSetState, KindConnect, KindDisconnect, KindDiscoverServices,
	KindReadCharacteristic, KindWriteCharacteristic, KindReadDescriptor, KindWriteDescriptor,
	KindSubscribe, KindUnsubscribe, KindRequestMTU, KindReadRSSI, KindReadPhy, KindSetPhy,
	KindAddService, KindRemoveService, KindClearServices, KindNotify, KindSendResponse,
}

func allStates() []State {
	ss := make([]State, 0, numStates)
	for s := StateIdle; s < numStates; s++ {
		ss = append(ss, s)
	}
	return ss
}

func TestCheckTransactionTable(t *testing.T) {
	cases := []struct {
		cur    State
		kind   Kind
		target State
		want   Verdict
	}{
		{cur: StateDisconnected, kind: KindConnect, want: VerdictOK},
		{cur: StateIdle, kind: KindConnect, want: VerdictOK},
		{cur: StateConnectFailure, kind: KindConnect, want: VerdictOK},
		{cur: StateConnected, kind: KindConnect, want: VerdictInvalidTargetState},
		{cur: StateConnecting, kind: KindConnect, want: VerdictInProgress},

		{cur: StateDisconnected, kind: KindReadCharacteristic, want: VerdictInvalidTargetState},
		{cur: StateDisconnected, kind: KindWriteCharacteristic, want: VerdictInvalidTargetState},
		{cur: StateDisconnected, kind: KindReadDescriptor, want: VerdictInvalidTargetState},
		{cur: StateDisconnected, kind: KindWriteDescriptor, want: VerdictInvalidTargetState},
		{cur: StateConnected, kind: KindWriteCharacteristic, want: VerdictOK},
		{cur: StateReadCharacteristicFailure, kind: KindWriteCharacteristic, want: VerdictOK},
		{cur: StateDisconnectFailure, kind: KindReadRSSI, want: VerdictOK},
		{cur: StateWritingCharacteristic, kind: KindReadCharacteristic, want: VerdictInProgress},

		{cur: StateConnected, kind: KindDisconnect, want: VerdictOK},
		{cur: StateConnecting, kind: KindDisconnect, want: VerdictOK},
		{cur: StateDisconnected, kind: KindDisconnect, want: VerdictInvalidTargetState},
		{cur: StateSubscribing, kind: KindDisconnect, want: VerdictInProgress},

		{cur: StateDiscovering, kind: KindDiscoverServices, want: VerdictOK},
		{cur: StateDiscoverySuccess, kind: KindDiscoverServices, want: VerdictOK},
		{cur: StateIdle, kind: KindDiscoverServices, want: VerdictInvalidTargetState},

		{cur: StateIdle, kind: KindAddService, want: VerdictOK},
		{cur: StateAddServiceSuccess, kind: KindNotify, want: VerdictOK},
		{cur: StateNotifyFailure, kind: KindSendResponse, want: VerdictOK},
		{cur: StateNotifying, kind: KindNotify, want: VerdictInProgress},
		{cur: StateConnected, kind: KindAddService, want: VerdictInvalidTargetState},

		{cur: StateRadioOff, kind: KindConnect, want: VerdictRadioOff},
		{cur: StateRadioOff, kind: KindAddService, want: VerdictRadioOff},
		{cur: StateRadioOff, kind: KindSetState, target: StateIdle, want: VerdictOK},
		{cur: StateRadioOff, kind: KindSetState, target: StateDisconnected, want: VerdictOK},
		{cur: StateRadioOff, kind: KindSetState, target: StateConnected, want: VerdictRadioOff},
		{cur: StateWritingDescriptor, kind: KindSetState, target: StateConnected, want: VerdictOK},
	}

	for _, tt := range cases {
		tx := NewTransaction(nil, tt.kind, Request{State: tt.target})
		assert.Equal(t, tt.want, CheckTransaction(tt.cur, tx), "%s from %s", tt.kind, tt.cur)
	}
}

func TestCheckTransactionExhaustive(t *testing.T) {
	for _, cur := range allStates() {
		for _, k := range allKinds {
			tx := NewTransaction(nil, k, Request{State: StateConnected})
			v := CheckTransaction(cur, tx)
			assert.Equal(t, v, CheckTransaction(cur, tx), "nondeterministic for %s from %s", k, cur)

			switch {
			case cur == StateRadioOff:
				assert.Equal(t, VerdictRadioOff, v, "%s from RadioOff", k)
			case k == KindSetState:
				assert.Equal(t, VerdictOK, v, "SetState from %s", cur)
			case v == VerdictInProgress:
				assert.True(t, cur.Busy(), "%s from %s reported in progress", k, cur)
			case v == VerdictOK && k.Role() == RoleClient && k != KindConnect && k != KindDisconnect && k != KindDiscoverServices:
				assert.True(t, cur.LinkUp(), "%s allowed from %s", k, cur)
			}
			if cur.LinkDown() && k.Role() == RoleClient && k != KindConnect {
				assert.NotEqual(t, VerdictOK, v, "%s allowed from %s", k, cur)
			}
		}
	}
}

func TestStateFamilies(t *testing.T) {
	for _, s := range allStates() {
		assert.NotEmpty(t, s.String())
		assert.False(t, s.LinkUp() && s.LinkDown(), "%s both up and down", s)
		if s.Busy() {
			assert.False(t, s.LinkUp(), "%s busy and up", s)
			assert.NotEqual(t, s, s.settled(), "%s does not settle", s)
			assert.False(t, s.settled().Busy(), "%s settles to busy %s", s, s.settled())
		} else {
			assert.Equal(t, s, s.settled())
		}
	}
	assert.Equal(t, StateConnectFailure, StateConnecting.settled())
	assert.Equal(t, StateDisconnectFailure, StateDisconnecting.settled())
	assert.Equal(t, StateWriteCharacteristicFailure, StateWritingCharacteristic.settled())
	assert.Equal(t, "State(?)", State(99).String())
}

func TestKindStates(t *testing.T) {
	for _, k := range allKinds {
		if k.local() {
			continue
		}
		p, s, f := k.States()
		assert.True(t, p.Busy(), "%s progress %s", k, p)
		assert.Equal(t, f, p.settled(), "%s", k)
		assert.False(t, s.Busy())
	}
	assert.Panics(t, func() { Kind(99).States() })
}
