// Package gatt runs Bluetooth Low Energy GATT operations against an
// unreliable native stack.
//
// Gatt (Generic Attribute Profile) is the protocol used to talk to
// BLE peripherals (servers) and centrals (clients). This package does not
// drive a radio. It sits on top of a native stack adapter (see Stack) and
// makes sure that every operation is issued from a legal protocol state,
// that a connection runs one operation at a time, and that every request
// gets exactly one result, even when the stack answers late, twice, or
// not at all.
//
// CONNECTIONS
//
// A ClientConn talks to one remote peripheral; the ServerConn is the local
// GATT server. Each has a protocol State, a FIFO transaction queue served
// by one worker goroutine, and a callback goroutine on which results and
// listener events are delivered.
//
//     reg := gatt.NewRegistry(stack, gatt.DefaultTimeout(10*time.Second))
//     c := reg.Open(gatt.MustParseBDAddr("c4:7c:8d:6a:3b:11"))
//
//     c.Connect().Commit(func(r gatt.Result) {
//     	log.Println("connect:", r.Status, r.State)
//     })
//
// TRANSACTIONS
//
// A Transaction is one operation. Before it reaches the stack it is
// checked with CheckTransaction; a rejected transaction fails without
// touching the stack. Transactions that do reach the stack finish with
// whichever comes first, the stack's answer or the timeout, and move the
// connection to the operation's success or failure state.
//
// Hooks are transactions that run on the same queue slot as their parent:
//
//     svc := gatt.UUID16(0x180d)
//     tx := c.WriteCharacteristic(svc, gatt.UUID16(0x2a39), []byte{1}, true)
//     tx.AddPreCommit(c.WriteDescriptor(svc, gatt.UUID16(0x2a39),
//     	gatt.ClientCharacteristicConfigUUID, gatt.CCCNotify))
//     tx.Commit(cb)
//
// A failing precommit hook fails its parent. Postcommit hooks run after a
// successful operation and the last one's result is the one delivered.
//
// A Composite runs several transactions back to back and stops at the
// first one that fails.
//
// REGISTRY
//
// A Registry maps peer addresses to connections. It never schedules work
// by itself: the owner calls Sweep periodically to evict connections that
// stayed down for MaxTTL sweeps, and RadioOff/RadioOn when the radio goes
// away and comes back.
//
// The sim package provides a scriptable Stack for tests.
package gatt
