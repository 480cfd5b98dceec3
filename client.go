package gatt

// A ClientConn is a connection to a remote peripheral. Operations on it
// are built as transactions and run in order on its queue.
type ClientConn struct {
	*Conn
	listeners listenerSet[ClientListener]
}

// NewClientConn returns an idle connection to the peripheral at addr.
// Nothing is sent to the stack until a transaction is committed.
func NewClientConn(stack Stack, addr BDAddr, opts ...Option) *ClientConn {
	c := &ClientConn{Conn: newConn(RoleClient, addr, stack, opts)}
	c.onState = func(from, to State) {
		for _, l := range c.listeners.snapshot() {
			l.StateChanged(c, from, to)
		}
	}
	return c
}

// RegisterListener adds l to the listeners of c. Registering a listener
// that is already registered has no effect.
// It panics if l is nil.
func (c *ClientConn) RegisterListener(l ClientListener) { c.listeners.add(l) }

// UnregisterListener removes l from the listeners of c.
func (c *ClientConn) UnregisterListener(l ClientListener) { c.listeners.remove(l) }

// DeliverNotification hands a notification or indication value received
// from the peer to the listeners. value is copied.
func (c *ClientConn) DeliverNotification(char UUID, value []byte) {
	value = cloneBytes(value)
	c.dispatch(func() {
		for _, l := range c.listeners.snapshot() {
			l.Notified(c, char, value)
		}
	})
}

// removed tells the listeners c is being dropped by the registry.
func (c *ClientConn) removed() {
	c.dispatch(func() {
		for _, l := range c.listeners.snapshot() {
			l.Removed(c)
		}
	})
}

// Connect returns a transaction that opens the link to the peer.
func (c *ClientConn) Connect(opts ...TxOption) *Transaction {
	return NewTransaction(c.Conn, KindConnect, Request{}, opts...)
}

// Disconnect returns a transaction that closes the link to the peer.
func (c *ClientConn) Disconnect(opts ...TxOption) *Transaction {
	return NewTransaction(c.Conn, KindDisconnect, Request{}, opts...)
}

// DiscoverServices returns a transaction that discovers the peer's
// services. The result carries them in Services.
func (c *ClientConn) DiscoverServices(opts ...TxOption) *Transaction {
	return NewTransaction(c.Conn, KindDiscoverServices, Request{}, opts...)
}

// ReadCharacteristic returns a transaction that reads the value of a
// characteristic.
func (c *ClientConn) ReadCharacteristic(svc, char UUID, opts ...TxOption) *Transaction {
	return NewTransaction(c.Conn, KindReadCharacteristic, Request{Service: svc, Characteristic: char}, opts...)
}

// WriteCharacteristic returns a transaction that writes value to a
// characteristic. value is copied.
func (c *ClientConn) WriteCharacteristic(svc, char UUID, value []byte, withResponse bool, opts ...TxOption) *Transaction {
	req := Request{Service: svc, Characteristic: char, Value: value, WithResponse: withResponse}
	return NewTransaction(c.Conn, KindWriteCharacteristic, req, opts...)
}

// ReadDescriptor returns a transaction that reads the value of a descriptor.
func (c *ClientConn) ReadDescriptor(svc, char, desc UUID, opts ...TxOption) *Transaction {
	req := Request{Service: svc, Characteristic: char, Descriptor: desc}
	return NewTransaction(c.Conn, KindReadDescriptor, req, opts...)
}

// WriteDescriptor returns a transaction that writes value to a descriptor.
func (c *ClientConn) WriteDescriptor(svc, char, desc UUID, value []byte, opts ...TxOption) *Transaction {
	req := Request{Service: svc, Characteristic: char, Descriptor: desc, Value: value, WithResponse: true}
	return NewTransaction(c.Conn, KindWriteDescriptor, req, opts...)
}

// Subscribe returns a transaction that asks the stack to route the
// characteristic's notifications to this connection.
func (c *ClientConn) Subscribe(svc, char UUID, opts ...TxOption) *Transaction {
	return NewTransaction(c.Conn, KindSubscribe, Request{Service: svc, Characteristic: char}, opts...)
}

// Unsubscribe is the inverse of Subscribe.
func (c *ClientConn) Unsubscribe(svc, char UUID, opts ...TxOption) *Transaction {
	return NewTransaction(c.Conn, KindUnsubscribe, Request{Service: svc, Characteristic: char}, opts...)
}

// RequestMTU returns a transaction that negotiates the MTU.
func (c *ClientConn) RequestMTU(mtu int, opts ...TxOption) *Transaction {
	return NewTransaction(c.Conn, KindRequestMTU, Request{MTU: mtu}, opts...)
}

func (c *ClientConn) ReadRSSI(opts ...TxOption) *Transaction {
	return NewTransaction(c.Conn, KindReadRSSI, Request{}, opts...)
}

func (c *ClientConn) ReadPhy(opts ...TxOption) *Transaction {
	return NewTransaction(c.Conn, KindReadPhy, Request{}, opts...)
}

func (c *ClientConn) SetPhy(tx, rx Phy, opts ...TxOption) *Transaction {
	return NewTransaction(c.Conn, KindSetPhy, Request{TxPhy: tx, RxPhy: rx}, opts...)
}

// EnableNotifications returns a composite that subscribes to char and then
// writes its Client Characteristic Configuration descriptor. With
// indicate set, indications are enabled instead of notifications.
func (c *ClientConn) EnableNotifications(svc, char UUID, indicate bool, opts ...TxOption) *Composite {
	ccc := CCCNotify
	if indicate {
		ccc = CCCIndicate
	}
	opts = append([]TxOption{Name("EnableNotifications")}, opts...)
	return NewComposite(c.Conn, []Tx{
		c.Subscribe(svc, char),
		c.WriteDescriptor(svc, char, ClientCharacteristicConfigUUID, ccc),
	}, opts...)
}

// DisableNotifications undoes EnableNotifications.
func (c *ClientConn) DisableNotifications(svc, char UUID, opts ...TxOption) *Composite {
	opts = append([]TxOption{Name("DisableNotifications")}, opts...)
	return NewComposite(c.Conn, []Tx{
		c.WriteDescriptor(svc, char, ClientCharacteristicConfigUUID, CCCDisable),
		c.Unsubscribe(svc, char),
	}, opts...)
}
