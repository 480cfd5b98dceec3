package gatt

import (
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout = 60 * time.Second
	defaultMaxTTL  = 10
)

type options struct {
	timeout time.Duration
	maxTTL  int
	log     logrus.FieldLogger
}

func defaultOptions() options {
	return options{
		timeout: defaultTimeout,
		maxTTL:  defaultMaxTTL,
		log:     logrus.StandardLogger(),
	}
}

func (o *options) apply(opts []Option) {
	for _, opt := range opts {
		opt(o)
	}
}

// An Option configures a Registry or a connection. Applying an Option
// returns an Option that restores the previous value.
// See http://commandcenter.blogspot.com.au/2014/01/self-referential-functions-and-design.html for more discussion.
type Option func(*options) Option

// DefaultTimeout sets the timeout of transactions that do not set their own.
// Non-positive durations are ignored.
func DefaultTimeout(d time.Duration) Option {
	return func(o *options) Option {
		prev := o.timeout
		if d > 0 {
			o.timeout = d
		}
		return DefaultTimeout(prev)
	}
}

// MaxTTL sets the number of registry sweeps a disconnected connection
// survives after its last successful transaction.
func MaxTTL(n int) Option {
	return func(o *options) Option {
		prev := o.maxTTL
		if n >= 0 {
			o.maxTTL = n
		}
		return MaxTTL(prev)
	}
}

// Logger sets the logger connections and the registry report to.
func Logger(l logrus.FieldLogger) Option {
	return func(o *options) Option {
		prev := o.log
		if l != nil {
			o.log = l
		}
		return Logger(prev)
	}
}

// A TxOption configures a Transaction or Composite.
type TxOption func(*txOptions)

type txOptions struct {
	name    string
	timeout time.Duration
}

// Name sets the name results of the transaction carry.
func Name(n string) TxOption {
	return func(o *txOptions) { o.name = n }
}

// Timeout sets the transaction's own timeout.
func Timeout(d time.Duration) TxOption {
	return func(o *txOptions) { o.timeout = d }
}
