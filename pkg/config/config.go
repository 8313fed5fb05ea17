// Package config defines the connection configuration schema for mqconnect.
// It provides a single ConnectionConfig structure describing how to reach an
// IBM MQ queue manager (endpoint, credentials, channel, TLS cipher
// selection) together with a nested PoolConfig describing the desired shape
// of a reusable connection pool.
//
// The configuration is a plain data holder: it applies defaults, exposes
// values, and performs validation only when asked. Establishing
// connections, pooling them, and negotiating TLS are the responsibility of
// the downstream MQ client library consuming these values.
//
// The default values match the settings of the MQ developer container:
//
//	queue_manager = QM1
//	conn_name     = localhost(1414)
//	channel       = DEV.ADMIN.SVRCONN
//	user          = admin
//	password      = passw0rd
//
// Example usage:
//
//	cfg := config.NewConnectionConfig()
//	cfg.QueueManager = "PROD.QM"
//	cfg.Pool.Enabled = true
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/queueworks/mqconnect/pkg/mqerrors"
)

// CipherMappingsProperty is the process-wide property mirrored by
// SetUseIBMCipherMappings. The MQ client library reads it at connection
// time to decide between the IBM and Oracle cipher-suite name mappings
// rather than taking the flag as an explicit parameter.
const CipherMappingsProperty = "MQ_CFG_USE_IBM_CIPHER_MAPPINGS"

// ConnectionConfig holds the identity and credentials needed to reach one
// queue manager. Unset string fields are the empty string and mean "not
// provided" to the consumer, never an explicit empty value.
type ConnectionConfig struct {
	// QueueManager is the MQ queue manager name
	QueueManager string `yaml:"queue_manager" json:"queue_manager"`

	// Channel is the server-connection channel, for example
	// "SYSTEM.DEF.SVRCONN". Mutually exclusive with CCDTURL.
	Channel string `yaml:"channel" json:"channel"`

	// ConnName is the hostname or address and port, in the form
	// 'system.example.com(1414)'
	ConnName string `yaml:"conn_name" json:"conn_name"`

	// ClientID identifies this client to the queue manager
	ClientID string `yaml:"client_id" json:"client_id"`

	// User is the MQ user name
	User string `yaml:"user" json:"user"`

	// Password is the MQ password
	Password string `yaml:"password" json:"password"`

	// UseMQCSPAuthentication overrides the authentication mode. This should
	// not normally be needed with current maintenance levels of MQ V8 or
	// V9, but some earlier levels sometimes got it wrong and then this flag
	// can be set to false.
	UseMQCSPAuthentication bool `yaml:"use_mqcsp_authentication" json:"use_mqcsp_authentication"`

	// TLSCipherSuite selects the cipher by its JSSE-style name, for example
	// "SSL_ECDHE_RSA_WITH_AES_256_GCM_SHA384". Set either TLSCipherSuite or
	// TLSCipherSpec, not both.
	TLSCipherSuite string `yaml:"tls_cipher_suite" json:"tls_cipher_suite"`

	// TLSCipherSpec selects the cipher by its MQ-style name, for example
	// "ECDHE_RSA_AES_256_GCM_SHA384". Set either TLSCipherSuite or
	// TLSCipherSpec, not both.
	TLSCipherSpec string `yaml:"tls_cipher_spec" json:"tls_cipher_spec"`

	// TLSPeerName is a distinguished name skeleton that must match the one
	// presented by the queue manager
	TLSPeerName string `yaml:"tls_peer_name" json:"tls_peer_name"`

	// UseIBMCipherMappings selects the IBM cipher-suite name maps; set it
	// to false to use the Oracle mapping convention instead. Assign through
	// SetUseIBMCipherMappings so the process-wide property stays in sync.
	UseIBMCipherMappings bool `yaml:"use_ibm_cipher_mappings" json:"use_ibm_cipher_mappings"`

	// CCDTURL locates the client channel definition table that describes
	// how to reach the queue manager, for example
	// "file:///home/admdata/ccdt1.tab". Mutually exclusive with Channel.
	CCDTURL string `yaml:"ccdt_url" json:"ccdt_url"`

	// Pool describes the desired connection pool shape
	Pool PoolConfig `yaml:"pool" json:"pool"`
}

// PoolConfig describes the desired shape and limits of a connection pool.
// The pooling library consuming the configuration enforces them; nothing
// here acquires or holds connections.
type PoolConfig struct {
	// Enabled selects a pooled connection factory instead of a plain one
	Enabled bool `yaml:"enabled" json:"enabled"`

	// BlockIfFull blocks connection requests while the pool is exhausted.
	// Set it to false to fail fast instead.
	BlockIfFull bool `yaml:"block_if_full" json:"block_if_full"`

	// BlockIfFullTimeout bounds how long an exhausted-pool request blocks
	// before failing. Negative means block indefinitely.
	BlockIfFullTimeout Duration `yaml:"block_if_full_timeout" json:"block_if_full_timeout"`

	// IdleTimeout is the connection idle timeout
	IdleTimeout Duration `yaml:"idle_timeout" json:"idle_timeout"`

	// MaxConnections caps the number of pooled connections
	MaxConnections int `yaml:"max_connections" json:"max_connections"`

	// MaxSessionsPerConnection caps the pooled sessions per connection
	MaxSessionsPerConnection int `yaml:"max_sessions_per_connection" json:"max_sessions_per_connection"`

	// ExpirationCheckInterval is the time between runs of the idle
	// connection eviction sweep. Negative disables the sweep entirely.
	ExpirationCheckInterval Duration `yaml:"expiration_check_interval" json:"expiration_check_interval"`

	// UseAnonymousProducers reuses a single anonymous producer instance.
	// Set it to false to create one producer every time one is required.
	UseAnonymousProducers bool `yaml:"use_anonymous_producers" json:"use_anonymous_producers"`
}

// NewConnectionConfig creates a ConnectionConfig with the documented
// defaults. The loader starts from these and layers file, environment and
// override values on top; code constructing a configuration by hand can
// override individual fields afterwards.
func NewConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		QueueManager:           "QM1",
		Channel:                "DEV.ADMIN.SVRCONN",
		ConnName:               "localhost(1414)",
		User:                   "admin",
		Password:               "passw0rd",
		UseMQCSPAuthentication: true,
		UseIBMCipherMappings:   true,
		Pool: PoolConfig{
			Enabled:                  false,
			BlockIfFull:              true,
			BlockIfFullTimeout:       Duration(-1 * time.Millisecond),
			IdleTimeout:              Duration(30 * time.Second),
			MaxConnections:           1,
			MaxSessionsPerConnection: 500,
			ExpirationCheckInterval:  Duration(-1 * time.Millisecond),
			UseAnonymousProducers:    true,
		},
	}
}

// SetUseIBMCipherMappings stores the flag and mirrors it into the
// process-wide CipherMappingsProperty, which the MQ client library reads at
// connection-establishment time. The property always reflects the most
// recent call.
func (c *ConnectionConfig) SetUseIBMCipherMappings(use bool) {
	os.Setenv(CipherMappingsProperty, strconv.FormatBool(use))
	c.UseIBMCipherMappings = use
}

// UsesCCDT returns true if a client channel definition table is configured
func (c *ConnectionConfig) UsesCCDT() bool {
	return c.CCDTURL != ""
}

// TLSConfigured returns true if a TLS cipher has been selected in either
// naming convention
func (c *ConnectionConfig) TLSConfigured() bool {
	return c.TLSCipherSuite != "" || c.TLSCipherSpec != ""
}

// Validate validates the configuration for correctness. It enforces the
// mutually-exclusive field pairs and checks that pool limits are within
// acceptable ranges. The loader calls this after the merge so that bad
// combinations fail at startup instead of surfacing later as an opaque
// connection-time error.
//
// Returns an error if validation fails, nil otherwise.
func (c *ConnectionConfig) Validate() error {
	if c.QueueManager == "" {
		return mqerrors.New(mqerrors.ErrorTypeValidation, "queue_manager is required")
	}
	if c.Channel == "" && c.CCDTURL == "" {
		return mqerrors.New(mqerrors.ErrorTypeValidation, "either channel or ccdt_url must be set")
	}
	if c.Channel != "" && c.CCDTURL != "" {
		return mqerrors.New(mqerrors.ErrorTypeValidation, "channel and ccdt_url are mutually exclusive").
			WithDetail("channel", c.Channel).
			WithDetail("ccdt_url", c.CCDTURL)
	}
	if c.TLSCipherSuite != "" && c.TLSCipherSpec != "" {
		return mqerrors.New(mqerrors.ErrorTypeValidation, "tls_cipher_suite and tls_cipher_spec are mutually exclusive").
			WithDetail("tls_cipher_suite", c.TLSCipherSuite).
			WithDetail("tls_cipher_spec", c.TLSCipherSpec)
	}
	return c.Pool.validate()
}

func (p *PoolConfig) validate() error {
	if p.MaxConnections <= 0 {
		return mqerrors.New(mqerrors.ErrorTypeValidation, "pool.max_connections must be positive").
			WithDetail("max_connections", p.MaxConnections)
	}
	if p.MaxSessionsPerConnection <= 0 {
		return mqerrors.New(mqerrors.ErrorTypeValidation, "pool.max_sessions_per_connection must be positive").
			WithDetail("max_sessions_per_connection", p.MaxSessionsPerConnection)
	}
	return nil
}

// BlocksIndefinitely returns true if exhausted-pool requests block with no
// upper bound
func (p *PoolConfig) BlocksIndefinitely() bool {
	return p.BlockIfFull && p.BlockIfFullTimeout < 0
}

// ExpirationCheckEnabled returns true if the pooling library should run a
// periodic idle-eviction sweep
func (p *PoolConfig) ExpirationCheckEnabled() bool {
	return p.ExpirationCheckInterval >= 0
}
