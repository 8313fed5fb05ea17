// Package mqconnect holds the connection configuration schema for IBM MQ
// clients: the named, typed, defaulted settings that describe how to reach
// a queue manager and how an external pooling library should size and
// manage its connections.
//
// The repository deliberately contains no connection, pooling or TLS
// handshake logic. It ships:
//
//   - pkg/config: the ConnectionConfig/PoolConfig schema with defaults,
//     validation, duration handling and a multi-source loader (YAML file,
//     MQ_* environment variables, explicit overrides)
//   - pkg/mqerrors: structured, categorized errors
//   - pkg/logger: zap-based structured logging
//   - cmd/mqconnect: a CLI to validate and inspect the effective
//     configuration
//
// Downstream code loads a ConnectionConfig at process start and reads it
// when constructing actual connections and pools.
package mqconnect
