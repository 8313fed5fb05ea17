package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/queueworks/mqconnect/pkg/logger"
	"github.com/queueworks/mqconnect/pkg/mqerrors"
)

// keyPrefix is the root under which every configuration key is nested, in
// files ("mq:"), environment variables ("MQ_*") and overrides alike. Pool
// keys sit one level deeper ("mq.pool.*", "MQ_POOL_*").
const keyPrefix = "mq"

// LoadOptions controls a Load call.
type LoadOptions struct {
	// Path to a YAML configuration file. Optional; when empty only
	// defaults, environment variables and overrides apply.
	Path string

	// Overrides are key/value pairs applied on top of every other source,
	// keyed by the bare key name ("queue_manager", "pool.max_connections").
	// The CLI feeds explicitly-set flags through here.
	Overrides map[string]string
}

// Load builds a ConnectionConfig by merging, lowest precedence first:
// schema defaults, the YAML file (with ${VAR} environment substitution
// applied to its raw content), environment variables, and explicit
// overrides. After the merge the effective cipher-mapping flag is
// propagated to the process-wide property and the result is validated,
// so malformed values and illegal field combinations fail here rather
// than at connection time.
func Load(opts LoadOptions) (*ConnectionConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Path != "" {
		data, err := os.ReadFile(opts.Path)
		if err != nil {
			return nil, mqerrors.Wrap(err, mqerrors.ErrorTypeConfig, "failed to read config file").
				WithDetail("path", opts.Path)
		}
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader([]byte(substituteEnvVars(string(data))))); err != nil {
			return nil, mqerrors.Wrap(err, mqerrors.ErrorTypeConfig, "failed to parse config file").
				WithDetail("path", opts.Path)
		}
		logger.Get().Debug("loaded configuration file", zap.String("path", opts.Path))
	}

	for k, val := range opts.Overrides {
		v.Set(key(k), val)
	}

	cfg := NewConnectionConfig()
	cfg.QueueManager = v.GetString(key("queue_manager"))
	cfg.Channel = v.GetString(key("channel"))
	cfg.ConnName = v.GetString(key("conn_name"))
	cfg.ClientID = v.GetString(key("client_id"))
	cfg.User = v.GetString(key("user"))
	cfg.Password = v.GetString(key("password"))
	cfg.UseMQCSPAuthentication = v.GetBool(key("use_mqcsp_authentication"))
	cfg.TLSCipherSuite = v.GetString(key("tls_cipher_suite"))
	cfg.TLSCipherSpec = v.GetString(key("tls_cipher_spec"))
	cfg.TLSPeerName = v.GetString(key("tls_peer_name"))
	cfg.CCDTURL = v.GetString(key("ccdt_url"))

	cfg.Pool.Enabled = v.GetBool(key("pool.enabled"))
	cfg.Pool.BlockIfFull = v.GetBool(key("pool.block_if_full"))
	cfg.Pool.MaxConnections = v.GetInt(key("pool.max_connections"))
	cfg.Pool.MaxSessionsPerConnection = v.GetInt(key("pool.max_sessions_per_connection"))
	cfg.Pool.UseAnonymousProducers = v.GetBool(key("pool.use_anonymous_producers"))

	var err error
	if cfg.Pool.BlockIfFullTimeout, err = getDuration(v, "pool.block_if_full_timeout"); err != nil {
		return nil, err
	}
	if cfg.Pool.IdleTimeout, err = getDuration(v, "pool.idle_timeout"); err != nil {
		return nil, err
	}
	if cfg.Pool.ExpirationCheckInterval, err = getDuration(v, "pool.expiration_check_interval"); err != nil {
		return nil, err
	}

	// Configuration is complete; publish the cipher-mapping choice for the
	// connection library before handing the config out.
	cfg.SetUseIBMCipherMappings(v.GetBool(key("use_ibm_cipher_mappings")))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file, nested under the root
// prefix so the file can be loaded back with Load.
func Save(path string, cfg *ConnectionConfig) error {
	data, err := yaml.Marshal(map[string]*ConnectionConfig{keyPrefix: cfg})
	if err != nil {
		return mqerrors.Wrap(err, mqerrors.ErrorTypeConfig, "failed to marshal configuration")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return mqerrors.Wrap(err, mqerrors.ErrorTypeConfig, "failed to write config file").
			WithDetail("path", path)
	}
	return nil
}

func key(name string) string {
	return keyPrefix + "." + name
}

func setDefaults(v *viper.Viper) {
	defaults := NewConnectionConfig()
	v.SetDefault(key("queue_manager"), defaults.QueueManager)
	v.SetDefault(key("channel"), defaults.Channel)
	v.SetDefault(key("conn_name"), defaults.ConnName)
	v.SetDefault(key("client_id"), defaults.ClientID)
	v.SetDefault(key("user"), defaults.User)
	v.SetDefault(key("password"), defaults.Password)
	v.SetDefault(key("use_mqcsp_authentication"), defaults.UseMQCSPAuthentication)
	v.SetDefault(key("tls_cipher_suite"), defaults.TLSCipherSuite)
	v.SetDefault(key("tls_cipher_spec"), defaults.TLSCipherSpec)
	v.SetDefault(key("tls_peer_name"), defaults.TLSPeerName)
	v.SetDefault(key("use_ibm_cipher_mappings"), defaults.UseIBMCipherMappings)
	v.SetDefault(key("ccdt_url"), defaults.CCDTURL)

	v.SetDefault(key("pool.enabled"), defaults.Pool.Enabled)
	v.SetDefault(key("pool.block_if_full"), defaults.Pool.BlockIfFull)
	v.SetDefault(key("pool.block_if_full_timeout"), defaults.Pool.BlockIfFullTimeout.String())
	v.SetDefault(key("pool.idle_timeout"), defaults.Pool.IdleTimeout.String())
	v.SetDefault(key("pool.max_connections"), defaults.Pool.MaxConnections)
	v.SetDefault(key("pool.max_sessions_per_connection"), defaults.Pool.MaxSessionsPerConnection)
	v.SetDefault(key("pool.expiration_check_interval"), defaults.Pool.ExpirationCheckInterval.String())
	v.SetDefault(key("pool.use_anonymous_producers"), defaults.Pool.UseAnonymousProducers)
}

// getDuration reads a duration key that accepts both bare-millisecond and
// duration-literal forms.
func getDuration(v *viper.Viper, name string) (Duration, error) {
	d, err := ParseDuration(v.GetString(key(name)))
	if err != nil {
		return 0, mqerrors.Wrap(err, mqerrors.ErrorTypeConfig, "invalid value for "+key(name)).
			WithDetail("key", key(name))
	}
	return d, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		content = content[:start] + os.Getenv(varName) + content[end+1:]
	}
	return content
}
