// Package config reads the cluster list and per-cluster report settings from a YAML file.
package config

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultRetryPrefix is the prefix of the per-group retry topic.
	DefaultRetryPrefix    = "%RETRY%"
	DefaultMaxConcurrency = 8
	DefaultRequestTimeout = 5 * time.Second
)

// ClusterConfig holds cluster connectivity, security and report settings.
type ClusterConfig struct {
	Name     string      `yaml:"name" json:"name"`
	Brokers  []string    `yaml:"brokers" json:"brokers"`
	ClientID string      `yaml:"client_id,omitempty" json:"client_id,omitempty"`
	TLS      *TLSConfig  `yaml:"tls,omitempty" json:"tls,omitempty"`
	SASL     *SASLConfig `yaml:"sasl,omitempty" json:"sasl,omitempty"`
	AWS      *AWSConfig  `yaml:"aws,omitempty" json:"aws,omitempty"`

	// RetryPrefix overrides DefaultRetryPrefix for group discovery.
	RetryPrefix string `yaml:"retry_prefix,omitempty" json:"retry_prefix,omitempty"`
	// MaxConcurrency bounds the number of groups queried at once.
	MaxConcurrency int `yaml:"max_concurrency,omitempty" json:"max_concurrency,omitempty"`
	// RequestTimeout applies to every admin request.
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty" json:"request_timeout,omitempty"`
	// ThroughputWindow is how long committed offsets are sampled to estimate
	// consume TPS. Zero disables sampling and reports 0.
	ThroughputWindow time.Duration `yaml:"throughput_window,omitempty" json:"throughput_window,omitempty"`
}

// TLSConfig holds TLS related fields.
type TLSConfig struct {
	Enabled            bool   `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	CAFile             string `yaml:"ca_file,omitempty" json:"ca_file,omitempty"`
	CertFile           string `yaml:"cert_file,omitempty" json:"cert_file,omitempty"`
	KeyFile            string `yaml:"key_file,omitempty" json:"key_file,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify,omitempty" json:"insecure_skip_verify,omitempty"`
}

// SASLConfig holds SASL configuration. Credentials may be inline or read from env vars.
type SASLConfig struct {
	Mechanism   string `yaml:"mechanism,omitempty" json:"mechanism,omitempty"` // PLAIN, SCRAM-SHA-256, SCRAM-SHA-512
	Username    string `yaml:"username,omitempty" json:"username,omitempty"`
	Password    string `yaml:"password,omitempty" json:"-"`
	UsernameEnv string `yaml:"username_env,omitempty" json:"username_env,omitempty"`
	PasswordEnv string `yaml:"password_env,omitempty" json:"password_env,omitempty"`
}

// AWSConfig enables AWS MSK IAM authentication.
type AWSConfig struct {
	IAM             bool   `yaml:"iam,omitempty" json:"iam,omitempty"`
	Region          string `yaml:"region,omitempty" json:"region,omitempty"`
	AccessKeyEnv    string `yaml:"access_key_env,omitempty" json:"access_key_env,omitempty"`
	SecretKeyEnv    string `yaml:"secret_key_env,omitempty" json:"secret_key_env,omitempty"`
	SessionTokenEnv string `yaml:"session_token_env,omitempty" json:"session_token_env,omitempty"`
}

type FileConfig struct {
	Clusters []ClusterConfig `yaml:"clusters" json:"clusters"`
}

var ErrDuplicateCluster = errors.New("duplicate cluster name")

func ReadConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	seen := make(map[string]struct{}, len(cfg.Clusters))
	for _, c := range cfg.Clusters {
		if _, dup := seen[c.Name]; dup {
			return cfg, fmt.Errorf("%w: %s", ErrDuplicateCluster, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return cfg, nil
}

// AdHoc builds a cluster config from a comma separated broker list.
func AdHoc(brokers string) ClusterConfig {
	var list []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			list = append(list, b)
		}
	}
	return ClusterConfig{Name: "default", Brokers: list}
}

func (c *ClusterConfig) RetryTopicPrefix() string {
	if c.RetryPrefix == "" {
		return DefaultRetryPrefix
	}
	return c.RetryPrefix
}

func (c *ClusterConfig) Concurrency() int {
	if c.MaxConcurrency <= 0 {
		return DefaultMaxConcurrency
	}
	return c.MaxConcurrency
}

func (c *ClusterConfig) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return c.RequestTimeout
}

// GetAuthType returns a human-readable authentication type.
func (c *ClusterConfig) GetAuthType() string {
	if c.AWS != nil && c.AWS.IAM {
		return "AWS IAM"
	}
	tls := c.TLS != nil && c.TLS.Enabled
	if c.SASL != nil && c.SASL.Mechanism != "" {
		if tls {
			return "SASL/" + c.SASL.Mechanism + " + TLS"
		}
		return "SASL/" + c.SASL.Mechanism
	}
	if tls {
		if c.TLS.CertFile != "" && c.TLS.KeyFile != "" {
			return "mTLS"
		}
		return "TLS"
	}
	return "PLAINTEXT"
}

// CertificateStatus reports the validity of the client certificate: "" when no
// certificate is configured, otherwise "valid", "warning" (30 days or less),
// "critical" (7 days or less) or "expired".
func (c *ClusterConfig) CertificateStatus(now time.Time) (string, error) {
	if c.TLS == nil || !c.TLS.Enabled || c.TLS.CertFile == "" {
		return "", nil
	}
	certPEM, err := os.ReadFile(c.TLS.CertFile)
	if err != nil {
		return "", err
	}
	block, _ := pem.Decode(certPEM)
	if block == nil {
		return "", nil
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return "", err
	}

	days := int(cert.NotAfter.Sub(now).Hours() / 24)
	switch {
	case now.After(cert.NotAfter):
		return "expired", nil
	case days <= 7:
		return "critical", nil
	case days <= 30:
		return "warning", nil
	}
	return "valid", nil
}
