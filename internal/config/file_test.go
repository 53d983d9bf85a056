package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadConfig(t *testing.T) {
	t.Run("valid config file", func(t *testing.T) {
		path := writeFile(t, `clusters:
  - name: dev
    brokers:
      - localhost:9092
      - localhost:9093
    client_id: cp-dev
    retry_prefix: "retry."
    max_concurrency: 4
    request_timeout: 2s
    throughput_window: 1500ms
  - name: prod
    brokers:
      - kafka1.prod:9092
    tls:
      enabled: true
      ca_file: /path/to/ca.pem
    sasl:
      mechanism: SCRAM-SHA-256
      username: admin
      password: secret
`)
		cfg, err := ReadConfig(path)
		require.NoError(t, err)
		require.Len(t, cfg.Clusters, 2)

		dev := cfg.Clusters[0]
		require.Equal(t, "dev", dev.Name)
		require.Equal(t, []string{"localhost:9092", "localhost:9093"}, dev.Brokers)
		require.Equal(t, "cp-dev", dev.ClientID)
		require.Equal(t, "retry.", dev.RetryTopicPrefix())
		require.Equal(t, 4, dev.Concurrency())
		require.Equal(t, 2*time.Second, dev.Timeout())
		require.Equal(t, 1500*time.Millisecond, dev.ThroughputWindow)

		prod := cfg.Clusters[1]
		require.NotNil(t, prod.TLS)
		require.True(t, prod.TLS.Enabled)
		require.NotNil(t, prod.SASL)
		require.Equal(t, "SCRAM-SHA-256", prod.SASL.Mechanism)
		require.Equal(t, DefaultRetryPrefix, prod.RetryTopicPrefix())
		require.Equal(t, DefaultMaxConcurrency, prod.Concurrency())
		require.Equal(t, DefaultRequestTimeout, prod.Timeout())
		require.Zero(t, prod.ThroughputWindow)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadConfig(filepath.Join(t.TempDir(), "nope.yml"))
		require.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := ReadConfig(writeFile(t, "clusters: [\n"))
		require.Error(t, err)
	})

	t.Run("duplicate names", func(t *testing.T) {
		_, err := ReadConfig(writeFile(t, `clusters:
  - name: a
    brokers: [b1:9092]
  - name: a
    brokers: [b2:9092]
`))
		require.True(t, errors.Is(err, ErrDuplicateCluster))
	})

	t.Run("empty file", func(t *testing.T) {
		cfg, err := ReadConfig(writeFile(t, ""))
		require.NoError(t, err)
		require.Empty(t, cfg.Clusters)
	})
}

func TestAdHoc(t *testing.T) {
	cfg := AdHoc(" b1:9092, ,b2:9092 ")
	require.Equal(t, "default", cfg.Name)
	require.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Brokers)
}

func TestGetAuthType(t *testing.T) {
	tests := []struct {
		name     string
		config   ClusterConfig
		expected string
	}{
		{"plaintext", ClusterConfig{}, "PLAINTEXT"},
		{"tls only", ClusterConfig{TLS: &TLSConfig{Enabled: true, CAFile: "ca.pem"}}, "TLS"},
		{"mtls", ClusterConfig{TLS: &TLSConfig{Enabled: true, CertFile: "c.pem", KeyFile: "k.pem"}}, "mTLS"},
		{"sasl plain", ClusterConfig{SASL: &SASLConfig{Mechanism: "PLAIN"}}, "SASL/PLAIN"},
		{"sasl over tls", ClusterConfig{TLS: &TLSConfig{Enabled: true}, SASL: &SASLConfig{Mechanism: "SCRAM-SHA-512"}}, "SASL/SCRAM-SHA-512 + TLS"},
		{"aws iam", ClusterConfig{AWS: &AWSConfig{IAM: true}}, "AWS IAM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.config.GetAuthType())
		})
	}
}

func TestCertificateStatus(t *testing.T) {
	tmpDir := t.TempDir()
	now := time.Now()

	createTestCert := func(filename string, notAfter time.Time) string {
		priv, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		template := x509.Certificate{
			SerialNumber:          big.NewInt(1),
			Subject:               pkix.Name{Organization: []string{"Test"}},
			NotBefore:             now.AddDate(0, 0, -60),
			NotAfter:              notAfter,
			KeyUsage:              x509.KeyUsageDigitalSignature,
			BasicConstraintsValid: true,
		}
		der, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
		require.NoError(t, err)
		path := filepath.Join(tmpDir, filename)
		require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0644))
		return path
	}

	tests := []struct {
		name     string
		notAfter time.Time
		expected string
	}{
		{"valid", now.AddDate(0, 0, 90), "valid"},
		{"warning", now.AddDate(0, 0, 20), "warning"},
		{"critical", now.AddDate(0, 0, 5), "critical"},
		{"expired", now.AddDate(0, 0, -5), "expired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ClusterConfig{TLS: &TLSConfig{Enabled: true, CertFile: createTestCert(tt.name+".pem", tt.notAfter)}}
			status, err := cfg.CertificateStatus(now)
			require.NoError(t, err)
			require.Equal(t, tt.expected, status)
		})
	}

	t.Run("no certificate configured", func(t *testing.T) {
		for _, cfg := range []ClusterConfig{{}, {TLS: &TLSConfig{}}, {TLS: &TLSConfig{Enabled: true}}} {
			status, err := cfg.CertificateStatus(now)
			require.NoError(t, err)
			require.Empty(t, status)
		}
	})
}
