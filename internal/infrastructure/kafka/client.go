package kafka

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"os"
	"strings"
	"time"

	"github.com/OliveiraNt/consumer-progress/internal/config"
	"github.com/OliveiraNt/consumer-progress/internal/domain"
	"github.com/OliveiraNt/consumer-progress/internal/utils"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl"
	"github.com/twmb/franz-go/pkg/sasl/aws"
	"github.com/twmb/franz-go/pkg/sasl/plain"
	"github.com/twmb/franz-go/pkg/sasl/scram"
)

// Client implements domain.AdminQueryClient using franz-go.
type Client struct {
	client *kgo.Client
	admin  *Admin
	config config.ClusterConfig
}

// NewClient creates a new admin client from configuration. No connection is made
// until the first query.
func NewClient(cfg config.ClusterConfig) (*Client, error) {
	var opts []kgo.Opt

	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	if len(cfg.Brokers) > 0 {
		opts = append(opts, kgo.SeedBrokers(cfg.Brokers...))
	}
	if cfg.TLS != nil && cfg.TLS.Enabled {
		tlsCfg, err := buildTLSConfig(cfg.TLS)
		if err != nil {
			return nil, err
		}
		opts = append(opts, kgo.DialTLSConfig(tlsCfg))
		warnCertificate(cfg)
	}
	if cfg.SASL != nil && cfg.SASL.Mechanism != "" {
		if mech := buildSASLMechanism(cfg.SASL); mech != nil {
			opts = append(opts, kgo.SASL(mech))
		}
	}
	if cfg.AWS != nil && cfg.AWS.IAM {
		if mech := buildAWSMechanism(cfg.AWS); mech != nil {
			opts = append(opts, kgo.SASL(mech))
		}
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, err
	}

	utils.Logger.Debug("kafka client created", "cluster", cfg.Name, "brokers", len(cfg.Brokers), "auth", cfg.GetAuthType())
	return &Client{
		client: client,
		admin:  NewAdmin(kadm.NewClient(client), cfg.Timeout(), cfg.ThroughputWindow),
		config: cfg,
	}, nil
}

// ListTopics returns every topic name, internal topics included.
func (c *Client) ListTopics(ctx context.Context) ([]string, error) {
	if c == nil || c.admin == nil {
		return nil, ErrConnection
	}
	return c.admin.ListTopics(ctx)
}

// QueryStats returns the consume progress of a group.
func (c *Client) QueryStats(ctx context.Context, group string) (*domain.GroupStats, error) {
	if c == nil || c.admin == nil {
		return nil, ErrRemoteQuery
	}
	return c.admin.QueryStats(ctx, group)
}

// QueryConnectionInfo returns the live members of a group.
func (c *Client) QueryConnectionInfo(ctx context.Context, group string) (*domain.GroupConnectionInfo, error) {
	if c == nil || c.admin == nil {
		return nil, ErrRemoteQuery
	}
	return c.admin.QueryConnectionInfo(ctx, group)
}

// Close releases resources
func (c *Client) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}

func warnCertificate(cfg config.ClusterConfig) {
	status, err := cfg.CertificateStatus(time.Now())
	if err != nil {
		utils.Logger.Warn("client certificate unreadable", "cluster", cfg.Name, "err", err)
		return
	}
	if status == "warning" || status == "critical" || status == "expired" {
		utils.Logger.Warn("client certificate close to expiry", "cluster", cfg.Name, "status", status)
	}
}

// buildTLSConfig reads cert files and builds a tls.Config
func buildTLSConfig(t *config.TLSConfig) (*tls.Config, error) {
	cfg := &tls.Config{InsecureSkipVerify: t.InsecureSkipVerify}

	if t.CAFile != "" {
		b, err := os.ReadFile(t.CAFile)
		if err != nil {
			return nil, err
		}
		pool := x509.NewCertPool()
		pool.AppendCertsFromPEM(b)
		cfg.RootCAs = pool
	}

	if t.CertFile != "" && t.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(t.CertFile, t.KeyFile)
		if err != nil {
			return nil, err
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}

func envOr(name, fallback string) string {
	if name != "" {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return fallback
}

// buildSASLMechanism returns nil for unsupported mechanisms.
func buildSASLMechanism(s *config.SASLConfig) sasl.Mechanism {
	user := envOr(s.UsernameEnv, s.Username)
	pass := envOr(s.PasswordEnv, s.Password)

	switch strings.ToUpper(strings.ReplaceAll(s.Mechanism, "_", "-")) {
	case "PLAIN":
		return plain.Auth{User: user, Pass: pass}.AsMechanism()
	case "SCRAM-SHA-256", "SCRAM-SHA256":
		return scram.Auth{User: user, Pass: pass}.AsSha256Mechanism()
	case "SCRAM-SHA-512", "SCRAM-SHA512":
		return scram.Auth{User: user, Pass: pass}.AsSha512Mechanism()
	}
	utils.Logger.Warn("unsupported sasl mechanism", "mechanism", s.Mechanism)
	return nil
}

// buildAWSMechanism returns nil when no credentials are available.
func buildAWSMechanism(a *config.AWSConfig) sasl.Mechanism {
	access := envOr(a.AccessKeyEnv, os.Getenv("AWS_ACCESS_KEY_ID"))
	secret := envOr(a.SecretKeyEnv, os.Getenv("AWS_SECRET_ACCESS_KEY"))
	session := envOr(a.SessionTokenEnv, os.Getenv("AWS_SESSION_TOKEN"))
	if access == "" || secret == "" {
		return nil
	}
	return aws.Auth{
		AccessKey:    access,
		SecretKey:    secret,
		SessionToken: session,
	}.AsManagedStreamingIAMMechanism()
}
