package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestValidatePublisherConfigRejectsMissingHTTP(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "h1",
		Type: TypeHTTP,
	})
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestLoadRegistryParsesCloudPublishers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - id: " topic "
    type: SNS
    sns:
      topic_arn: arn:aws:sns:eu-west-1:123:subscribers
      region: eu-west-1
      credentials:
        access_key_id: AKIA
        secret_access_key: secret
  - id: pubsub
    type: gcp_pubsub
    gcp_pubsub:
      project_id: devcorner
      topic: subscribers
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	sns, ok := reg.ByID("topic")
	if !ok || sns.Type != TypeSNS || sns.SNS.Credentials == nil || sns.SNS.Credentials.AccessKeyID != "AKIA" {
		t.Fatalf("unexpected sns config %#v", sns)
	}
	if ps, ok := reg.ByID("pubsub"); !ok || ps.GCPPubSub.Topic != "subscribers" {
		t.Fatalf("unexpected pubsub config %#v", ps)
	}
}

func TestValidatePublisherConfigRejectsHalfCredentials(t *testing.T) {
	cfg := sanitizePublisherConfig(PublisherConfig{
		ID:   "q",
		Type: TypeSQS,
		SQS: &SQSPublisherConfig{
			QueueURL:    "https://sqs/q",
			Region:      "eu-west-1",
			Credentials: &AWSCredentials{AccessKeyID: "AKIA"},
		},
	})
	if err := validatePublisherConfig(cfg); err == nil {
		t.Fatalf("expected error for missing secret key")
	}
}

func TestValidatePublisherConfigRequiresPubSubTopic(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:        "ps",
		Type:      TypeGCPPubSub,
		GCPPubSub: &GCPPubSubPublisherConfig{ProjectID: "p"},
	})
	if err == nil {
		t.Fatalf("expected validation error for missing topic")
	}
}
