package secrets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"

	"github.com/scan-io-git/xray-worker/internal/config"
)

// AWSBackend reads secrets from AWS Secrets Manager.
//
// With a SecretID, all names are keys of one JSON secret. Without it, every name is a
// separate secret called Prefix+name.
type AWSBackend struct {
	api      secretsmanageriface.SecretsManagerAPI
	secretID string
	prefix   string
}

// NewAWSBackend creates a backend on top of the given Secrets Manager API.
func NewAWSBackend(api secretsmanageriface.SecretsManagerAPI, secretID, prefix string) *AWSBackend {
	return &AWSBackend{
		api:      api,
		secretID: secretID,
		prefix:   prefix,
	}
}

// NewAWSBackendFromConfig creates a session for the configured region.
func NewAWSBackendFromConfig(cfg *config.AWS) (*AWSBackend, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	})
	if err != nil {
		return nil, err
	}
	return NewAWSBackend(secretsmanager.New(sess), cfg.SecretID, cfg.Prefix), nil
}

// Get implements Backend.
func (a *AWSBackend) Get(ctx context.Context, name string) (string, error) {
	if a.secretID == "" {
		return a.getSecretString(ctx, a.prefix+name)
	}

	raw, err := a.getSecretString(ctx, a.secretID)
	if err != nil {
		return "", err
	}

	values := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return "", fmt.Errorf("secret %q is not a JSON object of strings: %w", a.secretID, err)
	}
	v, ok := values[name]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (a *AWSBackend) getSecretString(ctx context.Context, id string) (string, error) {
	out, err := a.api.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == secretsmanager.ErrCodeResourceNotFoundException {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get secret %q: %w", id, err)
	}
	return aws.StringValue(out.SecretString), nil
}
