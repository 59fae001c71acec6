package secrets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/scan-io-git/xray-worker/internal/config"
	werrors "github.com/scan-io-git/xray-worker/internal/errors"
)

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) (string, error) {
	return "", errors.New("permission denied")
}

func TestStoreLookup(t *testing.T) {
	ctx := context.Background()

	s := NewStore(Static{WebhookURL: "https://hooks.example.com/x", WebhookAuth: ""}, nil)
	v, ok := s.Lookup(ctx, WebhookURL)
	assert.True(t, ok)
	assert.Equal(t, "https://hooks.example.com/x", v)

	_, ok = s.Lookup(ctx, WebhookAuth)
	assert.False(t, ok, "empty values are absent")

	_, ok = s.Lookup(ctx, "UNKNOWN")
	assert.False(t, ok)

	_, ok = NewStore(failingBackend{}, nil).Lookup(ctx, WebhookURL)
	assert.False(t, ok, "backend failures are absent")
}

func TestEnvBackend(t *testing.T) {
	env := map[string]string{"XRAY_WEBHOOK_URL": "https://hooks.example.com/x"}
	backend := EnvBackend{
		Prefix: "XRAY_",
		Lookup: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}

	v, err := backend.Get(context.Background(), WebhookURL)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/x", v)

	_, err = backend.Get(context.Background(), WebhookAuth)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.yml")
	require.NoError(t, os.WriteFile(path, []byte("WEBHOOK_URL: https://hooks.example.com/x\n"), 0o600))

	backend := FileBackend{Path: path}
	v, err := backend.Get(context.Background(), WebhookURL)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/x", v)

	_, err = backend.Get(context.Background(), WebhookAuth)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = FileBackend{Path: filepath.Join(t.TempDir(), "missing.yml")}.Get(context.Background(), WebhookURL)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestKubernetesBackend(t *testing.T) {
	client := fake.NewSimpleClientset(&corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "xray-worker", Namespace: "artifactory"},
		Data: map[string][]byte{
			WebhookURL: []byte("https://hooks.example.com/x"),
		},
	})
	ctx := context.Background()

	backend := NewKubernetesBackend(client, "artifactory", "xray-worker")
	v, err := backend.Get(ctx, WebhookURL)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/x", v)

	_, err = backend.Get(ctx, WebhookAuth)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = NewKubernetesBackend(client, "artifactory", "absent").Get(ctx, WebhookURL)
	assert.ErrorIs(t, err, ErrNotFound)
}

type fakeSecretsManager struct {
	secretsmanageriface.SecretsManagerAPI
	values map[string]string
	err    error
}

func (f *fakeSecretsManager) GetSecretValueWithContext(_ aws.Context, in *secretsmanager.GetSecretValueInput, _ ...request.Option) (*secretsmanager.GetSecretValueOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.values[aws.StringValue(in.SecretId)]
	if !ok {
		return nil, awserr.New(secretsmanager.ErrCodeResourceNotFoundException, "not found", nil)
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(v)}, nil
}

func TestAWSBackend(t *testing.T) {
	ctx := context.Background()
	api := &fakeSecretsManager{values: map[string]string{
		"xray/WEBHOOK_URL": "https://hooks.example.com/prefixed",
		"xray-worker":      `{"WEBHOOK_URL":"https://hooks.example.com/json","WEBHOOK_AUTH":"token"}`,
		"broken":           `not-json`,
	}}

	t.Run("per-name secrets", func(t *testing.T) {
		backend := NewAWSBackend(api, "", "xray/")
		v, err := backend.Get(ctx, WebhookURL)
		require.NoError(t, err)
		assert.Equal(t, "https://hooks.example.com/prefixed", v)

		_, err = backend.Get(ctx, WebhookAuth)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("json secret", func(t *testing.T) {
		backend := NewAWSBackend(api, "xray-worker", "")
		v, err := backend.Get(ctx, WebhookAuth)
		require.NoError(t, err)
		assert.Equal(t, "token", v)

		_, err = backend.Get(ctx, "OTHER")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed json secret", func(t *testing.T) {
		_, err := NewAWSBackend(api, "broken", "").Get(ctx, WebhookURL)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("api failure", func(t *testing.T) {
		failing := &fakeSecretsManager{err: awserr.New("AccessDeniedException", "denied", nil)}
		_, ok := NewStore(NewAWSBackend(failing, "", ""), nil).Lookup(ctx, WebhookURL)
		assert.False(t, ok)
	})
}

func TestFromConfig(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_URL", "https://hooks.example.com/env")

	s, err := FromConfig(&config.Secrets{Backend: config.SecretsBackendEnv, EnvPrefix: "TEST_"}, nil)
	require.NoError(t, err)
	v, ok := s.Lookup(context.Background(), WebhookURL)
	assert.True(t, ok)
	assert.Equal(t, "https://hooks.example.com/env", v)

	_, err = FromConfig(&config.Secrets{Backend: "vault"}, nil)
	var notImplemented *werrors.NotImplementedError
	assert.True(t, errors.As(err, &notImplemented))
}
