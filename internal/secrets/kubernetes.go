package secrets

import (
	"context"
	"fmt"
	"path/filepath"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/scan-io-git/xray-worker/internal/config"
)

// KubernetesBackend reads secrets from the keys of a single Secret object.
type KubernetesBackend struct {
	client     kubernetes.Interface
	namespace  string
	secretName string
}

// NewKubernetesBackend creates a backend for the Secret namespace/secretName.
func NewKubernetesBackend(client kubernetes.Interface, namespace, secretName string) *KubernetesBackend {
	return &KubernetesBackend{
		client:     client,
		namespace:  namespace,
		secretName: secretName,
	}
}

// NewKubernetesBackendFromConfig uses the in-cluster configuration when available and falls back to a kubeconfig file.
func NewKubernetesBackendFromConfig(cfg *config.Kubernetes) (*KubernetesBackend, error) {
	restConfig, err := rest.InClusterConfig()
	if err != nil {
		kubeconfig := cfg.Kubeconfig
		if kubeconfig == "" {
			kubeconfig = filepath.Join(homedir.HomeDir(), ".kube", "config")
		}
		restConfig, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("failed to load kubeconfig %q: %w", kubeconfig, err)
		}
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, err
	}
	return NewKubernetesBackend(clientset, cfg.Namespace, cfg.SecretName), nil
}

// Get implements Backend.
func (k *KubernetesBackend) Get(ctx context.Context, name string) (string, error) {
	secret, err := k.client.CoreV1().Secrets(k.namespace).Get(ctx, k.secretName, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get secret %s/%s: %w", k.namespace, k.secretName, err)
	}

	if v, ok := secret.Data[name]; ok {
		return string(v), nil
	}
	if v, ok := secret.StringData[name]; ok {
		return v, nil
	}
	return "", ErrNotFound
}
