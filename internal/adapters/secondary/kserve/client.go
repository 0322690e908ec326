package kserve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"soil-nutrient-service/internal/config"
	output "soil-nutrient-service/internal/core/ports/output"
)

var inferenceServiceGVR = schema.GroupVersionResource{
	Group:    "serving.kserve.io",
	Version:  "v1beta1",
	Resource: "inferenceservices",
}

type kserveClient struct {
	client    dynamic.Interface
	enabled   bool
	defaultNS string
}

// NewKServeClient returns a read-only InferenceService lookup. With the
// integration disabled it returns a client that reports itself unavailable.
func NewKServeClient(cfg *config.KubernetesConfig) (output.KServeClient, error) {
	if !cfg.Enabled {
		return &kserveClient{enabled: false}, nil
	}

	var restCfg *rest.Config
	var err error

	if cfg.InCluster {
		restCfg, err = rest.InClusterConfig()
	} else if cfg.KubeConfigPath != "" {
		restCfg, err = clientcmd.BuildConfigFromFlags("", cfg.KubeConfigPath)
	} else {
		home, _ := os.UserHomeDir()
		kubeconfig := filepath.Join(home, ".kube", "config")
		restCfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	}
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	client, err := dynamic.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}

	return newWithDynamic(client, cfg.DefaultNS), nil
}

func newWithDynamic(client dynamic.Interface, defaultNS string) *kserveClient {
	if defaultNS == "" {
		defaultNS = "model-serving"
	}
	return &kserveClient{
		client:    client,
		enabled:   true,
		defaultNS: defaultNS,
	}
}

func (c *kserveClient) IsAvailable() bool {
	return c.enabled
}

// GetStatus reads the InferenceService a remote artifact points at. The
// service is only looked up, never created or patched; an empty namespace
// falls back to the configured default.
func (c *kserveClient) GetStatus(ctx context.Context, namespace, name string) (*output.KServeStatus, error) {
	if !c.enabled {
		return nil, fmt.Errorf("kserve lookup of %s: kubernetes integration disabled", name)
	}
	if namespace == "" {
		namespace = c.defaultNS
	}

	obj, err := c.client.Resource(inferenceServiceGVR).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("look up inferenceservice %s/%s: %w", namespace, name, err)
	}
	return parseStatus(obj), nil
}

// parseStatus extracts what a predictor needs to call the model: where it
// is served and whether the Ready condition holds. The public status.url
// wins over the cluster-local status.address.url.
func parseStatus(obj *unstructured.Unstructured) *output.KServeStatus {
	status := &output.KServeStatus{}

	status.URL, _, _ = unstructured.NestedString(obj.Object, "status", "url")
	if status.URL == "" {
		status.URL, _, _ = unstructured.NestedString(obj.Object, "status", "address", "url")
	}

	ready, ok := readyCondition(obj)
	if !ok {
		return status
	}
	status.Ready = ready["status"] == "True"
	if !status.Ready {
		status.Error, _ = ready["message"].(string)
		if status.Error == "" {
			status.Error, _ = ready["reason"].(string)
		}
	}
	return status
}

func readyCondition(obj *unstructured.Unstructured) (map[string]interface{}, bool) {
	conditions, _, _ := unstructured.NestedSlice(obj.Object, "status", "conditions")
	for _, cond := range conditions {
		m, ok := cond.(map[string]interface{})
		if ok && m["type"] == "Ready" {
			return m, true
		}
	}
	return nil, false
}

// Ensure interface compliance
var _ output.KServeClient = (*kserveClient)(nil)
