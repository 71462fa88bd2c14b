package function

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Function custom resource coordinates.
const (
	Group    = "kubeless.io"
	Version  = "v1beta1"
	Kind     = "Function"
	Resource = "functions"
)

// Fixed trigger settings. HTTP is the only trigger this tool deploys, so
// these are constants rather than options.
const (
	TriggerType  = "HTTP"
	TriggerTopic = ""
)

// Labels set on every Function this tool creates.
const (
	LabelManagedBy      = "app.kubernetes.io/managed-by"
	labelManagedByValue = "kubeless-deploy"
)

// GroupVersionResource returns the GVR used to create Function objects.
func GroupVersionResource() schema.GroupVersionResource {
	return schema.GroupVersionResource{Group: Group, Version: Version, Resource: Resource}
}

// Spec is the spec block of a Function resource.
type Spec struct {
	Deps     string `json:"deps"`
	Function string `json:"function"`
	Handler  string `json:"handler"`
	Runtime  string `json:"runtime"`
	Topic    string `json:"topic"`
	Type     string `json:"type"`
}

// Descriptor is the Function resource for one deployment attempt. It is
// passed by value and never modified after Build.
type Descriptor struct {
	APIVersion string
	Kind       string
	Name       string
	Namespace  string
	Spec       Spec
}

// Build assembles the descriptor for a function from its resolved artifact
// content.
func Build(cfg Config, handlerContent, depsContent, namespace string) Descriptor {
	return Descriptor{
		APIVersion: Group + "/" + Version,
		Kind:       Kind,
		Name:       cfg.Name,
		Namespace:  namespace,
		Spec: Spec{
			Deps:     depsContent,
			Function: handlerContent,
			Handler:  cfg.Handler,
			Runtime:  cfg.Runtime,
			Topic:    TriggerTopic,
			Type:     TriggerType,
		},
	}
}

// Object returns a fresh unstructured representation of the descriptor.
func (d Descriptor) Object() *unstructured.Unstructured {
	obj := &unstructured.Unstructured{
		Object: map[string]interface{}{
			"spec": map[string]interface{}{
				"deps":     d.Spec.Deps,
				"function": d.Spec.Function,
				"handler":  d.Spec.Handler,
				"runtime":  d.Spec.Runtime,
				"topic":    d.Spec.Topic,
				"type":     d.Spec.Type,
			},
		},
	}
	obj.SetAPIVersion(d.APIVersion)
	obj.SetKind(d.Kind)
	obj.SetName(d.Name)
	obj.SetNamespace(d.Namespace)
	obj.SetLabels(map[string]string{LabelManagedBy: labelManagedByValue})

	return obj
}
