package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is an entity prefab: a name plus raw component blocks.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type ActorComponentSpec struct {
	Name string `yaml:"name"`
}

type TransformComponentSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Z      float64 `yaml:"z"`
	Facing float64 `yaml:"facing"`
}

type PhysicsBodyComponentSpec struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Mass     float64 `yaml:"mass"`
	Friction float64 `yaml:"friction"`
	Static   bool    `yaml:"static"`
}

type AnimationComponentSpec struct {
	FrameEvents *bool `yaml:"frame_events"`
}

type MotionControllerComponentSpec struct {
	Posture string `yaml:"posture"`
	Locked  bool   `yaml:"locked"`
}
