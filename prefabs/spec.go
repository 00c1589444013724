package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// EntityBuildSpec is a prefab: a name plus one raw entry per component.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

// DecodeComponentSpec re-decodes one raw component entry into its typed spec.
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

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Spec) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

type TransformComponentSpec struct {
	Position Vec3Spec `yaml:"position"`
	Yaw      float64  `yaml:"yaw"`
	Pitch    float64  `yaml:"pitch"`
}

type BodyComponentSpec struct {
	Radius float64  `yaml:"radius"`
	Height float64  `yaml:"height"`
	Layers []string `yaml:"layers"`
}

type CameraComponentSpec struct {
	EyeHeight float64 `yaml:"eye_height"`
}

type PlayerMotorComponentSpec struct {
	Speed             float64   `yaml:"speed"`
	Gravity           float64   `yaml:"gravity"`
	JumpHeight        float64   `yaml:"jump_height"`
	MouseSensitivity  float64   `yaml:"mouse_sensitivity"`
	GroundDistance    float64   `yaml:"ground_distance"`
	GroundCheckOffset *Vec3Spec `yaml:"ground_check_offset"`
	StickVelocity     float64   `yaml:"stick_velocity"`
	PitchLimit        float64   `yaml:"pitch_limit"`
	GroundLayers      []string  `yaml:"ground_layers"`
}

type NavAgentComponentSpec struct {
	Speed            float64 `yaml:"speed"`
	StoppingDistance float64 `yaml:"stopping_distance"`
}

type EnemyBrainComponentSpec struct {
	SightRange         float64  `yaml:"sight_range"`
	AttackRange        float64  `yaml:"attack_range"`
	WalkpointRange     float64  `yaml:"walkpoint_range"`
	TimeBetweenAttacks float64  `yaml:"time_between_attacks"`
	ForwardImpulse     float64  `yaml:"forward_impulse"`
	UpwardImpulse      float64  `yaml:"upward_impulse"`
	GroundProbe        float64  `yaml:"ground_probe"`
	ArriveDistance     float64  `yaml:"arrive_distance"`
	PlayerLayers       []string `yaml:"player_layers"`
	GroundLayers       []string `yaml:"ground_layers"`
	Selector           string   `yaml:"selector"`
	MinDwell           float64  `yaml:"min_dwell"`
	Script             string   `yaml:"script"`
	Projectile         string   `yaml:"projectile"`
}

type GizmosComponentSpec struct {
	AttackColor *YAMLColor `yaml:"attack_color"`
	SightColor  *YAMLColor `yaml:"sight_color"`
}

type ProjectileComponentSpec struct {
	Radius    float64  `yaml:"radius"`
	Mass      float64  `yaml:"mass"`
	Layers    []string `yaml:"layers"`
	HitLayers []string `yaml:"hit_layers"`
}

type TTLComponentSpec struct {
	Seconds float64 `yaml:"seconds"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// MarshalYAML writes the color back as #rrggbbaa so re-decoding a raw
// component entry keeps it.
func (c YAMLColor) MarshalYAML() (any, error) {
	if c.Color == nil {
		return nil, nil
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A), nil
}
