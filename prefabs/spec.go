package prefabs

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/motionseq/motion"
)

// ErrUnknownClip is returned when a definition references a clip that has
// no timing data.
var ErrUnknownClip = errors.New("prefabs: unknown clip")

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

// ClipSpec is the timing data of one clip in clips.yaml.
type ClipSpec struct {
	Name          string       `yaml:"name"`
	Frames        int32        `yaml:"frames"`
	TicksPerFrame int32        `yaml:"ticks_per_frame"`
	From          string       `yaml:"from"`
	To            string       `yaml:"to"`
	Root          [][3]float64 `yaml:"root"`
}

// ClipsSpec is the clips.yaml document.
type ClipsSpec struct {
	DefaultTicksPerFrame int32      `yaml:"default_ticks_per_frame"`
	Clips                []ClipSpec `yaml:"clips"`
}

func LoadClipsSpec(filename string) (ClipsSpec, error) {
	return LoadSpec[ClipsSpec](filename)
}

// Build converts the specs into clips, applying per-clip flags.
func (s ClipsSpec) Build(flags map[string]motion.ClipFlags) (map[string]*motion.Clip, error) {
	tpf := s.DefaultTicksPerFrame
	if tpf <= 0 {
		tpf = 1000 / 30
	}
	out := make(map[string]*motion.Clip, len(s.Clips))
	for _, cs := range s.Clips {
		if cs.Name == "" {
			return nil, fmt.Errorf("prefabs: clip without a name")
		}
		if cs.Frames <= 0 {
			return nil, fmt.Errorf("prefabs: clip %q: frames must be positive", cs.Name)
		}
		from, err := motion.ParsePosture(cs.From)
		if err != nil {
			return nil, fmt.Errorf("prefabs: clip %q: %w", cs.Name, err)
		}
		to := from
		if cs.To != "" {
			if to, err = motion.ParsePosture(cs.To); err != nil {
				return nil, fmt.Errorf("prefabs: clip %q: %w", cs.Name, err)
			}
		}
		clip := &motion.Clip{
			Name:              cs.Name,
			FrameCount:        cs.Frames,
			BaseTicksPerFrame: cs.TicksPerFrame,
			From:              from,
			To:                to,
			Flags:             flags[cs.Name],
		}
		if clip.BaseTicksPerFrame <= 0 {
			clip.BaseTicksPerFrame = tpf
		}
		for _, r := range cs.Root {
			clip.Root = append(clip.Root, mgl64.Vec3{r[0], r[1], r[2]})
		}
		out[cs.Name] = clip
	}
	return out, nil
}

// SceneActorSpec places one actor prefab in a scene.
type SceneActorSpec struct {
	Name     string     `yaml:"name"`
	Prefab   string     `yaml:"prefab"`
	Position [3]float64 `yaml:"position"`
	Posture  string     `yaml:"posture"`
	Sequence string     `yaml:"sequence"`
}

// SceneSpec lists the actors spawned at startup.
type SceneSpec struct {
	Name   string           `yaml:"name"`
	Actors []SceneActorSpec `yaml:"actors"`
}

func LoadSceneSpec(filename string) (SceneSpec, error) {
	return LoadSpec[SceneSpec](filename)
}
