package prefabs

import (
	"bytes"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/motionseq/logging"
	"github.com/milk9111/motionseq/motion"
)

const (
	DefaultDefsPath  = "motion_sequencer_defs.def"
	DefaultClipsPath = "clips.yaml"
)

// Library is a fully resolved set of motion definitions, ready to be
// installed in a sequencer.
type Library struct {
	Catalog     *motion.Catalog
	Transitions *motion.TransitionTable
	DefaultCOG  map[motion.Posture]mgl64.Vec3
	Clips       map[string]*motion.Clip
}

// Install swaps the library into s. Call it between ticks.
func (l *Library) Install(s *motion.Sequencer) {
	s.Swap(l.Catalog, l.Transitions, l.DefaultCOG)
}

// LoadLibrary reads and resolves a defs file against a clips file.
func LoadLibrary(defsPath, clipsPath string) (*Library, error) {
	if defsPath == "" {
		defsPath = DefaultDefsPath
	}
	if clipsPath == "" {
		clipsPath = DefaultClipsPath
	}
	data, err := Load(defsPath)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", defsPath, err)
	}
	defs, err := ParseDefs(bytes.NewReader(data), defsPath)
	if err != nil {
		return nil, err
	}
	clips, err := LoadClipsSpec(clipsPath)
	if err != nil {
		return nil, err
	}
	lib, err := BuildLibrary(defs, clips)
	if err != nil {
		return nil, fmt.Errorf("prefabs: build %s: %w", defsPath, err)
	}

	log := logging.WithComponent("prefabs")
	log.Info().
		Str(logging.FieldPath, defsPath).
		Int("sequences", lib.Catalog.Len()).
		Int("transitions", lib.Transitions.Len()).
		Int("clips", len(lib.Clips)).
		Msg("motion library loaded")
	return lib, nil
}

// BuildLibrary resolves parsed definitions against clip timing data.
func BuildLibrary(defs *Defs, clips ClipsSpec) (*Library, error) {
	clipSet, err := clips.Build(defs.ClipFlags())
	if err != nil {
		return nil, err
	}
	b := libraryBuilder{clips: clipSet}

	seqs := make([]*motion.Sequence, 0, len(defs.Sequences))
	for _, sd := range defs.Sequences {
		motions, err := b.descriptors(sd.Motions)
		if err != nil {
			return nil, fmt.Errorf("sequence %q: %w", sd.Name, err)
		}
		seqs = append(seqs, motion.NewSequence(sd.Name, motions...))
	}
	catalog, err := motion.NewCatalog(seqs...)
	if err != nil {
		return nil, err
	}

	transitions := make([]*motion.Sequence, 0, len(defs.Transitions))
	for _, td := range defs.Transitions {
		motions, err := b.descriptors(td.Motions)
		if err != nil {
			return nil, fmt.Errorf("transition %q: %w", td.Name, err)
		}
		transitions = append(transitions, motion.NewTransitionSequence(td.Name, td.From, td.To, motions...))
	}
	table, err := motion.NewTransitionTable(transitions...)
	if err != nil {
		return nil, err
	}

	cog := make(map[motion.Posture]mgl64.Vec3, len(defs.DefaultCOG))
	for p, v := range defs.DefaultCOG {
		cog[p] = v
	}

	return &Library{
		Catalog:     catalog,
		Transitions: table,
		DefaultCOG:  cog,
		Clips:       clipSet,
	}, nil
}

type libraryBuilder struct {
	clips map[string]*motion.Clip
}

func (b libraryBuilder) descriptors(defs []MotionDef) ([]*motion.Descriptor, error) {
	out := make([]*motion.Descriptor, 0, len(defs))
	for _, md := range defs {
		clip, ok := b.clips[md.Clip]
		if !ok {
			return nil, fmt.Errorf("line %d: %w: %q", md.Line, ErrUnknownClip, md.Clip)
		}
		d := motion.NewDescriptor(clip)
		d.RepeatCount = md.Reps
		d.Looping = md.Loop
		d.TransitionGuard = md.Loop
		d.Immediate = md.Immediate
		d.NotifyOnInterrupt = md.NotifyInterrupt
		d.NotifyEnd = md.NotifyEnd
		d.Callbacks = append([]motion.Callback(nil), md.Callbacks...)
		out = append(out, d)
	}
	return out, nil
}
