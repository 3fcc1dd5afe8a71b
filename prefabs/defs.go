package prefabs

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/motionseq/logging"
	"github.com/milk9111/motionseq/motion"
)

// MotionDef is one MOTION line of a sequence together with its callbacks.
type MotionDef struct {
	Clip            string
	Immediate       bool
	Loop            bool
	NotifyInterrupt bool
	NotifyEnd       bool
	Reps            int
	Callbacks       []motion.Callback
	Line            int
}

// SequenceDef is a BEGIN_SEQUENCE block.
type SequenceDef struct {
	Name    string
	Motions []MotionDef
	Line    int
}

// TransitionDef is a BEGIN_TRANSITION_SEQ block.
type TransitionDef struct {
	From    motion.Posture
	To      motion.Posture
	Name    string
	Motions []MotionDef
	Line    int
}

// Defs is the parsed content of a motion sequencer definitions file.
type Defs struct {
	Sequences     []SequenceDef
	Transitions   []TransitionDef
	DefaultCOG    map[motion.Posture]mgl64.Vec3
	ZIndependent  []string
	Sped          []string
	NoRootMotion  []string
	SkipLastFrame []string
}

// ClipFlags returns the declared flags per clip name.
func (d *Defs) ClipFlags() map[string]motion.ClipFlags {
	out := map[string]motion.ClipFlags{}
	mark := func(names []string, f motion.ClipFlags) {
		for _, n := range names {
			out[n] |= f
		}
	}
	mark(d.ZIndependent, motion.FlagZIndependent)
	mark(d.Sped, motion.FlagSped)
	mark(d.NoRootMotion, motion.FlagNoRootMotion)
	mark(d.SkipLastFrame, motion.FlagSkipLastFrame)
	return out
}

type defsLine struct {
	key    string
	params []string
	num    int
}

func (l defsLine) str(i int) string {
	if i < 0 || i >= len(l.params) {
		return ""
	}
	return l.params[i]
}

func (l defsLine) intParam(i int) (int, error) {
	s := l.str(i)
	if s == "" {
		return 0, fmt.Errorf("line %d: %s: missing parameter %d", l.num, l.key, i)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("line %d: %s: %w", l.num, l.key, err)
	}
	return n, nil
}

func (l defsLine) floatParam(i int) (float64, error) {
	s := l.str(i)
	if s == "" {
		return 0, fmt.Errorf("line %d: %s: missing parameter %d", l.num, l.key, i)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: %s: %w", l.num, l.key, err)
	}
	return f, nil
}

// splitDefsLine tokenizes one line. Tokens are separated by whitespace and
// may be double quoted. Blank lines and ';' comments yield ok=false.
func splitDefsLine(raw string) ([]string, bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, ";") {
		return nil, false
	}
	var tokens []string
	for i := 0; i < len(line); {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= len(line) {
			break
		}
		if line[i] == '"' {
			end := strings.IndexByte(line[i+1:], '"')
			if end < 0 {
				tokens = append(tokens, line[i+1:])
				break
			}
			tokens = append(tokens, line[i+1:i+1+end])
			i += end + 2
			continue
		}
		start := i
		for i < len(line) && line[i] != ' ' && line[i] != '\t' {
			i++
		}
		tokens = append(tokens, line[start:i])
	}
	return tokens, len(tokens) > 0
}

// ParseDefs reads a definitions file. source names the input in errors.
func ParseDefs(r io.Reader, source string) (*Defs, error) {
	log := logging.WithComponent("defs").With().Str(logging.FieldPath, source).Logger()
	p := &defsParser{defs: &Defs{DefaultCOG: map[motion.Posture]mgl64.Vec3{}}}

	sc := bufio.NewScanner(r)
	num := 0
	for sc.Scan() {
		num++
		tokens, ok := splitDefsLine(sc.Text())
		if !ok {
			continue
		}
		l := defsLine{key: tokens[0], params: tokens[1:], num: num}
		handled, err := p.apply(l)
		if err != nil {
			return nil, fmt.Errorf("prefabs: parse %s: %w", source, err)
		}
		if !handled {
			log.Warn().Int(logging.FieldLine, num).Str("key", l.key).Msg("unknown defs key ignored")
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("prefabs: read %s: %w", source, err)
	}
	p.closeBlocks()
	return p.defs, nil
}

type defsParser struct {
	defs       *Defs
	sequence   *SequenceDef
	transition *TransitionDef
}

func (p *defsParser) closeBlocks() {
	if p.transition != nil {
		p.defs.Transitions = append(p.defs.Transitions, *p.transition)
		p.transition = nil
	}
	if p.sequence != nil {
		p.defs.Sequences = append(p.defs.Sequences, *p.sequence)
		p.sequence = nil
	}
}

func (p *defsParser) currentMotions() *[]MotionDef {
	if p.transition != nil {
		return &p.transition.Motions
	}
	if p.sequence != nil {
		return &p.sequence.Motions
	}
	return nil
}

func (p *defsParser) apply(l defsLine) (bool, error) {
	switch l.key {
	case "BEGIN_SEQUENCE":
		p.closeBlocks()
		if l.str(0) == "" {
			return true, fmt.Errorf("line %d: BEGIN_SEQUENCE without a name", l.num)
		}
		p.sequence = &SequenceDef{Name: l.str(0), Line: l.num}

	case "BEGIN_TRANSITION_SEQ":
		p.closeBlocks()
		from, err := motion.ParsePosture(l.str(0))
		if err != nil {
			return true, fmt.Errorf("line %d: %w", l.num, err)
		}
		to, err := motion.ParsePosture(l.str(1))
		if err != nil {
			return true, fmt.Errorf("line %d: %w", l.num, err)
		}
		if l.str(2) == "" {
			return true, fmt.Errorf("line %d: BEGIN_TRANSITION_SEQ without a name", l.num)
		}
		p.transition = &TransitionDef{From: from, To: to, Name: l.str(2), Line: l.num}

	case "MOTION":
		motions := p.currentMotions()
		if motions == nil {
			return true, fmt.Errorf("line %d: MOTION outside a sequence", l.num)
		}
		m, err := parseMotion(l)
		if err != nil {
			return true, err
		}
		*motions = append(*motions, m)

	case "CALLBACK":
		motions := p.currentMotions()
		if motions == nil || len(*motions) == 0 {
			return true, fmt.Errorf("line %d: CALLBACK without a MOTION", l.num)
		}
		m := &(*motions)[len(*motions)-1]
		if err := parseCallback(l, m); err != nil {
			return true, err
		}

	case "END_SEQUENCE":
		if p.sequence == nil && p.transition == nil {
			return true, fmt.Errorf("line %d: END_SEQUENCE without an open sequence", l.num)
		}
		p.closeBlocks()

	case "DEFAULT_COG_POSITION":
		posture, err := motion.ParsePosture(l.str(0))
		if err != nil {
			return true, fmt.Errorf("line %d: %w", l.num, err)
		}
		var v mgl64.Vec3
		for i := range v {
			if v[i], err = l.floatParam(i + 1); err != nil {
				return true, err
			}
		}
		p.defs.DefaultCOG[posture] = v

	case "DECLARE_Z_IND_MOTION":
		p.defs.ZIndependent = append(p.defs.ZIndependent, l.str(0))
	case "DECLARE_SPED_MOTION":
		p.defs.Sped = append(p.defs.Sped, l.str(0))
	case "DECLARE_NO_LVE_MOTION":
		p.defs.NoRootMotion = append(p.defs.NoRootMotion, l.str(0))
	case "DECLARE_SKIP_LAST_FRAME":
		p.defs.SkipLastFrame = append(p.defs.SkipLastFrame, l.str(0))

	case "::":
		// heading marker

	default:
		return false, nil
	}
	return true, nil
}

func parseMotion(l defsLine) (MotionDef, error) {
	m := MotionDef{Clip: l.str(0), Line: l.num}
	if m.Clip == "" {
		return m, fmt.Errorf("line %d: MOTION without a clip", l.num)
	}
	for _, mod := range l.params[1:] {
		upper := strings.ToUpper(mod)
		switch {
		case upper == "IMMEDIATE":
			m.Immediate = true
		case upper == "LOOP":
			m.Loop = true
		case upper == "NOTIFY_INTERRUPT":
			m.NotifyInterrupt = true
		case strings.HasPrefix(upper, "REP"):
			_, count, found := strings.Cut(mod, "=")
			if !found {
				return m, fmt.Errorf("line %d: malformed repeat %q", l.num, mod)
			}
			n, err := strconv.Atoi(strings.TrimSpace(count))
			if err != nil {
				return m, fmt.Errorf("line %d: repeat %q: %w", l.num, mod, err)
			}
			if n < 0 {
				n = 0
			}
			m.Reps = n
		default:
			log := logging.WithComponent("defs")
			log.Warn().
				Int(logging.FieldLine, l.num).
				Str(logging.FieldMotion, m.Clip).
				Str("modifier", mod).
				Msg("unknown motion modifier ignored")
		}
	}
	return m, nil
}

func parseCallback(l defsLine, m *MotionDef) error {
	switch strings.ToUpper(l.str(0)) {
	case "NOTIFY_END":
		m.NotifyEnd = true
		m.Callbacks = append(m.Callbacks, motion.Callback{Kind: motion.CallbackNotifyEnd})
		return nil
	case "NOTIFY_INTERRUPT":
		m.NotifyInterrupt = true
		m.Callbacks = append(m.Callbacks, motion.Callback{Kind: motion.CallbackNotifyInterrupt})
		return nil
	}
	frame, err := l.intParam(0)
	if err != nil {
		return err
	}
	name := l.str(1)
	if name == "" {
		return fmt.Errorf("line %d: CALLBACK frame %d without a name", l.num, frame)
	}
	m.Callbacks = append(m.Callbacks, motion.Callback{Kind: motion.CallbackFrame, Frame: int32(frame), Name: name})
	return nil
}
