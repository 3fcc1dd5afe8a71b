// Package script drives sequence requests from a tengo script, one call per
// simulation tick.
package script

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/rs/zerolog"

	"github.com/milk9111/motionseq/logging"
	"github.com/milk9111/motionseq/prefabs"
)

// RequestOptions are the optional fields of engine.request.
type RequestOptions struct {
	Dedupe         bool
	ForceClear     bool
	SkipTransition bool
	Speed          float64
	StartTime      *int32
}

// Engine is the view of the simulation a script can see and drive.
type Engine interface {
	Request(actor, sequence string, opts RequestOptions) bool
	Idle(actor string) bool
	Posture(actor string) string
	QueueLen(actor string) int
	HasEvent(actor, event string) bool
}

const dispatchScript = `
update(__engine, __tick)
`

// Driver runs a compiled script's update function.
type Driver struct {
	path     string
	compiled *tengo.Compiled
	log      zerolog.Logger
}

// Load compiles a script from disk or the embedded scripts.
func Load(path string) (*Driver, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}
	return Compile(path, src)
}

// Compile builds a driver from source. The script must define
// update(engine, tick).
func Compile(name string, src []byte) (*Driver, error) {
	full := string(src) + "\n" + dispatchScript
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__engine", map[string]any{})
	_ = s.Add("__tick", 0)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &Driver{
		path:     name,
		compiled: compiled,
		log:      logging.WithComponent("script").With().Str(logging.FieldPath, name).Logger(),
	}, nil
}

func (d *Driver) Path() string {
	if d == nil {
		return ""
	}
	return d.path
}

// Update calls the script's update function for one tick.
func (d *Driver) Update(engine Engine, tick uint64) error {
	if d == nil || d.compiled == nil {
		return fmt.Errorf("script: nil driver")
	}
	if err := d.compiled.Set("__engine", d.buildEngine(engine, tick)); err != nil {
		return err
	}
	if err := d.compiled.Set("__tick", int64(tick)); err != nil {
		return err
	}
	if err := d.compiled.Run(); err != nil {
		return fmt.Errorf("script: %s: tick %d: %w", d.path, tick, err)
	}
	return nil
}

func (d *Driver) buildEngine(engine Engine, tick uint64) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["request"] = &tengo.UserFunction{Name: "request", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if engine == nil || len(args) < 2 {
			return tengo.FalseValue, nil
		}
		actor := strings.TrimSpace(objectAsString(args[0]))
		sequence := strings.TrimSpace(objectAsString(args[1]))
		if actor == "" || sequence == "" {
			return tengo.FalseValue, nil
		}
		var opts RequestOptions
		if len(args) > 2 {
			opts = requestOptions(objectToAny(args[2]))
		}
		return boolObject(engine.Request(actor, sequence, opts)), nil
	}}

	values["idle"] = &tengo.UserFunction{Name: "idle", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if engine == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		return boolObject(engine.Idle(objectAsString(args[0]))), nil
	}}

	values["posture"] = &tengo.UserFunction{Name: "posture", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if engine == nil || len(args) < 1 {
			return &tengo.String{Value: ""}, nil
		}
		return &tengo.String{Value: engine.Posture(objectAsString(args[0]))}, nil
	}}

	values["queue_len"] = &tengo.UserFunction{Name: "queue_len", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if engine == nil || len(args) < 1 {
			return &tengo.Int{Value: 0}, nil
		}
		return &tengo.Int{Value: int64(engine.QueueLen(objectAsString(args[0])))}, nil
	}}

	values["event"] = &tengo.UserFunction{Name: "event", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if engine == nil || len(args) < 2 {
			return tengo.FalseValue, nil
		}
		return boolObject(engine.HasEvent(objectAsString(args[0]), objectAsString(args[1]))), nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		d.log.Info().Uint64(logging.FieldTick, tick).Msg(strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func requestOptions(raw any) RequestOptions {
	var opts RequestOptions
	m, ok := raw.(map[string]any)
	if !ok {
		return opts
	}
	opts.Dedupe = truthy(m["dedupe"])
	opts.ForceClear = truthy(m["force_clear"])
	opts.SkipTransition = truthy(m["skip_transition"])
	switch v := m["speed"].(type) {
	case float64:
		opts.Speed = v
	case int:
		opts.Speed = float64(v)
	}
	if v, ok := m["start"].(int); ok {
		start := int32(v)
		opts.StartTime = &start
	}
	return opts
}

func truthy(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
