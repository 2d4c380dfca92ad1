package scene

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

//go:embed scripts/*.tengo
var scriptsFS embed.FS

const rulesDispatchScript = `
__result := ""
if __phase == "contact" {
	__result = contact(__self, __other)
} else if __phase == "status" {
	__result = status(__state, __limits)
}
`

// Outcome is the classification of a contact.
type Outcome string

const (
	OutcomeNone    Outcome = "none"
	OutcomeLegDown Outcome = "leg_down"
	OutcomeCrash   Outcome = "crash"
)

// LanderState is the snapshot handed to the status rule.
type LanderState struct {
	Speed   float64
	Angle   float64
	Legs    int
	Landed  bool
	Crashed bool
}

// Limits are the landing tolerances handed to the status rule.
type Limits struct {
	MaxSpeed float64
	MaxAngle float64
}

// Rules evaluates the lander rule script.
type Rules struct {
	path     string
	compiled *tengo.Compiled
}

// LoadRules compiles the rule script at path, or the embedded lander rules
// when path is empty.
func LoadRules(path string) (*Rules, error) {
	var src []byte
	var err error
	if path == "" {
		path = "scripts/lander.tengo"
		src, err = scriptsFS.ReadFile(path)
	} else {
		src, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("scene: load rules %s: %w", path, err)
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + rulesDispatchScript))
	_ = script.Add("__phase", "")
	_ = script.Add("__self", "")
	_ = script.Add("__other", "")
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__limits", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scene: compile rules %s: %w", path, err)
	}
	return &Rules{path: path, compiled: compiled}, nil
}

// Path returns where the script was loaded from.
func (r *Rules) Path() string { return r.path }

// Contact classifies a contact between parts named self and other.
func (r *Rules) Contact(self, other string) (Outcome, error) {
	if err := r.compiled.Set("__phase", "contact"); err != nil {
		return OutcomeNone, err
	}
	if err := r.compiled.Set("__self", self); err != nil {
		return OutcomeNone, err
	}
	if err := r.compiled.Set("__other", other); err != nil {
		return OutcomeNone, err
	}
	res, err := r.run()
	if err != nil {
		return OutcomeNone, err
	}
	switch o := Outcome(res); o {
	case OutcomeNone, OutcomeLegDown, OutcomeCrash:
		return o, nil
	}
	return OutcomeNone, fmt.Errorf("scene: rules %s: unknown outcome %q", r.path, res)
}

// Status returns the mission control message for a lander state.
func (r *Rules) Status(s LanderState, l Limits) (string, error) {
	if err := r.compiled.Set("__phase", "status"); err != nil {
		return "", err
	}
	state := map[string]any{
		"speed":   s.Speed,
		"angle":   s.Angle,
		"legs":    s.Legs,
		"landed":  s.Landed,
		"crashed": s.Crashed,
	}
	if err := r.compiled.Set("__state", state); err != nil {
		return "", err
	}
	limits := map[string]any{
		"max_speed": l.MaxSpeed,
		"max_angle": l.MaxAngle,
	}
	if err := r.compiled.Set("__limits", limits); err != nil {
		return "", err
	}
	return r.run()
}

func (r *Rules) run() (string, error) {
	if err := r.compiled.Run(); err != nil {
		return "", fmt.Errorf("scene: run rules %s: %w", r.path, err)
	}
	return objectAsString(r.compiled.Get("__result").Object()), nil
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Undefined:
		return ""
	default:
		return strings.Trim(v.String(), "\"")
	}
}
