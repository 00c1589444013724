package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/sentry/controller"
	"github.com/milk9111/sentry/logger"
	"github.com/milk9111/sentry/prefabs"
)

var ErrUnknownSelector = errors.New("entity: unknown selector")

const (
	SelectorMoore  = "moore"
	SelectorDwell  = "dwell"
	SelectorScript = "script"
)

// BuildSelector resolves a prefab's selector name. An empty name is Moore.
func BuildSelector(name string, minDwell float64, script string, log logger.Logger) (controller.Selector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SelectorMoore:
		return controller.MooreSelector{}, nil
	case SelectorDwell:
		return controller.DwellSelector{MinDwell: minDwell}, nil
	case SelectorScript:
		return NewScriptSelector(script, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSelector, name)
	}
}

// ScriptSelector lets a tengo script pick the behaviour. The script sees
// player_visible, in_attack_range, previous and dwell, and assigns a
// behaviour name to behaviour. Any failure falls back to the plain table.
type ScriptSelector struct {
	Name     string
	compiled *tengo.Compiled
	log      logger.Logger
}

func NewScriptSelector(name string, log logger.Logger) (*ScriptSelector, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("entity: script selector: no script named")
	}
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("entity: load script %s: %w", name, err)
	}
	return CompileScriptSelector(name, src, log)
}

// CompileScriptSelector builds a selector from script source.
func CompileScriptSelector(name string, src []byte, log logger.Logger) (*ScriptSelector, error) {
	if log == nil {
		log = logger.NewNop()
	}
	script := tengo.NewScript(src)
	_ = script.Add("player_visible", false)
	_ = script.Add("in_attack_range", false)
	_ = script.Add("previous", controller.Patrol.String())
	_ = script.Add("dwell", 0.0)
	_ = script.Add("behaviour", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("entity: compile script %s: %w", name, err)
	}
	return &ScriptSelector{
		Name:     name,
		compiled: compiled,
		log:      log.With(logger.F("script", name)),
	}, nil
}

func (s *ScriptSelector) Select(in controller.SelectInput) controller.Behaviour {
	fallback := controller.Select(in.PlayerVisible, in.PlayerInAttackRange)

	if err := s.run(in); err != nil {
		s.log.Warn("selector script failed", logger.F("error", err))
		return fallback
	}
	name := strings.TrimSpace(s.compiled.Get("behaviour").String())
	b, err := controller.ParseBehaviour(name)
	if err != nil {
		s.log.Warn("selector script returned an unknown behaviour", logger.F("behaviour", name))
		return fallback
	}
	return b
}

func (s *ScriptSelector) run(in controller.SelectInput) error {
	if err := s.compiled.Set("player_visible", in.PlayerVisible); err != nil {
		return err
	}
	if err := s.compiled.Set("in_attack_range", in.PlayerInAttackRange); err != nil {
		return err
	}
	if err := s.compiled.Set("previous", in.Previous.String()); err != nil {
		return err
	}
	if err := s.compiled.Set("dwell", in.Dwell); err != nil {
		return err
	}
	if err := s.compiled.Set("behaviour", ""); err != nil {
		return err
	}
	return s.compiled.Run()
}
