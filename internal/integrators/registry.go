package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/rodsim/internal/sim"
)

var steppers = map[string]func(damping float64) sim.Stepper{
	"kinematic": func(float64) sim.Stepper { return NewKinematic() },
	"damped":    func(nu float64) sim.Stepper { return NewDamped(nu) },
}

// Get returns the stepper registered under name. damping is only read by
// steppers that use it.
func Get(name string, damping float64) (sim.Stepper, error) {
	fn, ok := steppers[name]
	if !ok {
		return nil, fmt.Errorf("unknown stepper: %s", name)
	}
	return fn(damping), nil
}

func Names() []string {
	names := make([]string, 0, len(steppers))
	for name := range steppers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
