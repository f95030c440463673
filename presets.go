package qphase

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"
)

type preset struct {
	unitary    func(*Circuit) error
	eigenstate func(*Circuit) error
}

// Single-qubit unitary and eigenstate pairs. xz prepares a superposition of
// both eigenvectors of ZX; the others start in an exact eigenstate.
var presets = map[string]preset{
	"xz": {
		unitary: func(c *Circuit) error {
			if err := c.X(0); err != nil {
				return err
			}
			return c.Z(0)
		},
		eigenstate: func(c *Circuit) error { return c.H(0) },
	},
	"z": {
		unitary:    func(c *Circuit) error { return c.Z(0) },
		eigenstate: func(c *Circuit) error { return c.X(0) },
	},
	"s": {
		unitary:    func(c *Circuit) error { return c.S(0) },
		eigenstate: func(c *Circuit) error { return c.X(0) },
	},
	"t": {
		unitary:    func(c *Circuit) error { return c.T(0) },
		eigenstate: func(c *Circuit) error { return c.X(0) },
	},
}

// Preset returns a fresh unitary and eigenstate preparation for name.
func Preset(name string) (unitary, eigenstate *Circuit, err error) {
	p, ok := presets[name]
	if !ok {
		return nil, nil, fmt.Errorf("%q (have %v): %w", name, PresetNames(), ErrUnknownPreset)
	}

	if unitary, err = NewCircuit(1, 0); err != nil {
		return nil, nil, err
	}
	unitary.Name = "U"

	if eigenstate, err = NewCircuit(1, 0); err != nil {
		return nil, nil, err
	}
	eigenstate.Name = "psi"

	if err = p.unitary(unitary); err != nil {
		return nil, nil, err
	}

	if err = p.eigenstate(eigenstate); err != nil {
		return nil, nil, err
	}

	return unitary, eigenstate, nil
}

// PresetNames lists the known presets in sorted order.
func PresetNames() []string {
	names := maps.Keys(presets)
	sort.Strings(names)
	return names
}
