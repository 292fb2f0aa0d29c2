package model

import (
	"errors"
	"fmt"
)

// Appliance identifies a physical kitchen resource a task occupies.
type Appliance string

const (
	ApplianceOven      Appliance = "oven"
	ApplianceStovetop1 Appliance = "stovetop_1"
	ApplianceStovetop2 Appliance = "stovetop_2"
	ApplianceMicrowave Appliance = "microwave"
	ApplianceCounter   Appliance = "counter"
	ApplianceFridge    Appliance = "fridge"
)

// ErrInvalidAppliance is returned for identifiers outside the known set.
var ErrInvalidAppliance = errors.New("invalid appliance")

// Appliances lists every known appliance in a stable order.
func Appliances() []Appliance {
	return []Appliance{
		ApplianceOven,
		ApplianceStovetop1,
		ApplianceStovetop2,
		ApplianceMicrowave,
		ApplianceCounter,
		ApplianceFridge,
	}
}

// Valid reports whether a is one of the known appliances.
func (a Appliance) Valid() bool {
	switch a {
	case ApplianceOven, ApplianceStovetop1, ApplianceStovetop2,
		ApplianceMicrowave, ApplianceCounter, ApplianceFridge:
		return true
	default:
		return false
	}
}

// Shareable reports whether several tasks may use the appliance at once.
// Only the counter and the fridge allow it.
func (a Appliance) Shareable() bool {
	return a == ApplianceCounter || a == ApplianceFridge
}

func (a Appliance) String() string { return string(a) }

// ParseAppliance converts s into an Appliance.
func ParseAppliance(s string) (Appliance, error) {
	a := Appliance(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAppliance, s)
	}
	return a, nil
}
