// SPDX-License-Identifier: MIT

package catalog

import (
	"strconv"
	"strings"
)

// Predicate decides whether a trim passes a filter.
type Predicate func(*Trim) bool

// Filter returns the trims matching every predicate, preserving order.
func Filter(trims []*Trim, preds ...Predicate) []*Trim {
	var out []*Trim
	for _, trim := range trims {
		ok := true
		for _, pred := range preds {
			if !pred(trim) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, trim)
		}
	}
	return out
}

// MinPower matches trims whose maximum power is at least cv horsepower.
// Source values look like "170 CV / 125 kW".
func MinPower(cv float64) Predicate {
	return func(t *Trim) bool {
		raw, ok := t.SpecValue(SpecPower)
		if !ok {
			return false
		}
		val, ok := parseLeadingNumber(strings.SplitN(raw, "CV", 2)[0])
		return ok && val >= cv
	}
}

// MaxAcceleration matches trims reaching 100 km/h in at most s seconds.
// Source values look like "8,9 s" with a comma decimal separator.
func MaxAcceleration(s float64) Predicate {
	return func(t *Trim) bool {
		raw, ok := t.SpecValue(SpecAcceleration)
		if !ok {
			return false
		}
		val, ok := parseLeadingNumber(strings.SplitN(raw, "s", 2)[0])
		return ok && val <= s
	}
}

// MinCylinders matches trims with at least n cylinders.
func MinCylinders(n int) Predicate {
	return intSpecAtLeast(SpecCylinders, n)
}

// MinGears matches trims with at least n gears. Continuously variable
// transmissions ("Múltiples") never match a gear count.
func MinGears(n int) Predicate {
	return intSpecAtLeast(SpecGears, n)
}

// Steering row labels checked by SpeedSteering.
const (
	specSteeringAssist = "Asistencia en función de la velocidad"
	specSteeringRatio  = "Desmultiplicacion en función de la velocidad"
)

// SpeedSteering matches trims whose steering assist or ratio varies with
// speed. The source marks either row with "Sí".
func SpeedSteering() Predicate {
	return func(t *Trim) bool {
		assist, okA := t.SpecValue(specSteeringAssist)
		ratio, okR := t.SpecValue(specSteeringRatio)
		return (okA && assist == "Sí") || (okR && ratio == "Sí")
	}
}

// DiscBrakes matches trims with disc brakes on both axles.
func DiscBrakes() Predicate {
	return func(t *Trim) bool {
		front, okF := t.SpecValue(SpecFrontBrakes)
		rear, okR := t.SpecValue(SpecRearBrakes)
		return okF && okR &&
			strings.Contains(strings.ToLower(front), "disco") &&
			strings.Contains(strings.ToLower(rear), "disco")
	}
}

func intSpecAtLeast(key string, n int) Predicate {
	return func(t *Trim) bool {
		raw, ok := t.SpecValue(key)
		if !ok || raw == "Múltiples" {
			return false
		}
		val, err := strconv.Atoi(strings.TrimSpace(raw))
		return err == nil && val >= n
	}
}

// parseLeadingNumber parses a number from scraped text, accepting the
// Spanish comma decimal separator and surrounding whitespace.
func parseLeadingNumber(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if cleaned == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}
