package urdf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrAppearanceFormat is returned for appearance names that are not of the
// form "Opaque(r, g, b)".
var ErrAppearanceFormat = errors.New("unsupported appearance name")

// FormatXYZ scales a translation by ratio and renders it with 4 decimals.
func FormatXYZ(t mgl64.Vec3, ratio float64) string {
	return formatFloats(t[0]*ratio, t[1]*ratio, t[2]*ratio)
}

// FormatRPY renders Euler angles with 4 decimals.
func FormatRPY(rpy mgl64.Vec3) string {
	return formatFloats(rpy[0], rpy[1], rpy[2])
}

// FormatScale renders a uniform scale factor for the three axes in its
// shortest exact form, e.g. "0.001 0.001 0.001".
func FormatScale(s float64) string {
	v := strconv.FormatFloat(s, 'f', -1, 64)
	return v + " " + v + " " + v
}

func formatFloats(vs ...float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'f', 4, 64)
	}
	return strings.Join(parts, " ")
}

// ParseAppearanceColor reads the RGB channels out of an appearance name like
// "Opaque(255, 128, 0)" and normalizes them to [0, 1].
//
// Host appearance names are free-form labels; only this one shape carries a
// color, so anything else is rejected.
func ParseAppearanceColor(name string) ([3]float64, error) {
	var rgb [3]float64

	inner := strings.TrimSpace(name)
	if !strings.HasPrefix(inner, "Opaque(") || !strings.HasSuffix(inner, ")") {
		return rgb, fmt.Errorf("%w: %q", ErrAppearanceFormat, name)
	}
	inner = strings.TrimSuffix(strings.TrimPrefix(inner, "Opaque("), ")")

	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return rgb, fmt.Errorf("%w: %q has %d channels", ErrAppearanceFormat, name, len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return rgb, fmt.Errorf("%w: %q: %v", ErrAppearanceFormat, name, err)
		}
		rgb[i] = v / 255
	}
	return rgb, nil
}

// FormatRGBA renders a color with a fixed opaque alpha.
func FormatRGBA(rgb [3]float64) string {
	return formatFloats(rgb[0], rgb[1], rgb[2], 1)
}
