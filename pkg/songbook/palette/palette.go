// Package palette derives the four colours of a songbook cover from user
// supplied specs.
//
// A spec is empty (use the role's default), "random", an explicit "#RRGGBB"
// or "R,G,B" literal, or "contrast". Roles resolve in dependency order:
// logo and cover first, then title (which defaults to the logo colour), then
// back (which defaults to a contrast of title against cover).
package palette

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	sberrors "github.com/provide-io/songbook/go/songbook/pkg/songbook/errors"
)

// Role names one colour of the palette.
type Role string

const (
	RoleLogo  Role = "logo"
	RoleTitle Role = "title"
	RoleCover Role = "cover"
	RoleBack  Role = "back"
)

// ContrastThreshold is the RGB distance above which two colours are
// considered distinct enough to be used together.
const ContrastThreshold = 128.0

var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
)

// RGB is a resolved colour.
type RGB struct {
	R, G, B uint8
}

// String renders the colour the way the LaTeX template expects it.
func (c RGB) String() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// Hex renders the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Mean is the average channel intensity.
func (c RGB) Mean() float64 {
	return (float64(c.R) + float64(c.G) + float64(c.B)) / 3
}

// Distance is the Euclidean distance between two colours in RGB space.
func Distance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Contrast picks a colour that reads well against base. The reference colour
// is kept when it is already distinct from base; otherwise black is used on
// light bases and white on dark ones.
func Contrast(base, reference RGB) RGB {
	if Distance(base, reference) >= ContrastThreshold {
		return reference
	}
	if base.Mean() > 128 {
		return Black
	}
	return White
}

// Kind is the form of a Spec.
type Kind int

const (
	KindDefault Kind = iota
	KindRandom
	KindLiteral
	KindContrast
)

// Spec is a parsed colour spec for one role.
type Spec struct {
	Kind  Kind
	Color RGB // Only set for KindLiteral
	Raw   string
}

// Source draws the random channels. *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a seeded random source.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

var errChannelRange = errors.New("channel out of range 0-255")

// ParseSpec parses the spec given for role. Whitespace is ignored and keywords
// are case-insensitive.
func ParseSpec(role Role, raw string) (Spec, error) {
	s := strings.Join(strings.Fields(raw), "")
	invalid := func(err error) (Spec, error) {
		return Spec{}, &sberrors.InvalidColorSpecError{Role: string(role), Spec: raw, Err: err}
	}

	switch {
	case s == "":
		return Spec{Kind: KindDefault, Raw: raw}, nil
	case strings.EqualFold(s, "random"):
		return Spec{Kind: KindRandom, Raw: raw}, nil
	case strings.EqualFold(s, "contrast"):
		if role == RoleLogo || role == RoleCover {
			return invalid(fmt.Errorf("%s has no colour to contrast against", role))
		}
		return Spec{Kind: KindContrast, Raw: raw}, nil
	case strings.HasPrefix(s, "#"):
		c, err := parseHex(s[1:])
		if err != nil {
			return invalid(err)
		}
		return Spec{Kind: KindLiteral, Color: c, Raw: raw}, nil
	default:
		c, err := parseTriplet(s)
		if err != nil {
			return invalid(err)
		}
		return Spec{Kind: KindLiteral, Color: c, Raw: raw}, nil
	}
}

func parseHex(s string) (RGB, error) {
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("expected 6 hex digits, got %d", len(s))
	}
	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return RGB{}, err
		}
		ch[i] = uint8(v)
	}
	return RGB{ch[0], ch[1], ch[2]}, nil
}

func parseTriplet(s string) (RGB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("expected R,G,B, got %d values", len(parts))
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return RGB{}, err
		}
		if v < 0 || v > 255 {
			return RGB{}, errChannelRange
		}
		ch[i] = uint8(v)
	}
	return RGB{ch[0], ch[1], ch[2]}, nil
}

// Specs holds the spec for every role.
type Specs struct {
	Logo  Spec
	Title Spec
	Cover Spec
	Back  Spec
}

// ParseSpecs parses the raw specs of all four roles, failing on the first
// malformed one.
func ParseSpecs(logo, title, cover, back string) (Specs, error) {
	var specs Specs
	var err error
	if specs.Logo, err = ParseSpec(RoleLogo, logo); err != nil {
		return Specs{}, err
	}
	if specs.Title, err = ParseSpec(RoleTitle, title); err != nil {
		return Specs{}, err
	}
	if specs.Cover, err = ParseSpec(RoleCover, cover); err != nil {
		return Specs{}, err
	}
	if specs.Back, err = ParseSpec(RoleBack, back); err != nil {
		return Specs{}, err
	}
	return specs, nil
}

// Palette is the resolved colour of every role.
type Palette struct {
	Logo  RGB
	Title RGB
	Cover RGB
	Back  RGB
}

// Resolve turns specs into concrete colours. rnd is only consulted for
// random roles and may be nil when none are random.
func Resolve(specs Specs, rnd Source) (Palette, error) {
	var p Palette
	var err error

	if p.Logo, err = resolveRole(RoleLogo, specs.Logo, KindRandom, rnd, nil); err != nil {
		return Palette{}, err
	}
	if p.Cover, err = resolveRole(RoleCover, specs.Cover, KindRandom, rnd, nil); err != nil {
		return Palette{}, err
	}

	if specs.Title.Kind == KindDefault {
		p.Title = p.Logo
	} else if p.Title, err = resolveRole(RoleTitle, specs.Title, KindRandom, rnd, func() RGB {
		return Contrast(p.Cover, p.Logo)
	}); err != nil {
		return Palette{}, err
	}

	if p.Back, err = resolveRole(RoleBack, specs.Back, KindContrast, rnd, func() RGB {
		return Contrast(p.Cover, p.Title)
	}); err != nil {
		return Palette{}, err
	}

	return p, nil
}

func resolveRole(role Role, spec Spec, fallback Kind, rnd Source, contrast func() RGB) (RGB, error) {
	kind := spec.Kind
	if kind == KindDefault {
		kind = fallback
	}

	switch kind {
	case KindLiteral:
		return spec.Color, nil
	case KindRandom:
		if rnd == nil {
			rnd = NewSource(rand.Uint64())
		}
		return RGB{uint8(rnd.IntN(256)), uint8(rnd.IntN(256)), uint8(rnd.IntN(256))}, nil
	case KindContrast:
		if contrast == nil {
			return RGB{}, &sberrors.InvalidColorSpecError{Role: string(role), Spec: spec.Raw}
		}
		return contrast(), nil
	default:
		return RGB{}, &sberrors.InvalidColorSpecError{Role: string(role), Spec: spec.Raw}
	}
}
