package bramble

import (
	"github.com/tanema/gween/ease"
)

// EasingFunc maps normalized time t in [0, 1] to eased progress. Elastic
// and back curves overshoot outside [0, 1].
type EasingFunc func(t float64) float64

// Easing names one of the built-in curves.
type Easing uint8

const (
	EaseLinear Easing = iota
	EaseInQuad
	EaseOutQuad
	EaseInOutQuad
	EaseInCubic
	EaseOutCubic
	EaseInOutCubic
	EaseInQuart
	EaseOutQuart
	EaseInOutQuart
	EaseInSine
	EaseOutSine
	EaseInOutSine
	EaseInExpo
	EaseOutExpo
	EaseInOutExpo
	EaseInCirc
	EaseOutCirc
	EaseInOutCirc
	EaseInElastic
	EaseOutElastic
	EaseInOutElastic
	EaseInBack
	EaseOutBack
	EaseInOutBack
	EaseInBounce
	EaseOutBounce
	EaseInOutBounce
	easingCount
)

type easingEntry struct {
	name string
	fn   ease.TweenFunc
}

var easings = [easingCount]easingEntry{
	EaseLinear:       {"linear", ease.Linear},
	EaseInQuad:       {"easeInQuad", ease.InQuad},
	EaseOutQuad:      {"easeOutQuad", ease.OutQuad},
	EaseInOutQuad:    {"easeInOutQuad", ease.InOutQuad},
	EaseInCubic:      {"easeInCubic", ease.InCubic},
	EaseOutCubic:     {"easeOutCubic", ease.OutCubic},
	EaseInOutCubic:   {"easeInOutCubic", ease.InOutCubic},
	EaseInQuart:      {"easeInQuart", ease.InQuart},
	EaseOutQuart:     {"easeOutQuart", ease.OutQuart},
	EaseInOutQuart:   {"easeInOutQuart", ease.InOutQuart},
	EaseInSine:       {"easeInSine", ease.InSine},
	EaseOutSine:      {"easeOutSine", ease.OutSine},
	EaseInOutSine:    {"easeInOutSine", ease.InOutSine},
	EaseInExpo:       {"easeInExpo", ease.InExpo},
	EaseOutExpo:      {"easeOutExpo", ease.OutExpo},
	EaseInOutExpo:    {"easeInOutExpo", ease.InOutExpo},
	EaseInCirc:       {"easeInCirc", ease.InCirc},
	EaseOutCirc:      {"easeOutCirc", ease.OutCirc},
	EaseInOutCirc:    {"easeInOutCirc", ease.InOutCirc},
	EaseInElastic:    {"easeInElastic", ease.InElastic},
	EaseOutElastic:   {"easeOutElastic", ease.OutElastic},
	EaseInOutElastic: {"easeInOutElastic", ease.InOutElastic},
	EaseInBack:       {"easeInBack", ease.InBack},
	EaseOutBack:      {"easeOutBack", ease.OutBack},
	EaseInOutBack:    {"easeInOutBack", ease.InOutBack},
	EaseInBounce:     {"easeInBounce", ease.InBounce},
	EaseOutBounce:    {"easeOutBounce", ease.OutBounce},
	EaseInOutBounce:  {"easeInOutBounce", ease.InOutBounce},
}

var easingIndex = func() map[string]Easing {
	m := make(map[string]Easing, easingCount)
	for i, e := range easings {
		m[e.name] = Easing(i)
	}
	return m
}()

func (e Easing) String() string {
	if e >= easingCount {
		return "unknown"
	}
	return easings[e].name
}

// Func returns the curve as an EasingFunc. Unknown values are linear.
func (e Easing) Func() EasingFunc {
	if e >= easingCount {
		e = EaseLinear
	}
	return adaptTween(easings[e].fn)
}

// TweenFunc returns the curve in gween's four-argument form.
func (e Easing) TweenFunc() ease.TweenFunc {
	if e >= easingCount {
		return ease.Linear
	}
	return easings[e].fn
}

// adaptTween evaluates a gween curve over begin 0, change 1, duration 1.
func adaptTween(fn ease.TweenFunc) EasingFunc {
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// EasingByName resolves a case-sensitive curve name such as "easeOutQuad".
// Unknown names fail with ErrValue.
func EasingByName(name string) (Easing, error) {
	if e, ok := easingIndex[name]; ok {
		return e, nil
	}
	return EaseLinear, valueErrorf("unknown easing %q", name)
}

// EasingNames lists the built-in curve names in enum order.
func EasingNames() []string {
	out := make([]string, easingCount)
	for i, e := range easings {
		out[i] = e.name
	}
	return out
}
