// Package analysis provides the exercise analysis engine: per-exercise
// repetition state machines, feedback prioritization and the dispatcher that
// routes keypoint frames to the active analyzer.
package analysis

// Thresholds maps named tuning constants to values. The map is treated as
// read-only after construction and is shared by all analyzers. Every lookup
// goes through Get, so absent keys fall back to a documented default.
type Thresholds map[string]float64

// Get returns the threshold for key, or def if the key is absent.
func (t Thresholds) Get(key string, def float64) float64 {
	if t == nil {
		return def
	}
	if v, ok := t[key]; ok {
		return v
	}
	return def
}

// DefaultThresholds returns the built-in tuning constants for all exercises.
// Values are overridable per deployment (see store.ThresholdRepository).
func DefaultThresholds() Thresholds {
	return Thresholds{
		// Squat
		"squat_too_deep":                68,
		"squat_not_deep_enough":         91,
		"squat_forward_bend_too_little": 19,
		"squat_forward_bend_too_much":   50,

		// Bicep curl
		"bicep_curl_not_low_enough":    160,
		"bicep_curl_not_high_enough":   90,
		"bicep_curl_elbow_movement":    5,
		"bicep_curl_body_swing":        10,
		"bicep_curl_body_swing_angle":  18,
		"bicep_curl_elbow_torso_angle": 35,

		// Pushup
		"pushup_not_low_enough": 120,
		"pushup_too_low":        70,
		"pushup_hip_sag":        15,
		"pushup_hip_pike":       25,

		// Lunge
		"lunge_front_knee_angle_min": 80,
		"lunge_front_knee_angle_max": 100,
		"lunge_back_knee_angle_min":  80,
		"lunge_back_knee_angle_max":  110,
		"lunge_knee_deviation":       20,
		"lunge_torso_upright":        160,

		// Plank (hip values are fractions of the shoulder-ankle distance)
		"plank_hip_sag":           0.10,
		"plank_hip_pike":          0.15,
		"plank_body_straightness": 165,
		"plank_min_hold":          5,

		// Jumping jack (leg spread values are ankle distance / hip width)
		"jumping_jack_arm_extension": 140,
		"jumping_jack_arms_down":     45,
		"jumping_jack_leg_spread":    1.8,
		"jumping_jack_legs_together": 1.2,
	}
}
