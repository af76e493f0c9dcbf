package geometry

import (
	"errors"
	"fmt"
)

var ErrInvalidOptions = errors.New("geometry: invalid options")

type RockOptions struct {
	Seed          int64   `yaml:"seed"`
	Radius        float64 `yaml:"radius"`
	Detail        int     `yaml:"detail"`
	NoiseScale    float64 `yaml:"noise_scale"`
	Roughness     float64 `yaml:"roughness"`
	RidgeWeight   float64 `yaml:"ridge_weight"`
	Octaves       int     `yaml:"octaves"`
	FlattenBottom float64 `yaml:"flatten_bottom"`
}

type RockRingOptions struct {
	Seed        int64       `yaml:"seed"`
	Count       int         `yaml:"count"`
	InnerRadius float64     `yaml:"inner_radius"`
	OuterRadius float64     `yaml:"outer_radius"`
	AngleJitter float64     `yaml:"angle_jitter"`
	ScaleMin    float64     `yaml:"scale_min"`
	ScaleMax    float64     `yaml:"scale_max"`
	HeightScale float64     `yaml:"height_scale"`
	Rock        RockOptions `yaml:"rock"`
}

type LogOptions struct {
	Seed           int64   `yaml:"seed"`
	Length         float64 `yaml:"length"`
	Radius         float64 `yaml:"radius"`
	Taper          float64 `yaml:"taper"`
	RadialSegments int     `yaml:"radial_segments"`
	HeightSegments int     `yaml:"height_segments"`
	BarkScale      float64 `yaml:"bark_scale"`
	BarkDepth      float64 `yaml:"bark_depth"`
	Octaves        int     `yaml:"octaves"`
}

type TeepeeOptions struct {
	Seed          int64      `yaml:"seed"`
	Count         int        `yaml:"count"`
	MeetHeight    float64    `yaml:"meet_height"`
	TiltMin       float64    `yaml:"tilt_min"`
	TiltMax       float64    `yaml:"tilt_max"`
	AzimuthJitter float64    `yaml:"azimuth_jitter"`
	Overshoot     float64    `yaml:"overshoot"`
	Log           LogOptions `yaml:"log"`
}

type GroundOptions struct {
	Seed       int64   `yaml:"seed"`
	Radius     float64 `yaml:"radius"`
	Segments   int     `yaml:"segments"`
	Rings      int     `yaml:"rings"`
	FlatRadius float64 `yaml:"flat_radius"`
	Blend      float64 `yaml:"blend"`
	Height     float64 `yaml:"height"`
	NoiseScale float64 `yaml:"noise_scale"`
	Octaves    int     `yaml:"octaves"`
}

type CampfireOptions struct {
	Rocks  RockRingOptions `yaml:"rocks"`
	Logs   TeepeeOptions   `yaml:"logs"`
	Ground GroundOptions   `yaml:"ground"`
}

func DefaultRockOptions() RockOptions {
	return RockOptions{
		Seed:          42,
		Radius:        0.26,
		Detail:        2,
		NoiseScale:    1.8,
		Roughness:     0.32,
		RidgeWeight:   0.45,
		Octaves:       4,
		FlattenBottom: 0.35,
	}
}

func DefaultRockRingOptions() RockRingOptions {
	return RockRingOptions{
		Seed:        42,
		Count:       10,
		InnerRadius: 1.4,
		OuterRadius: 1.8,
		AngleJitter: 0.3,
		ScaleMin:    0.8,
		ScaleMax:    1.25,
		HeightScale: 0.7,
		Rock:        DefaultRockOptions(),
	}
}

func DefaultLogOptions() LogOptions {
	return LogOptions{
		Seed:           7,
		Length:         1.6,
		Radius:         0.1,
		Taper:          0.85,
		RadialSegments: 14,
		HeightSegments: 12,
		BarkScale:      3.2,
		BarkDepth:      0.12,
		Octaves:        3,
	}
}

func DefaultTeepeeOptions() TeepeeOptions {
	return TeepeeOptions{
		Seed:          7,
		Count:         5,
		MeetHeight:    0.95,
		TiltMin:       0.42,
		TiltMax:       0.58,
		AzimuthJitter: 0.15,
		Overshoot:     0.12,
		Log:           DefaultLogOptions(),
	}
}

func DefaultGroundOptions() GroundOptions {
	return GroundOptions{
		Seed:       3,
		Radius:     14,
		Segments:   72,
		Rings:      28,
		FlatRadius: 2.2,
		Blend:      1.6,
		Height:     0.35,
		NoiseScale: 0.18,
		Octaves:    5,
	}
}

func DefaultCampfireOptions() CampfireOptions {
	return CampfireOptions{
		Rocks:  DefaultRockRingOptions(),
		Logs:   DefaultTeepeeOptions(),
		Ground: DefaultGroundOptions(),
	}
}

func (o RockOptions) Validate() error {
	var errs []error
	if o.Radius <= 0 {
		errs = append(errs, invalid("rock radius must be > 0, got %v", o.Radius))
	}
	if o.Detail < 0 || o.Detail > 6 {
		errs = append(errs, invalid("rock detail must be in [0, 6], got %d", o.Detail))
	}
	if o.Octaves <= 0 {
		errs = append(errs, invalid("rock octaves must be > 0, got %d", o.Octaves))
	}
	if o.Roughness < 0 || o.Roughness >= 1 {
		errs = append(errs, invalid("rock roughness must be in [0, 1), got %v", o.Roughness))
	}
	return errors.Join(errs...)
}

func (o RockRingOptions) Validate() error {
	var errs []error
	if o.Count <= 0 {
		errs = append(errs, invalid("rock count must be > 0, got %d", o.Count))
	}
	if o.InnerRadius <= 0 || o.OuterRadius < o.InnerRadius {
		errs = append(errs, invalid("rock ring radii must satisfy 0 < inner <= outer, got [%v, %v]", o.InnerRadius, o.OuterRadius))
	}
	if o.ScaleMin <= 0 || o.ScaleMax < o.ScaleMin {
		errs = append(errs, invalid("rock scale range must satisfy 0 < min <= max, got [%v, %v]", o.ScaleMin, o.ScaleMax))
	}
	if o.AngleJitter < 0 || o.AngleJitter > 0.5 {
		errs = append(errs, invalid("rock angle jitter must be in [0, 0.5], got %v", o.AngleJitter))
	}
	if o.HeightScale <= 0 {
		errs = append(errs, invalid("rock height scale must be > 0, got %v", o.HeightScale))
	}
	errs = append(errs, o.Rock.Validate())
	return errors.Join(errs...)
}

func (o LogOptions) Validate() error {
	var errs []error
	if o.Length <= 0 || o.Radius <= 0 {
		errs = append(errs, invalid("log length and radius must be > 0, got %v, %v", o.Length, o.Radius))
	}
	if o.Taper <= 0 || o.Taper > 1 {
		errs = append(errs, invalid("log taper must be in (0, 1], got %v", o.Taper))
	}
	if o.RadialSegments < 3 || o.HeightSegments < 1 {
		errs = append(errs, invalid("log segments too low: %d radial, %d height", o.RadialSegments, o.HeightSegments))
	}
	if o.Octaves <= 0 {
		errs = append(errs, invalid("log octaves must be > 0, got %d", o.Octaves))
	}
	return errors.Join(errs...)
}

func (o TeepeeOptions) Validate() error {
	var errs []error
	if o.Count <= 0 {
		errs = append(errs, invalid("log count must be > 0, got %d", o.Count))
	}
	if o.MeetHeight <= 0 {
		errs = append(errs, invalid("meet height must be > 0, got %v", o.MeetHeight))
	}
	if o.TiltMin < 0 || o.TiltMax < o.TiltMin || o.TiltMax >= 1.4 {
		errs = append(errs, invalid("tilt range must satisfy 0 <= min <= max < 1.4 rad, got [%v, %v]", o.TiltMin, o.TiltMax))
	}
	if o.Overshoot < 0 {
		errs = append(errs, invalid("overshoot must be >= 0, got %v", o.Overshoot))
	}
	log := o.Log
	log.Length = 1
	errs = append(errs, log.Validate())
	return errors.Join(errs...)
}

func (o GroundOptions) Validate() error {
	var errs []error
	if o.Radius <= 0 {
		errs = append(errs, invalid("ground radius must be > 0, got %v", o.Radius))
	}
	if o.Segments < 3 || o.Rings < 1 {
		errs = append(errs, invalid("ground tessellation too low: %d segments, %d rings", o.Segments, o.Rings))
	}
	if o.FlatRadius < 0 || o.Blend < 0 {
		errs = append(errs, invalid("ground flat radius and blend must be >= 0"))
	}
	if o.Octaves <= 0 {
		errs = append(errs, invalid("ground octaves must be > 0, got %d", o.Octaves))
	}
	return errors.Join(errs...)
}

func (o CampfireOptions) Validate() error {
	return errors.Join(o.Rocks.Validate(), o.Logs.Validate(), o.Ground.Validate())
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOptions, fmt.Sprintf(format, args...))
}
