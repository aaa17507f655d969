package magfactor

import (
	"gonum.org/v1/gonum/floats"

	"go.viam.com/magfactor/factor"
	"go.viam.com/magfactor/spatialmath"
)

// Record is a plain representation of a factor's stored state, suitable for encoding.
// The noise model is not part of it.
type Record[P any] struct {
	PoseKey     string    `json:"pose_key"`
	Measured    []float64 `json:"measured"`
	NM          []float64 `json:"nM"`
	Bias        []float64 `json:"bias"`
	BodyPSensor *P        `json:"body_P_sensor,omitempty"`
}

// Record returns the stored state of the factor.
func (f *MagPoseFactor[P, R]) Record() Record[P] {
	rec := Record[P]{
		PoseKey:  factor.DefaultKeyFormatter(f.PoseKey()),
		Measured: f.Measured(),
		NM:       f.NM(),
		Bias:     f.Bias(),
	}
	if mount, ok := f.BodyPSensor(); ok {
		rec.BodyPSensor = &mount
	}
	return rec
}

// FromRecord rebuilds a factor through New. The record's field is split back into |nM| and nM;
// a zero field is rebuilt with scale 0.
func FromRecord[P spatialmath.RigidPose[P, R], R spatialmath.Rotation[R]](
	rec Record[P],
	model factor.NoiseModel,
) (*MagPoseFactor[P, R], error) {
	key, err := factor.ParseSymbol(rec.PoseKey)
	if err != nil {
		return nil, factor.NewInvalidArgumentError("pose key: %v", err)
	}
	scale := floats.Norm(rec.NM, 2)
	direction := rec.NM
	if scale == 0 && len(rec.NM) > 0 {
		direction = make([]float64, len(rec.NM))
		direction[0] = 1
	}
	return New[P, R](key, rec.Measured, scale, direction, rec.Bias, model, rec.BodyPSensor)
}
