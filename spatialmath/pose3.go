package spatialmath

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Pose3 is a rigid transform in space. Its local coordinates are (omega, v): the rotation
// vector first, then the translation increment in the body frame.
type Pose3 struct {
	t   r3.Vector
	rot Rot3
}

// NewPose3 returns the pose with the given translation and rotation.
func NewPose3(t r3.Vector, rot Rot3) Pose3 {
	return Pose3{t: t, rot: rot}
}

// NewPose3FromRotation returns a pose at the origin.
func NewPose3FromRotation(rot Rot3) Pose3 {
	return Pose3{rot: rot}
}

// Translation returns the position of the pose.
func (p Pose3) Translation() r3.Vector {
	return p.t
}

// Rotation returns the rotation of the pose.
func (p Pose3) Rotation() Rot3 {
	return p.rot
}

// Dim is 6.
func (p Pose3) Dim() int {
	return 6
}

// RotationInterval returns (0, 3).
func (p Pose3) RotationInterval() (int, int) {
	return 0, 3
}

// Retract moves the pose by delta = (omega, v): R' = R * Exp(omega), t' = t + R * v.
func (p Pose3) Retract(delta []float64) (Pose3, error) {
	if len(delta) != 6 {
		return Pose3{}, NewVectorLengthError(6, len(delta))
	}
	omega := r3.Vector{X: delta[0], Y: delta[1], Z: delta[2]}
	v := r3.Vector{X: delta[3], Y: delta[4], Z: delta[5]}
	return Pose3{
		t:   p.t.Add(p.rot.RotateR3(v)),
		rot: p.rot.Compose(Expmap(omega)),
	}, nil
}

// Equal reports whether translation and rotation agree within tol.
func (p Pose3) Equal(other Pose3, tol float64) bool {
	return math.Abs(p.t.X-other.t.X) <= tol &&
		math.Abs(p.t.Y-other.t.Y) <= tol &&
		math.Abs(p.t.Z-other.t.Z) <= tol &&
		p.rot.Equal(other.rot, tol)
}

func (p Pose3) String() string {
	aa := p.rot.AxisAngles()
	return fmt.Sprintf("translation (%g, %g, %g) axis angle (%g | %g, %g, %g)",
		p.t.X, p.t.Y, p.t.Z, aa.Theta, aa.RX, aa.RY, aa.RZ)
}

type pose3JSON struct {
	Translation r3.Vector `json:"translation"`
	Orientation *R4AA     `json:"orientation,omitempty"`
}

// MarshalJSON encodes the pose with its orientation as an axis angle.
func (p Pose3) MarshalJSON() ([]byte, error) {
	return json.Marshal(pose3JSON{Translation: p.t, Orientation: p.rot.AxisAngles()})
}

// UnmarshalJSON decodes a pose written by MarshalJSON. A missing orientation is the identity.
func (p *Pose3) UnmarshalJSON(data []byte) error {
	var raw pose3JSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rot := NewRot3()
	if raw.Orientation != nil {
		var err error
		if rot, err = NewRot3FromR4AA(raw.Orientation); err != nil {
			return errors.Wrap(err, "invalid pose orientation")
		}
	}
	*p = NewPose3(raw.Translation, rot)
	return nil
}
