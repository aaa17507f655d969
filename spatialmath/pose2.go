package spatialmath

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// Pose2 is a rigid transform in the plane. Its local coordinates are (x, y, theta),
// so the rotation block sits at offset 2.
type Pose2 struct {
	t   r2.Point
	rot Rot2
}

// NewPose2 returns the pose at (x, y) with heading theta.
func NewPose2(x, y, theta float64) Pose2 {
	return Pose2{t: r2.Point{X: x, Y: y}, rot: NewRot2(theta)}
}

// Translation returns the position of the pose.
func (p Pose2) Translation() r2.Point {
	return p.t
}

// Rotation returns the rotation of the pose.
func (p Pose2) Rotation() Rot2 {
	return p.rot
}

// Theta returns the heading of the pose.
func (p Pose2) Theta() float64 {
	return p.rot.Theta()
}

// Dim is 3.
func (p Pose2) Dim() int {
	return 3
}

// RotationInterval returns (2, 1).
func (p Pose2) RotationInterval() (int, int) {
	return 2, 1
}

// Retract moves the pose by delta = (dx, dy, dtheta) expressed in the pose's own frame.
func (p Pose2) Retract(delta []float64) (Pose2, error) {
	if len(delta) != 3 {
		return Pose2{}, NewVectorLengthError(3, len(delta))
	}
	c, s := math.Cos(p.rot.theta), math.Sin(p.rot.theta)
	return Pose2{
		t: r2.Point{
			X: p.t.X + c*delta[0] - s*delta[1],
			Y: p.t.Y + s*delta[0] + c*delta[1],
		},
		rot: p.rot.Compose(NewRot2(delta[2])),
	}, nil
}

// Equal reports whether translation and rotation agree within tol.
func (p Pose2) Equal(other Pose2, tol float64) bool {
	return math.Abs(p.t.X-other.t.X) <= tol &&
		math.Abs(p.t.Y-other.t.Y) <= tol &&
		p.rot.Equal(other.rot, tol)
}

func (p Pose2) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.t.X, p.t.Y, p.Theta())
}

type pose2JSON struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

// MarshalJSON encodes the pose as {"x", "y", "theta"} with theta in radians.
func (p Pose2) MarshalJSON() ([]byte, error) {
	return json.Marshal(pose2JSON{X: p.t.X, Y: p.t.Y, Theta: p.Theta()})
}

// UnmarshalJSON decodes a pose written by MarshalJSON.
func (p *Pose2) UnmarshalJSON(data []byte) error {
	var raw pose2JSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = NewPose2(raw.X, raw.Y, raw.Theta)
	return nil
}
