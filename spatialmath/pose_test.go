package spatialmath

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestPose2(t *testing.T) {
	p := NewPose2(1, 2, math.Pi/2)
	test.That(t, p.Dim(), test.ShouldEqual, 3)
	off, length := p.RotationInterval()
	test.That(t, off, test.ShouldEqual, 2)
	test.That(t, length, test.ShouldEqual, p.Rotation().Dim())

	moved, err := p.Retract([]float64{1, 0, 0.5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, moved.Translation().X, test.ShouldAlmostEqual, 1.)
	test.That(t, moved.Translation().Y, test.ShouldAlmostEqual, 3.)
	test.That(t, moved.Theta(), test.ShouldAlmostEqual, math.Pi/2+0.5)

	_, err = p.Retract([]float64{1, 0})
	test.That(t, err, test.ShouldBeError, NewVectorLengthError(3, 2))

	test.That(t, p.Equal(NewPose2(1, 2, math.Pi/2), 1e-9), test.ShouldBeTrue)
	test.That(t, p.Equal(NewPose2(1, 2.1, math.Pi/2), 1e-9), test.ShouldBeFalse)

	data, err := json.Marshal(p)
	test.That(t, err, test.ShouldBeNil)
	var decoded Pose2
	test.That(t, json.Unmarshal(data, &decoded), test.ShouldBeNil)
	test.That(t, decoded.Equal(p, 1e-12), test.ShouldBeTrue)
}

func TestPose3(t *testing.T) {
	rot := Expmap(r3.Vector{Z: math.Pi / 2})
	p := NewPose3(r3.Vector{X: 1, Y: 2, Z: 3}, rot)
	test.That(t, p.Dim(), test.ShouldEqual, 6)
	off, length := p.RotationInterval()
	test.That(t, off, test.ShouldEqual, 0)
	test.That(t, length, test.ShouldEqual, p.Rotation().Dim())

	moved, err := p.Retract([]float64{0, 0, 0, 1, 0, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, moved.Translation().X, test.ShouldAlmostEqual, 1.)
	test.That(t, moved.Translation().Y, test.ShouldAlmostEqual, 3.)
	test.That(t, moved.Rotation().Equal(rot, 1e-12), test.ShouldBeTrue)

	moved, err = p.Retract([]float64{0, 0, 0.25, 0, 0, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, moved.Translation(), test.ShouldResemble, p.Translation())
	test.That(t, moved.Rotation().Equal(Expmap(r3.Vector{Z: math.Pi/2 + 0.25}), 1e-12), test.ShouldBeTrue)

	_, err = p.Retract(make([]float64, 3))
	test.That(t, err, test.ShouldBeError, NewVectorLengthError(6, 3))

	var zero Pose3
	test.That(t, zero.Equal(NewPose3FromRotation(NewRot3()), 0), test.ShouldBeTrue)
}

func TestPose3JSON(t *testing.T) {
	p := NewPose3(r3.Vector{X: -1, Y: 0.5, Z: 10}, Expmap(r3.Vector{X: 0.2, Y: -0.1, Z: 0.7}))
	data, err := json.Marshal(p)
	test.That(t, err, test.ShouldBeNil)
	var decoded Pose3
	test.That(t, json.Unmarshal(data, &decoded), test.ShouldBeNil)
	test.That(t, decoded.Equal(p, 1e-9), test.ShouldBeTrue)

	test.That(t, json.Unmarshal([]byte(`{"translation":{"X":1}}`), &decoded), test.ShouldBeNil)
	test.That(t, decoded.Equal(NewPose3(r3.Vector{X: 1}, NewRot3()), 0), test.ShouldBeTrue)

	err = json.Unmarshal([]byte(`{"orientation":{"th":1,"x":0,"y":0,"z":0}}`), &decoded)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "invalid pose orientation")
}
