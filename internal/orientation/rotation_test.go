package orientation

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const tol = 1e-9

func requireSameRotation(t *testing.T, want, got Rotation) {
	t.Helper()
	require.InDelta(t, 0, want.Angle(got), 1e-6, "want %v got %v", want.WXYZ(), got.WXYZ())
}

func TestEulerRoundTrip(t *testing.T) {
	for _, p := range []Pose{
		{0, 0, 0},
		{10, 20, 30},
		{-45, 60, 170},
		{179, -89, -179},
		{90, 0, 90},
		{-120, 30, -60},
	} {
		got := FromEuler(p.Roll, p.Pitch, p.Yaw).Euler()
		require.InDelta(t, p.Roll, got.Roll, 1e-6, "roll of %+v", p)
		require.InDelta(t, p.Pitch, got.Pitch, 1e-6, "pitch of %+v", p)
		require.InDelta(t, p.Yaw, got.Yaw, 1e-6, "yaw of %+v", p)
	}
}

func TestQuaternionEulerQuaternion(t *testing.T) {
	q := FromWXYZ(0.8, 0.2, -0.3, 0.4)
	p := q.Euler()
	requireSameRotation(t, q, FromEuler(p.Roll, p.Pitch, p.Yaw))
}

func TestFromWXYZNormalises(t *testing.T) {
	q := FromWXYZ(2, 0, 0, 0).WXYZ()
	require.InDelta(t, 1, q[0], tol)

	require.Equal(t, Identity(), FromWXYZ(0, 0, 0, 0))
}

func TestMatrixRoundTrip(t *testing.T) {
	for _, p := range []Pose{{0, 0, 0}, {10, 20, 30}, {170, -10, 95}, {0, 0, 180}, {180, 0, 0}, {0, 180, 0}} {
		r := p.Rotation()
		requireSameRotation(t, r, FromMatrix(r.Matrix()))
		m := r.rowMajor()
		requireSameRotation(t, r, fromRowMajor(m[:]))
		require.Equal(t, m[:], r.Matrix().RawMatrix().Data)
	}
}

func TestMatrixRotatesVectors(t *testing.T) {
	// 90 degrees about Z maps x onto y.
	m := FromYaw(90).Matrix()
	var v mat.VecDense
	v.MulVec(m, mat.NewVecDense(3, []float64{1, 0, 0}))
	require.InDelta(t, 0, v.AtVec(0), tol)
	require.InDelta(t, 1, v.AtVec(1), tol)
	require.InDelta(t, 0, v.AtVec(2), tol)
}

func TestHeading(t *testing.T) {
	require.InDelta(t, 45, FromYaw(45).Heading(), tol)
	require.InDelta(t, -30, FromEuler(5, 10, -30).Heading(), 1e-6)
}

func TestMulComposesYaw(t *testing.T) {
	r := FromEuler(10, 20, 30)
	got := FromYaw(15).Mul(r).Euler()
	require.InDelta(t, 10, got.Roll, 1e-6)
	require.InDelta(t, 20, got.Pitch, 1e-6)
	require.InDelta(t, 45, got.Yaw, 1e-6)
}

func TestAngle(t *testing.T) {
	for _, r := range []Rotation{
		Identity(),
		FromWXYZ(0.8, 0.2, -0.3, 0.4),
		FromEuler(179, -89, -179),
	} {
		require.InDelta(t, 0, r.Angle(r), 1e-12)
		// q and -q are the same rotation.
		q := r.WXYZ()
		require.InDelta(t, 0, r.Angle(FromWXYZ(-q[0], -q[1], -q[2], -q[3])), 1e-12)
	}

	require.InDelta(t, 90, FromYaw(10).Angle(FromYaw(100)), 1e-9)
	require.InDelta(t, 180, Identity().Angle(FromEuler(180, 0, 0)), 1e-9)
	require.InDelta(t, 1e-6, Identity().Angle(FromYaw(1e-6)), 1e-15)

	r := FromEuler(10, 20, 30)
	require.InDelta(t, 0, FromEuler(10, 20, 30).Angle(r), 1e-12)
}

func TestSlerp(t *testing.T) {
	a := FromYaw(0)
	b := FromYaw(90)

	requireSameRotation(t, a, Slerp(a, b, 0))
	requireSameRotation(t, b, Slerp(a, b, 1))
	require.InDelta(t, 45, Slerp(a, b, 0.5).Heading(), 1e-6)
	require.InDelta(t, 22.5, Slerp(a, b, 0.25).Heading(), 1e-6)
}

func TestSlerpShortestArc(t *testing.T) {
	a := FromYaw(170)
	b := FromYaw(-170)
	mid := Slerp(a, b, 0.5).Heading()
	require.InDelta(t, 180, math.Abs(mid), 1e-6)

	// Opposite quaternion signs describe the same rotation.
	neg := FromWXYZ(-b.WXYZ()[0], -b.WXYZ()[1], -b.WXYZ()[2], -b.WXYZ()[3])
	require.InDelta(t, 180, math.Abs(Slerp(a, neg, 0.5).Heading()), 1e-6)
}

func TestSlerpNearlyParallel(t *testing.T) {
	a := FromYaw(10)
	b := FromYaw(10.001)
	require.InDelta(t, 10.0005, Slerp(a, b, 0.5).Heading(), 1e-6)
}

func TestStreamSource(t *testing.T) {
	samples := []StampedPose{
		{Timestamp: 0, Pose: Pose{Roll: 1}},
		{Timestamp: 1000, Pose: Pose{Roll: 2}},
	}

	src := NewStreamSource(samples, false)
	p, err := src.Next()
	require.NoError(t, err)
	require.Equal(t, 1.0, p.Roll)
	p, err = src.Next()
	require.NoError(t, err)
	require.Equal(t, 2.0, p.Roll)
	_, err = src.Next()
	require.ErrorIs(t, err, io.EOF)

	looped := NewStreamSource(samples, true)
	for i := 0; i < 3; i++ {
		_, err := looped.Next()
		require.NoError(t, err)
	}
	p, _ = looped.Next()
	require.Equal(t, 2.0, p.Roll)

	_, err = NewStreamSource(nil, true).Next()
	require.ErrorIs(t, err, io.EOF)
}
