package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	table, err := NewTable(3, [][]float64{{0, 1, 2}, {10, 11, 12}}, nil)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	require.Equal(t, 3, table.Width())
	require.Equal(t, []float64{0, 10}, table.Timestamp())
	require.Equal(t, []float64{2, 12}, table.Column(2))
	require.Equal(t, [][]float64{{1, 2}, {11, 12}}, table.Columns(1, 2))
	require.False(t, table.HasText())

	first, ok := table.First()
	require.True(t, ok)
	require.Equal(t, 0.0, first)
	last, ok := table.Last()
	require.True(t, ok)
	require.Equal(t, 10.0, last)
}

func TestNewTableRejectsRaggedRows(t *testing.T) {
	_, err := NewTable(3, [][]float64{{0, 1, 2}, {10, 11}}, nil)
	require.ErrorIs(t, err, ErrRagged)
}

func TestNewTableRejectsMisalignedText(t *testing.T) {
	_, err := NewTable(1, [][]float64{{0}, {1}}, []string{"only one"})
	require.ErrorIs(t, err, ErrTextLength)

	table, err := NewTable(1, [][]float64{{0}, {1}}, []string{"a", ""})
	require.NoError(t, err)
	require.Equal(t, []string{"a", ""}, table.Text())
}

func TestEmptyTableAccessors(t *testing.T) {
	table := EmptyTable(7)
	require.True(t, table.Empty())
	require.Equal(t, 7, table.Width())
	require.Empty(t, table.Timestamp())
	require.Empty(t, table.Columns(1, 3))
	require.Empty(t, Inertial{table}.Gyroscope().XYZ())
	_, ok := table.First()
	require.False(t, ok)
}

func TestColumnsAliasStorage(t *testing.T) {
	rows := [][]float64{{0, 1, 2, 3, 4}}
	table, err := NewTable(5, rows, nil)
	require.NoError(t, err)

	q := Quaternion{table}.Quaternion().WXYZ()
	require.Len(t, q[0], 4)
	require.Same(t, &rows[0][1], &q[0][0])
}

func TestFilterKeepsTextAligned(t *testing.T) {
	table, err := NewTable(1, [][]float64{{0}, {5}, {10}}, []string{"a", "b", "c"})
	require.NoError(t, err)

	got := table.filter(func(ts float64) bool { return ts >= 5 })
	require.Equal(t, []float64{5, 10}, got.Timestamp())
	require.Equal(t, []string{"b", "c"}, got.Text())

	none := table.filter(func(float64) bool { return false })
	require.True(t, none.Empty())
	require.Nil(t, none.Text())
}

func TestMessageTypes(t *testing.T) {
	require.Len(t, AllMessageTypes(), 15)
	require.Equal(t, "RotationMatrix.csv", TypeRotationMatrix.FileName())
	require.Equal(t, 10, TypeRotationMatrix.Width())
	require.True(t, TypeEulerAngles.IsOrientation())
	require.False(t, TypeInertial.IsOrientation())
	require.False(t, TypeAhrsStatus.IsResampled())
	require.True(t, TypeBattery.IsResampled())
	require.True(t, TypeError.HasText())

	for _, s := range []string{"EulerAngles", "euler_angles", "EULERANGLES", "EulerAngles.csv"} {
		mt, err := ParseMessageType(s)
		require.NoError(t, err, s)
		require.Equal(t, TypeEulerAngles, mt)
	}
	_, err := ParseMessageType("gps")
	require.Error(t, err)
}

func TestViews(t *testing.T) {
	row := []float64{100, 1, 2, 3, 4, 5, 6}
	table, err := NewTable(7, [][]float64{row}, nil)
	require.NoError(t, err)

	in := View(TypeInertial, table).(Inertial)
	require.Equal(t, TypeInertial, in.Type())
	require.Equal(t, []float64{1}, in.Gyroscope().X())
	require.Equal(t, [3]float64{4, 5, 6}, in.Accelerometer().At(0))

	for _, mt := range AllMessageTypes() {
		require.Equal(t, mt, View(mt, EmptyTable(mt.Width())).Type())
	}
}
