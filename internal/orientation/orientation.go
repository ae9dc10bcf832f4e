package orientation

// Pose is the Euler-angle representation used on the wire: roll, pitch
// and yaw in degrees.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Rotation returns the rotation described by the pose.
func (p Pose) Rotation() Rotation {
	return FromEuler(p.Roll, p.Pitch, p.Yaw)
}

// Source is anything that can provide poses over time.
// Next returns io.EOF once a finite source is exhausted.
type Source interface {
	Next() (Pose, error)
}
