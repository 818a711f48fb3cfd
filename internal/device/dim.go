package device

// Dim3 represents 3D grid and block dimensions for a kernel launch.
type Dim3 struct {
	X, Y, Z int
}

// Size returns the total number of elements spanned by the dimensions.
// Zero components count as one so partially specified geometry stays valid.
func (d Dim3) Size() int {
	n := 1
	if d.X > 0 {
		n *= d.X
	}
	if d.Y > 0 {
		n *= d.Y
	}
	if d.Z > 0 {
		n *= d.Z
	}
	return n
}
