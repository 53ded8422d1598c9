package types

import (
	"encoding/json"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const floatCmpEpsilon = 1e-5

// Mat4 is a 4x4 homogeneous transformation stored in column-major order.
type Mat4 mgl32.Mat4

// Return the identity transform.
func Ident4() Mat4 {
	return Mat4(mgl32.Ident4())
}

// Multiply two transforms. The result applies m2 first and then m.
func (m Mat4) Mul4(m2 Mat4) Mat4 {
	return Mat4(mgl32.Mat4(m).Mul4(mgl32.Mat4(m2)))
}

// Get the element at the given row and column.
func (m Mat4) At(row, col int) float32 {
	return mgl32.Mat4(m).At(row, col)
}

// Get the determinant.
func (m Mat4) Det() float32 {
	return mgl32.Mat4(m).Det()
}

// Compare against another matrix using a small epsilon.
func (m Mat4) ApproxEqual(m2 Mat4) bool {
	return mgl32.Mat4(m).ApproxEqualThreshold(mgl32.Mat4(m2), floatCmpEpsilon)
}

// Check whether this is the identity transform.
func (m Mat4) IsIdentity() bool {
	return m.ApproxEqual(Ident4())
}

// Transform a point.
func (m Mat4) MulPoint(p Vec3) Vec3 {
	return vec3FromMgl(mgl32.TransformCoordinate(p.Mgl(), mgl32.Mat4(m)))
}

// Return the matrix as rows, in reading order.
func (m Mat4) Rows() [4][4]float32 {
	var rows [4][4]float32
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			rows[r][c] = m.At(r, c)
		}
	}
	return rows
}

// Return the 16 matrix elements in row-major order.
func (m Mat4) RowMajor() []float32 {
	out := make([]float32, 0, 16)
	for _, row := range m.Rows() {
		out = append(out, row[:]...)
	}
	return out
}

// Serialize as a row-major nested array.
func (m Mat4) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Rows())
}

// Convert an angle from degrees to radians.
func Radians(deg float32) float32 {
	return deg * math.Pi / 180.0
}

// Build a rotation from Euler angles given in radians. The resulting
// rotation is Rx * Ry * Rz so the Z rotation is applied first.
func EulerToMat4(theta Vec3) Mat4 {
	rx := mgl32.HomogRotate3DX(theta[0])
	ry := mgl32.HomogRotate3DY(theta[1])
	rz := mgl32.HomogRotate3DZ(theta[2])
	return Mat4(rx.Mul4(ry).Mul4(rz))
}

// Compose a placement into a single transform: T * R * S. Nil components
// default to no translation, no rotation and unit scale.
func Compose(translate, rotate, scale *Vec3) Mat4 {
	m := mgl32.Ident4()
	if translate != nil {
		m = m.Mul4(mgl32.Translate3D(translate[0], translate[1], translate[2]))
	}
	if rotate != nil {
		m = m.Mul4(mgl32.Mat4(EulerToMat4(*rotate)))
	}
	if scale != nil {
		m = m.Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
	}
	return Mat4(m)
}

// Build a camera-to-world transform for a camera placed at origin looking
// at target. Columns are (left, up, forward, origin).
func LookAt(origin, target, up Vec3) Mat4 {
	dir := target.Sub(origin).Normalize()
	left := up.Cross(dir).Normalize()
	newUp := dir.Cross(left)
	return Mat4(mgl32.Mat4FromCols(
		left.Mgl().Vec4(0),
		newUp.Mgl().Vec4(0),
		dir.Mgl().Vec4(0),
		origin.Mgl().Vec4(1),
	))
}
