package edge

// PlaceholderPointCount is the number of points in the placeholder ring,
// including the closing point that repeats the first.
const PlaceholderPointCount = 17

var placeholderRing = [PlaceholderPointCount]Point{
	{100, 200}, {150, 150}, {200, 180}, {250, 150}, {300, 200}, {350, 150},
	{400, 200}, {450, 250}, {500, 300}, {450, 350}, {400, 380}, {350, 400},
	{300, 380}, {250, 350}, {200, 320}, {150, 280}, {100, 200},
}

// Placeholder returns the fixed synthetic ring used to seed refinement when
// extraction finds no primary contour. Each call returns a fresh copy.
func Placeholder() Contour {
	pts := make([]Point, PlaceholderPointCount)
	copy(pts, placeholderRing[:])
	return Contour{Points: pts, Area: Area(pts)}
}
