package core

// PrimitiveList is a flat collection searched linearly for the closest hit
type PrimitiveList struct {
	Objects []Hittable
}

// NewPrimitiveList creates a list from the given objects
func NewPrimitiveList(objects ...Hittable) *PrimitiveList {
	return &PrimitiveList{Objects: objects}
}

// Hit tests every object, narrowing the search interval to the closest hit so far
func (l *PrimitiveList) Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool) {
	var closestHit *HitRecord
	hitAnything := false
	closestSoFar := tMax

	for _, object := range l.Objects {
		if hit, isHit := object.Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}

// BoundingBox returns the union of all member boxes; an empty list or an
// unbounded member makes the whole list unbounded
func (l *PrimitiveList) BoundingBox() (AABB, bool) {
	if len(l.Objects) == 0 {
		return AABB{}, false
	}

	box, ok := l.Objects[0].BoundingBox()
	for _, object := range l.Objects[1:] {
		if !ok {
			return AABB{}, false
		}
		objectBox, objectOK := object.BoundingBox()
		box, ok = SurroundingBox(box, ok, objectBox, objectOK)
	}
	return box, ok
}
