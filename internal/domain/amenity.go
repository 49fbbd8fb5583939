package domain

var amenitySchema = &Schema{
	Kind:   KindAmenity,
	Fields: []Field{{Name: "name", Type: FieldString}},
}

// Amenity is a feature a Place can offer
type Amenity struct {
	Base
}

func newAmenity() *Amenity {
	return &Amenity{Base: newBase(amenitySchema)}
}

func (a *Amenity) Name() string { return a.stringAttr("name") }
