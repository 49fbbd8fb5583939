package domain

var placeSchema = &Schema{
	Kind: KindPlace,
	Fields: []Field{
		{Name: "city_id", Type: FieldString},
		{Name: "user_id", Type: FieldString},
		{Name: "name", Type: FieldString},
		{Name: "description", Type: FieldString},
		{Name: "number_rooms", Type: FieldInt},
		{Name: "number_bathrooms", Type: FieldInt},
		{Name: "max_guest", Type: FieldInt},
		{Name: "price_by_night", Type: FieldInt},
		{Name: "latitude", Type: FieldFloat},
		{Name: "longitude", Type: FieldFloat},
		{Name: "amenity_ids", Type: FieldStringList},
	},
}

// Place is a rentable property in a City, owned by a User
type Place struct {
	Base
}

func newPlace() *Place {
	return &Place{Base: newBase(placeSchema)}
}

func (p *Place) CityID() string { return p.stringAttr("city_id") }
func (p *Place) UserID() string { return p.stringAttr("user_id") }
func (p *Place) Name() string { return p.stringAttr("name") }
func (p *Place) Description() string { return p.stringAttr("description") }
func (p *Place) NumberRooms() int { return p.intAttr("number_rooms") }
func (p *Place) NumberBathrooms() int { return p.intAttr("number_bathrooms") }
func (p *Place) MaxGuest() int { return p.intAttr("max_guest") }
func (p *Place) PriceByNight() int { return p.intAttr("price_by_night") }
func (p *Place) Latitude() float64 { return p.floatAttr("latitude") }
func (p *Place) Longitude() float64 { return p.floatAttr("longitude") }
func (p *Place) AmenityIDs() []string { return append([]string(nil), p.listAttr("amenity_ids")...) }

// AddAmenity links an Amenity id, ignoring duplicates
func (p *Place) AddAmenity(id string) {
	ids := p.listAttr("amenity_ids")
	for _, existing := range ids {
		if existing == id {
			return
		}
	}
	p.attrs["amenity_ids"] = append(ids, id)
}
