package domain

var citySchema = &Schema{
	Kind: KindCity,
	Fields: []Field{
		{Name: "state_id", Type: FieldString},
		{Name: "name", Type: FieldString},
	},
}

// City belongs to a State through state_id
type City struct {
	Base
}

func newCity() *City {
	return &City{Base: newBase(citySchema)}
}

func (c *City) StateID() string { return c.stringAttr("state_id") }
func (c *City) Name() string { return c.stringAttr("name") }
