package domain

var reviewSchema = &Schema{
	Kind: KindReview,
	Fields: []Field{
		{Name: "place_id", Type: FieldString},
		{Name: "user_id", Type: FieldString},
		{Name: "text", Type: FieldString},
	},
}

// Review is a User's text about a Place
type Review struct {
	Base
}

func newReview() *Review {
	return &Review{Base: newBase(reviewSchema)}
}

func (r *Review) PlaceID() string { return r.stringAttr("place_id") }
func (r *Review) UserID() string { return r.stringAttr("user_id") }
func (r *Review) Text() string { return r.stringAttr("text") }
