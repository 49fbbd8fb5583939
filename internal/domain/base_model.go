package domain

var baseModelSchema = &Schema{Kind: KindBaseModel}

// BaseModel is a record with no kind-specific attributes
type BaseModel struct {
	Base
}

func newBaseModel() *BaseModel {
	return &BaseModel{Base: newBase(baseModelSchema)}
}
