package domain

var stateSchema = &Schema{
	Kind:   KindState,
	Fields: []Field{{Name: "name", Type: FieldString}},
}

// State is a top-level region
type State struct {
	Base
}

func newState() *State {
	return &State{Base: newBase(stateSchema)}
}

func (s *State) Name() string { return s.stringAttr("name") }
