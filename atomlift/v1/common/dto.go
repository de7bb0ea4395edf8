package common

// IdNameDTO is the shape of most dropdown sources: complaint types, priorities, AMC types.
type IdNameDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ExecutiveDTO struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}

// Selection is a dropdown choice held by a form: the id that is submitted and the label that is shown.
type Selection struct {
	ID    int64
	Label string
}

func (s Selection) IsZero() bool {
	return s.ID == 0 && s.Label == ""
}
