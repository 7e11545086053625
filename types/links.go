package types

// Link is a HAL link as returned in the "_links" object of amoCRM responses.
type Link struct {
	Href string `json:"href"`
}

type Links struct {
	Self *Link `json:"self,omitempty"`
	Next *Link `json:"next,omitempty"`
	Prev *Link `json:"prev,omitempty"`
}

// HasNext reports whether the collection has another page.
func (l *Links) HasNext() bool {
	return l != nil && l.Next != nil && l.Next.Href != ""
}

// ProblemDetails is the error body amoCRM sends with non-2xx responses.
type ProblemDetails struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}
