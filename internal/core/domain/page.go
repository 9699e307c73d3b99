package domain

// BlockChildrenPage is one page of a paginated block-children listing. The
// platform caps pages at 500 items; HasMore with a PageToken drives
// the next request.
type BlockChildrenPage struct {
	Items     []Block `json:"items"`
	HasMore   bool    `json:"has_more"`
	PageToken string  `json:"page_token,omitempty"`
}
