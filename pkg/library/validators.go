package library

// AddBookPayload isn't tag-validated; Service.AddBook checks both fields and
// names the one it rejects.
type AddBookPayload struct {
	Title  string `json:"title"`
	Copies int    `json:"copies"`
}

type LendingPayload struct {
	MemberID int    `json:"member_id"`
	Title    string `json:"title" validate:"required,max=500"`
}

type LendingResponse struct {
	Success bool `json:"success"`
}
