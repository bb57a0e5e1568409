package members

type CreateMemberPayload struct {
	Name string `json:"name" validate:"required,max=200" mod:"trim"`
}

type ListMembersQuery struct {
	Limit              int  `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=100"`
	Offset             int  `query:"offset" json:"offset,omitempty" validate:"min=0"`
	IncludeDeactivated bool `query:"include_deactivated" json:"include_deactivated,omitempty"`
}
