package notifications

type ListNotificationsQuery struct {
	Limit    int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=200"`
	Offset   int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	MemberID *int    `query:"member_id" json:"member_id,omitempty" validate:"omitempty,min=1"`
	Type     *string `query:"type" json:"type,omitempty" validate:"omitempty,oneof=borrow return"`
}
